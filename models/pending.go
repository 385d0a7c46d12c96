package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingVerification holds one in-flight registration awaiting its OTP.
// The collection carries a unique index on email (at most one active record
// per address) and a TTL index on expiresAt. Only the bcrypt hash of the code
// is stored.
type PendingVerification struct {
	ID        primitive.ObjectID    `json:"-" bson:"_id,omitempty"`
	Email     string                `json:"email" bson:"email"`
	CodeHash  string                `json:"-" bson:"codeHash"`
	Payload   ValidatedRegistration `json:"-" bson:"payload"`
	ExpiresAt time.Time             `json:"expiresAt" bson:"expiresAt"`
	Attempts  int                   `json:"attempts" bson:"attempts"`
	Resends   int                   `json:"resends" bson:"resends"`
	CreatedAt time.Time             `json:"createdAt" bson:"createdAt"`
}
