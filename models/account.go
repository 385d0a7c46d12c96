// models/account.go

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Individual is a job/course seeker account. Email and phone carry unique
// indexes shared conceptually with the organizations collection: a value used
// by either side is taken.
type Individual struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	FullName  string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Organization is an employer/course-provider account. LogoHash is the
// perceptual fingerprint of the registered logo; NameLower backs the
// case-insensitive name lookups.
type Organization struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	NameLower      string             `json:"-" bson:"nameLower"`
	Email          string             `json:"email" bson:"email"`
	Phone          string             `json:"phone" bson:"phone"`
	Password       string             `json:"-" bson:"password"`
	RegNumber      string             `json:"regNumber,omitempty" bson:"regNumber,omitempty"`
	Address        string             `json:"address,omitempty" bson:"address,omitempty"`
	LogoHash       string             `json:"logoHash,omitempty" bson:"logoHash,omitempty"`
	LogoURL        string             `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	Confidence     float64            `json:"confidence" bson:"confidence"`
	MatchedKeyword string             `json:"-" bson:"matchedKeyword,omitempty"`
	Role           string             `json:"role" bson:"role"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Account is the public view of either account kind returned to clients
type Account struct {
	ID        string      `json:"id"`
	Kind      AccountKind `json:"kind"`
	Name      string      `json:"name,omitempty"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	RegNumber string      `json:"regNumber,omitempty"`
	LogoHash  string      `json:"logoHash,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// PublicView strips credentials from an individual account
func (i *Individual) PublicView() *Account {
	return &Account{
		ID:        i.ID.Hex(),
		Kind:      KindIndividual,
		Name:      i.FullName,
		Email:     i.Email,
		Phone:     i.Phone,
		CreatedAt: i.CreatedAt,
	}
}

// PublicView strips credentials from an organization account
func (o *Organization) PublicView() *Account {
	return &Account{
		ID:        o.ID.Hex(),
		Kind:      KindOrganization,
		Name:      o.Name,
		Email:     o.Email,
		Phone:     o.Phone,
		RegNumber: o.RegNumber,
		LogoHash:  o.LogoHash,
		CreatedAt: o.CreatedAt,
	}
}
