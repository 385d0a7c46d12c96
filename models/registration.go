// models/registration.go

package models

// AccountKind discriminates the two sides of the marketplace
type AccountKind string

const (
	KindIndividual   AccountKind = "individual"
	KindOrganization AccountKind = "organization"
)

// RegistrationRequest is the transient submission from the client. It is a
// tagged union on Kind: Organization is only consulted for organization
// signups. The request is discarded after the pending record is written.
type RegistrationRequest struct {
	Kind            AccountKind          `json:"kind" form:"kind" validate:"required,oneof=individual organization"`
	FullName        string               `json:"fullName" form:"fullName" validate:"required_if=Kind organization"`
	Email           string               `json:"email" form:"email" validate:"required,email"`
	Phone           string               `json:"phone" form:"phone" validate:"required,localphone"`
	Password        string               `json:"password" form:"password" validate:"required,strongpassword"`
	ConfirmPassword string               `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
	TermsAccepted   bool                 `json:"termsAccepted" form:"termsAccepted" validate:"required"`
	Organization    *OrganizationDetails `json:"organization,omitempty"`
}

// OrganizationDetails carries the organization-only registration fields
type OrganizationDetails struct {
	RegNumber string `json:"regNumber,omitempty"`
	Address   string `json:"address,omitempty"`
}

// FieldError is one violated validation rule, addressed to the submitted field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatedRegistration is the normalized payload carried through the OTP
// stage. The password is already hashed; the plaintext never leaves the
// validation step.
type ValidatedRegistration struct {
	Kind         AccountKind          `json:"kind" bson:"kind"`
	FullName     string               `json:"fullName" bson:"fullName"`
	Email        string               `json:"email" bson:"email"`
	Phone        string               `json:"phone" bson:"phone"`
	PasswordHash string               `json:"-" bson:"passwordHash"`
	Organization *OrganizationPayload `json:"organization,omitempty" bson:"organization,omitempty"`
}

// OrganizationPayload is the organization slice of a validated registration,
// including the outcome of the authenticity checks run at submission time.
type OrganizationPayload struct {
	RegNumber      string  `json:"regNumber,omitempty" bson:"regNumber,omitempty"`
	Address        string  `json:"address,omitempty" bson:"address,omitempty"`
	LogoHash       string  `json:"logoHash,omitempty" bson:"logoHash,omitempty"`
	Confidence     float64 `json:"confidence" bson:"confidence"`
	MatchedKeyword string  `json:"matchedKeyword,omitempty" bson:"matchedKeyword,omitempty"`
}

// DuplicateQuery is a subset of identity fields to test for conflicts
type DuplicateQuery struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	RegNumber string `json:"regNumber,omitempty"`
}

// IsEmpty reports whether no field of the query is set
func (q DuplicateQuery) IsEmpty() bool {
	return q.Name == "" && q.Email == "" && q.Phone == "" && q.RegNumber == ""
}
