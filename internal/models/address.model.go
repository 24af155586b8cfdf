package models

import "time"

type AddressStatus string

const (
	AddressStatusPending  AddressStatus = "PENDING"
	AddressStatusApproved AddressStatus = "APPROVED"
	AddressStatusRejected AddressStatus = "REJECTED"
)

type VerificationStatus string

const (
	VerificationUnverified  VerificationStatus = "UNVERIFIED"
	VerificationVerified    VerificationStatus = "VERIFIED"
	VerificationInvalid     VerificationStatus = "INVALID"
	VerificationNeedsReview VerificationStatus = "NEEDS_REVIEW"
)

// Address is a member-registered residence. Admin approval (Status) and
// automated verification (VerificationStatus) are independent tracks.
type Address struct {
	BaseUUIDModel
	MemberID           string             `gorm:"type:varchar(64);not null;index"          json:"memberId"`
	Address            string             `gorm:"type:varchar(512);not null"               json:"address"`
	ApartmentNumber    *string            `gorm:"type:varchar(50)"                         json:"apartmentNumber"`
	OwnerName          string             `gorm:"type:varchar(255);not null"               json:"ownerName"`
	Status             AddressStatus      `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	DecisionNotes      *string            `gorm:"type:text"                                json:"decisionNotes"`
	IsPrimary          bool               `gorm:"not null;default:false"                   json:"isPrimary"`
	IsActive           bool               `gorm:"not null;default:true"                    json:"isActive"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(20);not null;default:UNVERIFIED" json:"verificationStatus"`
	VerificationNotes  *string            `gorm:"type:text"                                json:"verificationNotes"`
	VerifiedAt         *time.Time         `json:"verifiedAt"`
	VerifiedBy         *string            `gorm:"type:varchar(64)"                         json:"verifiedBy"`
}

// AddressSuggestion is an ephemeral autocomplete entry; never persisted.
// Quality counts present structural components and is stripped from
// responses after ranking.
type AddressSuggestion struct {
	FullAddress string `json:"fullAddress"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Quality     int    `json:"-"`
}

type CreateAddressRequest struct {
	Address         string  `json:"address"`
	ApartmentNumber *string `json:"apartmentNumber"`
	OwnerName       string  `json:"ownerName"`
	IsPrimary       bool    `json:"isPrimary"`
	FromSuggestion  bool    `json:"fromSuggestion"`
}

// UpdateAddressRequest carries pointer fields so a patch can distinguish
// "absent" from "set to zero value".
type UpdateAddressRequest struct {
	Address         *string `json:"address"`
	ApartmentNumber *string `json:"apartmentNumber"`
	OwnerName       *string `json:"ownerName"`
	IsPrimary       *bool   `json:"isPrimary"`
	FromSuggestion  bool    `json:"fromSuggestion"`
}

type DeletionMode string

const (
	DeletionHard DeletionMode = "HARD"
	DeletionSoft DeletionMode = "SOFT"
)

type DeletionResult struct {
	Mode       DeletionMode `json:"mode"`
	PromotedID string       `json:"promotedId,omitempty"`
}
