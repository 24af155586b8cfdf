package models

import "time"

// Visitor is an allowed visitor for one address. Identity is carried by a
// name, an access code, or both; never neither.
type Visitor struct {
	BaseUUIDModel
	AddressID  string     `gorm:"type:varchar(64);not null;index" json:"addressId"`
	FirstName  *string    `gorm:"type:varchar(255)"               json:"firstName"`
	LastName   *string    `gorm:"type:varchar(255)"               json:"lastName"`
	AccessCode *string    `gorm:"type:varchar(10);index"          json:"accessCode"`
	ExpiresAt  time.Time  `gorm:"not null"                        json:"expiresAt"`
	IsActive   bool       `gorm:"not null;default:true"           json:"isActive"`
	LastUsed   *time.Time `json:"lastUsed"`
}

// HasName reports whether the visitor is a named visitor.
func (v Visitor) HasName() bool {
	return (v.FirstName != nil && *v.FirstName != "") ||
		(v.LastName != nil && *v.LastName != "")
}

func (v Visitor) HasCode() bool {
	return v.AccessCode != nil && *v.AccessCode != ""
}

type ExpirationOption string

const (
	Expire24Hours  ExpirationOption = "24h"
	ExpireOneWeek  ExpirationOption = "1w"
	ExpireOneMonth ExpirationOption = "1m"
	ExpireCustom   ExpirationOption = "custom"
)

type CreateVisitorRequest struct {
	AddressID    string           `json:"addressId"`
	FirstName    *string          `json:"firstName"`
	LastName     *string          `json:"lastName"`
	GenerateCode bool             `json:"generateCode"`
	Expiration   ExpirationOption `json:"expiration"`
	CustomDate   string           `json:"customDate"`
}

type UpdateVisitorRequest struct {
	FirstName  *string          `json:"firstName"`
	LastName   *string          `json:"lastName"`
	Expiration ExpirationOption `json:"expiration"`
	CustomDate string           `json:"customDate"`
	IsActive   *bool            `json:"isActive"`
}

type BulkAction string

const (
	BulkExtend BulkAction = "extend"
	BulkRevoke BulkAction = "revoke"
	BulkDelete BulkAction = "delete"
)

type BulkVisitorRequest struct {
	Action     BulkAction       `json:"action"`
	VisitorIDs []string         `json:"visitorIds"`
	Expiration ExpirationOption `json:"expiration"`
	CustomDate string           `json:"customDate"`
}

type BulkOutcome string

const (
	BulkOutcomeFull     BulkOutcome = "FULL"
	BulkOutcomePartial  BulkOutcome = "PARTIAL"
	BulkOutcomeConflict BulkOutcome = "CONFLICT"
)

// BulkResult is the single source of truth for which ids a bulk action
// touched. Callers retrying with a follow-up action must take BlockedIDs
// from here, never re-derive it client-side.
type BulkResult struct {
	Outcome    BulkOutcome `json:"outcome"`
	DeletedIDs []string    `json:"deletedIds,omitempty"`
	BlockedIDs []string    `json:"blockedIds,omitempty"`
	Applied    int         `json:"applied"`
}
