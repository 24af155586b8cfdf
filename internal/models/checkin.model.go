package models

import "time"

type EntryMethod string

const (
	EntryNameVerification EntryMethod = "NAME_VERIFICATION"
	EntryAccessCode       EntryMethod = "ACCESS_CODE"
)

// CheckIn is an append-only audit record. VisitorID/AddressID are nullable
// so guards can log unregistered visitors; the name snapshots preserve what
// was presented at the gate.
type CheckIn struct {
	BaseUUIDModel
	VisitorID   *string     `gorm:"type:varchar(64);index"     json:"visitorId"`
	AddressID   *string     `gorm:"type:varchar(64);index"     json:"addressId"`
	GuardID     string      `gorm:"type:varchar(64);not null"  json:"guardId"`
	CheckedInAt time.Time   `gorm:"not null"                   json:"checkedInAt"`
	EntryMethod EntryMethod `gorm:"type:varchar(30);not null"  json:"entryMethod"`
	VisitorName *string     `gorm:"type:varchar(255)"          json:"visitorName"`
	AddressText *string     `gorm:"type:varchar(512)"          json:"addressText"`
	Notes       *string     `gorm:"type:text"                  json:"notes"`
}

type CodeCheckInRequest struct {
	AccessCode string  `json:"accessCode"`
	AddressID  string  `json:"addressId"`
	Notes      *string `json:"notes"`
}

// NameCheckInRequest covers registered and unregistered visitors alike:
// AddressText stands in when the address is not in the system.
type NameCheckInRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	AddressID   string  `json:"addressId"`
	AddressText string  `json:"addressText"`
	Notes       *string `json:"notes"`
}

type CheckInFilter struct {
	AddressID *string
	GuardID   *string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}
