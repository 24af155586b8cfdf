package models

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleGuard  UserRole = "guard"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	BaseUUIDModel
	FirstName string   `gorm:"type:varchar(255);not null"        json:"firstName"`
	LastName  string   `gorm:"type:varchar(255);not null"        json:"lastName"`
	Email     *string  `gorm:"type:varchar(255);uniqueIndex"     json:"email"`
	Login     string   `gorm:"type:varchar(255);uniqueIndex"     json:"login"`
	Password  string   `gorm:"type:varchar(255)"                 json:"-"`
	Phone     *string  `gorm:"type:varchar(50)"                  json:"phone"`
	Role      UserRole `gorm:"type:varchar(20);not null;default:member" json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsGuard() bool {
	return u.Role == RoleGuard
}

// IdentityMapping ties a federated identity to a local profile. The unique
// index on (provider, provider_id) makes upsert-by-natural-key safe against
// duplicate profile creation.
type IdentityMapping struct {
	BaseUUIDModel
	Provider   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_provider_identity"  json:"provider"`
	ProviderID string `gorm:"type:varchar(255);not null;uniqueIndex:idx_provider_identity" json:"providerId"`
	UserID     string `gorm:"type:varchar(64);not null;index"                              json:"userId"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
