package seed

import (
	"time"

	"gatehouse/config"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{
			FirstName: "Dana",
			LastName:  "Whitfield",
			Email:     stringPtr("dana.whitfield@example.com"),
			Login:     "dana",
			Password:  "password",
			Role:      RoleAdmin,
		}, {
			FirstName: "Marcus",
			LastName:  "Reyes",
			Email:     stringPtr("marcus.reyes@example.com"),
			Login:     "gatehouse",
			Password:  "password",
			Role:      RoleGuard,
		}, {
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     stringPtr("ada.lovelace@example.com"),
			Login:     "ada",
			Password:  "password",
			Role:      RoleMember,
		}, {
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     stringPtr("grace.hopper@example.com"),
			Login:     "grace",
			Password:  "password",
			Role:      RoleMember,
		},
	}

	logins := make(map[string]string, len(users))

	for _, user := range users {
		var existingUser User
		if err := db.First(&existingUser, "login = ?", user.Login).Error; err == nil {
			log.Info("User already exists", "login", user.Login)
			logins[user.Login] = existingUser.ID
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return log.Err("failed to hash seed password", err, "login", user.Login)
		}
		user.Password = string(hash)

		log.Info("Seeding user", "login", user.Login, "role", user.Role)
		if err := db.Create(&user).Error; err != nil {
			log.Er("failed to create user", err, "login", user.Login)
			continue
		}
		logins[user.Login] = user.ID
	}

	memberID, ok := logins["ada"]
	if !ok {
		return nil
	}

	var existingAddress Address
	if err := db.First(&existingAddress, "member_id = ?", memberID).Error; err == nil {
		log.Info("Seed address already exists", "addressID", existingAddress.ID)
		return nil
	}

	address := Address{
		MemberID:           memberID,
		Address:            "123 Main Street, Harlingen, Texas",
		OwnerName:          "Ada Lovelace",
		Status:             AddressStatusApproved,
		VerificationStatus: VerificationVerified,
		IsPrimary:          true,
		IsActive:           true,
	}
	if err := db.Create(&address).Error; err != nil {
		return log.Err("failed to create seed address", err)
	}
	log.Info("Seeded address", "addressID", address.ID)

	code := "246810"
	visitors := []Visitor{
		{
			AddressID: address.ID,
			FirstName: stringPtr("Charles"),
			LastName:  stringPtr("Babbage"),
			ExpiresAt: time.Now().AddDate(0, 1, 0),
			IsActive:  true,
		}, {
			AddressID:  address.ID,
			AccessCode: &code,
			ExpiresAt:  time.Now().Add(7 * 24 * time.Hour),
			IsActive:   true,
		},
	}

	for i := range visitors {
		if err := db.Create(&visitors[i]).Error; err != nil {
			log.Er("failed to create seed visitor", err)
			continue
		}
		log.Info("Seeded visitor", "visitorID", visitors[i].ID)
	}

	return nil
}
