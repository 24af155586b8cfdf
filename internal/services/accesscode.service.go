package services

import (
	"fmt"
	"math/rand"
	"time"

	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/utils"
)

// AccessCodeService mints visitor access codes and computes expiration
// timestamps. Codes are 6-digit and NOT guaranteed unique; verification
// matches on (code, address) so same-code collisions between unrelated
// addresses are harmless.
type AccessCodeService struct {
	now     func() time.Time
	randInt func(n int) int
	log     logger.Logger
}

func NewAccessCodeService() *AccessCodeService {
	return &AccessCodeService{
		now:     time.Now,
		randInt: rand.Intn,
		log:     logger.New("AccessCodeService"),
	}
}

// GenerateCode returns a numeric code uniformly drawn from
// [100000, 999999].
func (s *AccessCodeService) GenerateCode() string {
	return fmt.Sprintf("%d", 100000+s.randInt(900000))
}

// ComputeExpiration resolves an expiration option to an absolute timestamp.
// Unknown options and unparseable custom dates fall back to 24 hours out.
func (s *AccessCodeService) ComputeExpiration(option ExpirationOption, customDate string) time.Time {
	now := s.now()

	switch option {
	case Expire24Hours:
		return now.Add(24 * time.Hour)
	case ExpireOneWeek:
		return now.Add(7 * 24 * time.Hour)
	case ExpireOneMonth:
		return now.AddDate(0, 1, 0)
	case ExpireCustom:
		if parsed, ok := utils.ParseFlexibleDate(customDate); ok {
			return parsed
		}
		s.log.Function("ComputeExpiration").
			Warn("unparseable custom date, defaulting to 24h", "customDate", customDate)
		return now.Add(24 * time.Hour)
	default:
		return now.Add(24 * time.Hour)
	}
}
