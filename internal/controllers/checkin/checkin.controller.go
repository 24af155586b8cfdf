package checkinController

import (
	"context"
	"errors"
	"strings"
	"time"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/repositories"
	"gatehouse/internal/services"
)

// VisitorVerifier is the slice of the visitor store gate verification
// needs.
type VisitorVerifier interface {
	FindActiveByCode(ctx context.Context, code, addressID string, now time.Time) (*Visitor, error)
	FindActiveByName(ctx context.Context, firstName, lastName, addressID string, now time.Time) (*Visitor, error)
	TouchLastUsed(ctx context.Context, id string, now time.Time) error
}

type AddressGetter interface {
	GetByID(ctx context.Context, id string) (*Address, error)
}

type CheckInController struct {
	visitorRepo VisitorVerifier
	addressRepo AddressGetter
	checkInRepo repositories.CheckInRepository
	now         func() time.Time
	log         logger.Logger
}

func New(
	visitorRepo VisitorVerifier,
	addressRepo AddressGetter,
	checkInRepo repositories.CheckInRepository,
) *CheckInController {
	return &CheckInController{
		visitorRepo: visitorRepo,
		addressRepo: addressRepo,
		checkInRepo: checkInRepo,
		now:         time.Now,
		log:         logger.New("CheckInController"),
	}
}

// VerifyCode resolves an access code at one address. Success updates
// last_used to the verification time, last-write-wins, so repeat
// verifications before expiry never error.
func (cc *CheckInController) VerifyCode(ctx context.Context, code, addressID string) (*Visitor, error) {
	log := cc.log.Function("VerifyCode")

	now := cc.now()
	visitor, err := cc.visitorRepo.FindActiveByCode(ctx, code, addressID, now)
	if err != nil {
		return nil, err
	}

	if err := cc.visitorRepo.TouchLastUsed(ctx, visitor.ID, now); err != nil {
		log.Warn("failed to update last_used", "visitorID", visitor.ID, "error", err)
	}
	visitor.LastUsed = &now

	return visitor, nil
}

// CheckInByCode verifies the code and appends an audit record. An invalid
// code produces no record.
func (cc *CheckInController) CheckInByCode(ctx context.Context, guardID string, req CodeCheckInRequest) (*CheckIn, error) {
	log := cc.log.Function("CheckInByCode")

	if req.AccessCode == "" || req.AddressID == "" {
		return nil, apperrors.Validation("access code and address id are required")
	}

	visitor, err := cc.VerifyCode(ctx, req.AccessCode, req.AddressID)
	if err != nil {
		return nil, err
	}

	checkIn := &CheckIn{
		VisitorID:   &visitor.ID,
		AddressID:   &req.AddressID,
		GuardID:     guardID,
		CheckedInAt: cc.now(),
		EntryMethod: EntryAccessCode,
		Notes:       req.Notes,
	}

	if err := cc.checkInRepo.Create(ctx, checkIn); err != nil {
		return nil, log.Err("failed to record check-in", err, "visitorID", visitor.ID)
	}

	return checkIn, nil
}

// CheckInByName records a name-verified entry. Lookup tries the name as
// given, then with first/last swapped; a visitor the system has never seen
// still gets an audit row with snapshot text and no visitor reference.
func (cc *CheckInController) CheckInByName(ctx context.Context, guardID string, req NameCheckInRequest) (*CheckIn, error) {
	log := cc.log.Function("CheckInByName")

	if req.FirstName == "" && req.LastName == "" {
		return nil, apperrors.Validation("a visitor name is required")
	}
	if req.AddressID == "" && req.AddressText == "" {
		return nil, apperrors.Validation("an address is required")
	}

	now := cc.now()
	checkIn := &CheckIn{
		GuardID:     guardID,
		CheckedInAt: now,
		EntryMethod: EntryNameVerification,
		Notes:       req.Notes,
	}

	if req.AddressID != "" {
		if _, err := cc.addressRepo.GetByID(ctx, req.AddressID); err != nil {
			return nil, err
		}
		checkIn.AddressID = &req.AddressID

		visitor, err := services.TryInOrder(ctx, log,
			services.Strategy[*Visitor]{
				Name: "exact name",
				Run: func(ctx context.Context) (*Visitor, error) {
					return cc.visitorRepo.FindActiveByName(ctx, req.FirstName, req.LastName, req.AddressID, now)
				},
			},
			services.Strategy[*Visitor]{
				Name: "swapped name",
				Run: func(ctx context.Context) (*Visitor, error) {
					return cc.visitorRepo.FindActiveByName(ctx, req.LastName, req.FirstName, req.AddressID, now)
				},
			},
		)
		switch {
		case err == nil:
			checkIn.VisitorID = &visitor.ID
			if touchErr := cc.visitorRepo.TouchLastUsed(ctx, visitor.ID, now); touchErr != nil {
				log.Warn("failed to update last_used", "visitorID", visitor.ID, "error", touchErr)
			}
		case errors.Is(err, apperrors.ErrNotFound):
			// unregistered visitor, recorded with a name snapshot only
		default:
			return nil, err
		}
	}

	if checkIn.VisitorID == nil {
		name := strings.TrimSpace(req.FirstName + " " + req.LastName)
		checkIn.VisitorName = &name
	}
	if checkIn.AddressID == nil {
		checkIn.AddressText = &req.AddressText
	}

	if err := cc.checkInRepo.Create(ctx, checkIn); err != nil {
		return nil, log.Err("failed to record check-in", err, "guardID", guardID)
	}

	return checkIn, nil
}

func (cc *CheckInController) History(ctx context.Context, filter CheckInFilter) ([]*CheckIn, error) {
	return cc.checkInRepo.List(ctx, filter)
}
