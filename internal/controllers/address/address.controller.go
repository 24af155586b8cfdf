package addressController

import (
	"context"
	"time"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/geocoder"
	"gatehouse/internal/logger"
	"gatehouse/internal/match"
	. "gatehouse/internal/models"
	"gatehouse/internal/repositories"
	"gatehouse/internal/services"
)

// VisitorCounter is the one slice of the visitor store deletion needs.
type VisitorCounter interface {
	CountByAddress(ctx context.Context, addressID string) (int64, error)
}

type AddressController struct {
	addressRepo        repositories.AddressRepository
	visitorRepo        VisitorCounter
	geocoder           geocoder.Client
	matcher            *match.Matcher
	transactionService services.Transactor
	now                func() time.Time
	log                logger.Logger
}

func New(
	addressRepo repositories.AddressRepository,
	visitorRepo VisitorCounter,
	geocoderClient geocoder.Client,
	transactionService services.Transactor,
) *AddressController {
	return &AddressController{
		addressRepo:        addressRepo,
		visitorRepo:        visitorRepo,
		geocoder:           geocoderClient,
		matcher:            match.NewMatcher(),
		transactionService: transactionService,
		now:                time.Now,
		log:                logger.New("AddressController"),
	}
}

// ValidateAddress checks free-text input against geocoder candidates. A
// geocoder outage degrades to "invalid" so member-facing address entry
// never hard-fails on upstream trouble; suggestion-selected input still
// passes through the matcher's bypass.
func (ac *AddressController) ValidateAddress(ctx context.Context, text string, fromSuggestion bool) bool {
	log := ac.log.Function("ValidateAddress")

	candidates, err := ac.geocoder.Search(ctx, text)
	if err != nil {
		log.Warn("geocoder lookup failed, degrading to no candidates", "error", err)
		candidates = nil
	}

	return ac.matcher.Validate(text, candidates, fromSuggestion)
}

// Suggestions returns ranked autocomplete entries. Geocoder failure means
// no suggestions, not an error.
func (ac *AddressController) Suggestions(ctx context.Context, text string) []AddressSuggestion {
	log := ac.log.Function("Suggestions")

	results, err := ac.geocoder.Search(ctx, text)
	if err != nil {
		log.Warn("geocoder lookup failed, returning no suggestions", "error", err)
		return []AddressSuggestion{}
	}

	return ac.matcher.RankSuggestions(results)
}

func (ac *AddressController) Create(ctx context.Context, memberID string, req CreateAddressRequest) (*Address, error) {
	log := ac.log.Function("Create")

	if req.Address == "" || req.OwnerName == "" {
		return nil, apperrors.Validation("address and owner name are required")
	}

	if !ac.ValidateAddress(ctx, req.Address, req.FromSuggestion) {
		return nil, apperrors.Validation("address could not be validated: %s", req.Address)
	}

	address := &Address{
		MemberID:           memberID,
		Address:            req.Address,
		ApartmentNumber:    req.ApartmentNumber,
		OwnerName:          req.OwnerName,
		Status:             AddressStatusPending,
		VerificationStatus: VerificationUnverified,
		IsActive:           true,
	}

	err := ac.transactionService.Execute(ctx, func(txCtx context.Context) error {
		activeCount, err := ac.addressRepo.CountActiveByMember(txCtx, memberID)
		if err != nil {
			return err
		}

		if activeCount == 0 || req.IsPrimary {
			if err := ac.addressRepo.DemotePrimary(txCtx, memberID); err != nil {
				return err
			}
			address.IsPrimary = true
		}

		return ac.addressRepo.Create(txCtx, address)
	})
	if err != nil {
		return nil, log.Err("failed to create address", err, "memberID", memberID)
	}

	return address, nil
}

// DecideStatusTransition applies the re-approval rule: a change to the
// address text or owner name forces PENDING no matter what status the
// patch asks for. Apartment-only edits never touch status.
func DecideStatusTransition(current *Address, patch UpdateAddressRequest) AddressStatus {
	if patch.Address != nil && *patch.Address != current.Address {
		return AddressStatusPending
	}
	if patch.OwnerName != nil && *patch.OwnerName != current.OwnerName {
		return AddressStatusPending
	}
	return current.Status
}

func (ac *AddressController) Update(ctx context.Context, memberID, id string, patch UpdateAddressRequest) (*Address, error) {
	log := ac.log.Function("Update")

	address, err := ac.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if address.MemberID != memberID {
		return nil, apperrors.Ownership("address %s does not belong to member %s", id, memberID)
	}

	if patch.Address != nil && *patch.Address != address.Address {
		if !ac.ValidateAddress(ctx, *patch.Address, patch.FromSuggestion) {
			return nil, apperrors.Validation("address could not be validated: %s", *patch.Address)
		}
	}

	address.Status = DecideStatusTransition(address, patch)

	if patch.Address != nil {
		address.Address = *patch.Address
	}
	if patch.OwnerName != nil {
		address.OwnerName = *patch.OwnerName
	}
	if patch.ApartmentNumber != nil {
		address.ApartmentNumber = patch.ApartmentNumber
	}

	err = ac.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if patch.IsPrimary != nil && *patch.IsPrimary && !address.IsPrimary {
			if err := ac.addressRepo.DemotePrimary(txCtx, memberID); err != nil {
				return err
			}
			address.IsPrimary = true
		}

		return ac.addressRepo.Update(txCtx, address)
	})
	if err != nil {
		return nil, log.Err("failed to update address", err, "id", id)
	}

	return address, nil
}

// SetStatus is the admin approve/reject action. Notes land in
// DecisionNotes; the verification track and its notes are never touched.
func (ac *AddressController) SetStatus(ctx context.Context, adminID, id string, status AddressStatus, notes *string) (*Address, error) {
	log := ac.log.Function("SetStatus")

	if status != AddressStatusApproved && status != AddressStatusRejected {
		return nil, apperrors.Validation("status must be APPROVED or REJECTED, got %s", status)
	}

	address, err := ac.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	address.Status = status
	if notes != nil {
		address.DecisionNotes = notes
	}

	if err := ac.addressRepo.Update(ctx, address); err != nil {
		return nil, log.Err("failed to set address status", err, "id", id, "status", status)
	}

	log.Info("address status set", "id", id, "status", status, "adminID", adminID)
	return address, nil
}

// Reverify re-runs geocoder validation for an admin. Unlike the member
// flow, an upstream failure is surfaced explicitly as NEEDS_REVIEW.
func (ac *AddressController) Reverify(ctx context.Context, adminID, id string) (*Address, error) {
	log := ac.log.Function("Reverify")

	address, err := ac.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := ac.now()
	address.VerifiedAt = &now
	address.VerifiedBy = &adminID

	candidates, searchErr := ac.geocoder.Search(ctx, address.Address)
	switch {
	case searchErr != nil:
		log.Warn("geocoder unavailable during reverification", "id", id, "error", searchErr)
		address.VerificationStatus = VerificationNeedsReview
		note := "geocoder unavailable during verification"
		address.VerificationNotes = &note
	case ac.matcher.Validate(address.Address, candidates, false):
		address.VerificationStatus = VerificationVerified
	default:
		address.VerificationStatus = VerificationInvalid
	}

	if err := ac.addressRepo.Update(ctx, address); err != nil {
		return nil, log.Err("failed to store verification result", err, "id", id)
	}

	return address, nil
}

// Delete resolves the deletion mode for an address: hard delete when no
// visitors reference it, soft delete otherwise, and never delete the sole
// remaining active address. A deleted primary promotes the member's newest
// remaining active address.
func (ac *AddressController) Delete(ctx context.Context, memberID, id string) (*DeletionResult, error) {
	log := ac.log.Function("Delete")

	result := &DeletionResult{}

	err := ac.transactionService.Execute(ctx, func(txCtx context.Context) error {
		address, err := ac.addressRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if address.MemberID != memberID {
			return apperrors.Ownership("address %s does not belong to member %s", id, memberID)
		}

		if address.IsActive {
			activeCount, err := ac.addressRepo.CountActiveByMember(txCtx, memberID)
			if err != nil {
				return err
			}
			if activeCount <= 1 {
				return apperrors.Conflict("cannot delete the only active address")
			}
		}

		visitorCount, err := ac.visitorRepo.CountByAddress(txCtx, id)
		if err != nil {
			return err
		}

		if visitorCount > 0 {
			if err := ac.addressRepo.SoftDelete(txCtx, id); err != nil {
				return err
			}
			result.Mode = DeletionSoft
		} else {
			if err := ac.addressRepo.HardDelete(txCtx, id); err != nil {
				return err
			}
			result.Mode = DeletionHard
		}

		if address.IsPrimary {
			replacement, err := ac.addressRepo.NewestActiveExcept(txCtx, memberID, id)
			if err != nil {
				return err
			}
			replacement.IsPrimary = true
			if err := ac.addressRepo.Update(txCtx, replacement); err != nil {
				return err
			}
			result.PromotedID = replacement.ID
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("address deleted", "id", id, "mode", result.Mode, "promotedID", result.PromotedID)
	return result, nil
}

func (ac *AddressController) GetForMember(ctx context.Context, memberID string) ([]*Address, error) {
	return ac.addressRepo.GetByMember(ctx, memberID)
}

func (ac *AddressController) GetPending(ctx context.Context) ([]*Address, error) {
	return ac.addressRepo.GetByStatus(ctx, AddressStatusPending)
}
