package visitorController

import (
	"context"
	"time"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/repositories"
	"gatehouse/internal/services"
)

// AddressGetter is the slice of the address store ownership checks need.
type AddressGetter interface {
	GetByID(ctx context.Context, id string) (*Address, error)
}

type VisitorController struct {
	visitorRepo        repositories.VisitorRepository
	addressRepo        AddressGetter
	accessCodes        *services.AccessCodeService
	transactionService services.Transactor
	log                logger.Logger
}

func New(
	visitorRepo repositories.VisitorRepository,
	addressRepo AddressGetter,
	accessCodes *services.AccessCodeService,
	transactionService services.Transactor,
) *VisitorController {
	return &VisitorController{
		visitorRepo:        visitorRepo,
		addressRepo:        addressRepo,
		accessCodes:        accessCodes,
		transactionService: transactionService,
		log:                logger.New("VisitorController"),
	}
}

// Create registers an allowed visitor against an approved, active address
// the member owns. At least one identity channel is required: a name, a
// generated access code, or both.
func (vc *VisitorController) Create(ctx context.Context, memberID string, req CreateVisitorRequest) (*Visitor, error) {
	log := vc.log.Function("Create")

	address, err := vc.addressRepo.GetByID(ctx, req.AddressID)
	if err != nil {
		return nil, err
	}

	if address.MemberID != memberID {
		return nil, apperrors.Ownership("address %s does not belong to member %s", req.AddressID, memberID)
	}
	if !address.IsActive {
		return nil, apperrors.Conflict("address %s is deactivated", req.AddressID)
	}
	if address.Status != AddressStatusApproved {
		return nil, apperrors.Conflict("address %s is not approved", req.AddressID)
	}

	hasName := (req.FirstName != nil && *req.FirstName != "") ||
		(req.LastName != nil && *req.LastName != "")
	if !hasName && !req.GenerateCode {
		return nil, apperrors.Validation("visitor requires a name or an access code")
	}

	visitor := &Visitor{
		AddressID: req.AddressID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ExpiresAt: vc.accessCodes.ComputeExpiration(req.Expiration, req.CustomDate),
		IsActive:  true,
	}

	if req.GenerateCode {
		code := vc.accessCodes.GenerateCode()
		visitor.AccessCode = &code
	}

	if err := vc.visitorRepo.Create(ctx, visitor); err != nil {
		return nil, log.Err("failed to create visitor", err, "addressID", req.AddressID)
	}

	return visitor, nil
}

func (vc *VisitorController) Update(ctx context.Context, memberID, id string, patch UpdateVisitorRequest) (*Visitor, error) {
	log := vc.log.Function("Update")

	visitor, err := vc.visitorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := vc.assertOwned(ctx, memberID, visitor); err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		visitor.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		visitor.LastName = patch.LastName
	}
	if patch.Expiration != "" {
		visitor.ExpiresAt = vc.accessCodes.ComputeExpiration(patch.Expiration, patch.CustomDate)
	}
	if patch.IsActive != nil {
		visitor.IsActive = *patch.IsActive
	}

	if !visitor.HasName() && !visitor.HasCode() {
		return nil, apperrors.Validation("visitor must keep a name or an access code")
	}

	if err := vc.visitorRepo.Update(ctx, visitor); err != nil {
		return nil, log.Err("failed to update visitor", err, "id", id)
	}

	return visitor, nil
}

func (vc *VisitorController) GetForAddress(ctx context.Context, memberID, addressID string) ([]*Visitor, error) {
	address, err := vc.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.MemberID != memberID {
		return nil, apperrors.Ownership("address %s does not belong to member %s", addressID, memberID)
	}

	return vc.visitorRepo.GetByAddress(ctx, addressID)
}

// ApplyBulkAction applies extend/revoke/delete to a batch of visitors.
// Ownership over every id is verified as one set-membership query before
// anything mutates; a single unowned id rejects the whole batch. Mutations
// are set-oriented, never per-item loops, so partial outcomes come from one
// partition query plus one conditional statement.
func (vc *VisitorController) ApplyBulkAction(
	ctx context.Context,
	memberID string,
	action BulkAction,
	ids []string,
	expiresAt time.Time,
) (*BulkResult, error) {
	log := vc.log.Function("ApplyBulkAction")

	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, apperrors.Validation("no visitor ids supplied")
	}

	result := &BulkResult{}

	err := vc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		owned, err := vc.visitorRepo.OwnedIDs(txCtx, memberID, ids)
		if err != nil {
			return err
		}
		if len(owned) != len(ids) {
			return apperrors.Ownership("batch contains visitors not owned by member %s", memberID)
		}

		switch action {
		case BulkExtend:
			affected, err := vc.visitorRepo.BulkExtend(txCtx, ids, expiresAt)
			if err != nil {
				return err
			}
			result.Outcome = BulkOutcomeFull
			result.Applied = int(affected)

		case BulkRevoke:
			affected, err := vc.visitorRepo.BulkRevoke(txCtx, ids)
			if err != nil {
				return err
			}
			result.Outcome = BulkOutcomeFull
			result.Applied = int(affected)

		case BulkDelete:
			blocked, err := vc.visitorRepo.IDsWithCheckIns(txCtx, ids)
			if err != nil {
				return err
			}

			deletable := subtract(ids, blocked)
			result.BlockedIDs = blocked

			if len(deletable) == 0 {
				result.Outcome = BulkOutcomeConflict
				return nil
			}

			affected, err := vc.visitorRepo.HardDeleteBatch(txCtx, deletable)
			if err != nil {
				return err
			}
			result.DeletedIDs = deletable
			result.Applied = int(affected)

			if len(blocked) > 0 {
				result.Outcome = BulkOutcomePartial
			} else {
				result.Outcome = BulkOutcomeFull
			}

		default:
			return apperrors.Validation("unknown bulk action: %s", action)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("bulk action applied",
		"action", action, "requested", len(ids),
		"outcome", result.Outcome, "blocked", len(result.BlockedIDs))
	return result, nil
}

func (vc *VisitorController) assertOwned(ctx context.Context, memberID string, visitor *Visitor) error {
	address, err := vc.addressRepo.GetByID(ctx, visitor.AddressID)
	if err != nil {
		return err
	}
	if address.MemberID != memberID {
		return apperrors.Ownership("visitor %s does not belong to member %s", visitor.ID, memberID)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func subtract(ids, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := excluded[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
