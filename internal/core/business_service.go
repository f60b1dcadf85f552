package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/pkg/cache"
)

// businessService implements the BusinessService interface.
type businessService struct {
	businessRepo db.BusinessRepository
	auditService AuditService
	locker       cache.Locker
	lockTTL      time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewBusinessService creates a new BusinessService instance. locker may be nil, in which
// case the free-tier cap is a plain check-then-insert.
func NewBusinessService(
	br db.BusinessRepository,
	as AuditService,
	locker cache.Locker,
	lockTTL time.Duration,
	logger *zap.Logger,
) BusinessService {
	return &businessService{
		businessRepo: br,
		auditService: as,
		locker:       locker,
		lockTTL:      lockTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// checkBusinessLimit rejects a second business for free plan callers.
func (s *businessService) checkBusinessLimit(ctx context.Context, caller models.Caller) error {
	if caller.Plan != models.PlanFree {
		return nil
	}
	count, err := s.businessRepo.CountByOwnerID(ctx, caller.UserID)
	if err != nil {
		return fmt.Errorf("failed to count businesses for user '%s': %w", caller.UserID, err)
	}
	if count >= 1 {
		return ErrBusinessLimitReached
	}
	return nil
}

func normalizeBusinessInput(input *models.BusinessInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	return validateStruct(input)
}

// Create persists a new business for the caller, enforcing the free-tier cap.
func (s *businessService) Create(ctx context.Context, caller models.Caller, input models.BusinessInput) (*models.Business, error) {
	if err := normalizeBusinessInput(&input); err != nil {
		return nil, err
	}

	if caller.Plan == models.PlanFree && s.locker != nil {
		release, err := s.locker.Acquire(ctx, "business-cap:"+caller.UserID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock business cap for user '%s': %w", caller.UserID, err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release business cap lock", zap.Error(err))
			}
		}()
	}

	if err := s.checkBusinessLimit(ctx, caller); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	business := &models.Business{
		UserID:         caller.UserID,
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
		Address:        input.Address,
		ContactInfo:    input.ContactInfo,
		SocialProfiles: input.SocialProfiles,
		Logo:           input.Logo,
		CoverImage:     input.CoverImage,
		Active:         input.Active == nil || *input.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	businessID, err := s.businessRepo.Create(ctx, business)
	if err != nil {
		return nil, fmt.Errorf("failed to create business in repository: %w", err)
	}
	business.ID = businessID

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     caller.UserID,
		Action:     models.ActionBusinessCreate,
		TargetType: "BUSINESS",
		TargetID:   business.ID,
		Timestamp:  now,
		Details:    map[string]interface{}{"name": business.Name, "category": business.Category},
	})
	return business, nil
}

// List returns the caller's businesses, newest first.
func (s *businessService) List(ctx context.Context, caller models.Caller) ([]*models.Business, error) {
	businesses, err := s.businessRepo.GetByOwnerID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses for user '%s': %w", caller.UserID, err)
	}
	return businesses, nil
}

// Get returns the business if the caller owns it or is an admin. Existence is checked first.
func (s *businessService) Get(ctx context.Context, caller models.Caller, businessID string) (*models.Business, error) {
	return loadOwnedBusiness(ctx, s.businessRepo, caller, businessID)
}

// Update replaces every editable field of the business. Owner and id never change.
func (s *businessService) Update(ctx context.Context, caller models.Caller, businessID string, input models.BusinessInput) (*models.Business, error) {
	business, err := loadOwnedBusiness(ctx, s.businessRepo, caller, businessID)
	if err != nil {
		return nil, err
	}
	if err := normalizeBusinessInput(&input); err != nil {
		return nil, err
	}

	business.Name = input.Name
	business.Description = input.Description
	business.Category = input.Category
	business.Address = input.Address
	business.ContactInfo = input.ContactInfo
	business.SocialProfiles = input.SocialProfiles
	business.Logo = input.Logo
	business.CoverImage = input.CoverImage
	if input.Active != nil {
		business.Active = *input.Active
	}
	business.UpdatedAt = s.now().UTC()

	if err := s.businessRepo.Update(ctx, business); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to update business '%s': %w", businessID, err)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     caller.UserID,
		Action:     models.ActionBusinessUpdate,
		TargetType: "BUSINESS",
		TargetID:   business.ID,
		Timestamp:  business.UpdatedAt,
	})
	return business, nil
}

// Delete hard-deletes the business. Its review requests and feedback are left in place.
func (s *businessService) Delete(ctx context.Context, caller models.Caller, businessID string) error {
	if _, err := loadOwnedBusiness(ctx, s.businessRepo, caller, businessID); err != nil {
		return err
	}
	if err := s.businessRepo.Delete(ctx, businessID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("failed to delete business '%s': %w", businessID, err)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     caller.UserID,
		Action:     models.ActionBusinessDelete,
		TargetType: "BUSINESS",
		TargetID:   businessID,
		Timestamp:  s.now().UTC(),
	})
	return nil
}

// loadBusiness maps a missing business to ErrBusinessNotFound.
func loadBusiness(ctx context.Context, repo db.BusinessRepository, businessID string) (*models.Business, error) {
	if businessID == "" {
		return nil, ErrBusinessNotFound
	}
	business, err := repo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business '%s': %w", businessID, err)
	}
	return business, nil
}

// loadOwnedBusiness loads the business and then checks the caller may act on it.
func loadOwnedBusiness(ctx context.Context, repo db.BusinessRepository, caller models.Caller, businessID string) (*models.Business, error) {
	business, err := loadBusiness(ctx, repo, businessID)
	if err != nil {
		return nil, err
	}
	if !business.OwnedBy(caller) {
		return nil, ErrForbiddenAccess
	}
	return business, nil
}
