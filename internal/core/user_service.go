package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	subRepo  db.SubscriptionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, subRepo db.SubscriptionRepository, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, subRepo: subRepo, logger: logger, now: time.Now}
}

// GetOrCreate retrieves a user by ID. If the user doesn't exist, it creates a new one on the
// free plan together with its Subscription.
func (s *userService) GetOrCreate(ctx context.Context, identity Identity) (*models.User, bool, error) {
	if identity.UserID == "" {
		return nil, false, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err == nil {
		if err := s.ensureSubscription(ctx, user.ID); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", identity.UserID, err)
	}

	now := s.now().UTC()
	newUser := &models.User{
		ID:           identity.UserID,
		Email:        identity.Email,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		DisplayName:  identity.DisplayName,
		PhotoURL:     identity.PhotoURL,
		Role:         models.RoleUser,
		Subscription: models.PlanFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			// Lost a race with a concurrent first request for the same identity.
			existing, getErr := s.userRepo.GetByID(ctx, identity.UserID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to reload user '%s' after duplicate create: %w", identity.UserID, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", identity.UserID, err)
	}
	if err := s.ensureSubscription(ctx, newUser.ID); err != nil {
		return nil, false, err
	}
	s.logger.Info("Created new user", zap.String("user_id", newUser.ID))
	return newUser, true, nil
}

// ensureSubscription creates the free Subscription of userID when it is missing.
func (s *userService) ensureSubscription(ctx context.Context, userID string) error {
	_, err := s.subRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("failed to get subscription for user '%s': %w", userID, err)
	}
	now := s.now().UTC()
	sub := &models.Subscription{
		UserID:    userID,
		Plan:      models.PlanFree,
		Status:    models.StatusActive,
		Features:  FeaturesForPlan(models.PlanFree),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.subRepo.Create(ctx, sub); err != nil && !errors.Is(err, db.ErrDuplicateKey) {
		return fmt.Errorf("failed to create subscription for user '%s': %w", userID, err)
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

func (s *userService) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &UserProfile{User: user}
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		profile.Subscription = sub
	case !errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("failed to get subscription for user '%s': %w", userID, err)
	}
	return profile, nil
}
