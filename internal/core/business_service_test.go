package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revuverse-backend-go/internal/models"
)

func TestBusinessCreate_FreeUserLimitedToOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")

	first, err := f.businesses.Create(ctx, owner, models.BusinessInput{Name: "  Cafe Uno ", Category: models.CategoryRestaurant})
	require.NoError(t, err)
	assert.Equal(t, "Cafe Uno", first.Name)
	assert.True(t, first.Active)
	assert.Equal(t, owner.UserID, first.UserID)

	_, err = f.businesses.Create(ctx, owner, models.BusinessInput{Name: "Cafe Dos", Category: models.CategoryRestaurant})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusinessLimitReached))
	assert.Equal(t, "Free tier users can only create one business. Please upgrade to premium.", err.Error())

	count, _ := memBusinesses{f.store}.CountByOwnerID(ctx, owner.UserID)
	assert.Equal(t, 1, count)
}

func TestBusinessCreate_PremiumUserHasNoCap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	owner.Plan = models.PlanPremium

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := f.businesses.Create(ctx, owner, models.BusinessInput{Name: name, Category: models.CategorySalon})
		require.NoError(t, err)
	}
	list, err := f.businesses.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestBusinessCreate_ValidationListsFields(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")

	_, err := f.businesses.Create(context.Background(), owner, models.BusinessInput{Name: "   ", Category: "spaceport"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.ElementsMatch(t, []string{"name", "category"}, ce.Fields)
}

func TestBusinessAccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	stranger := f.signUp("owner-2")
	admin := models.Caller{UserID: "root", Role: models.RoleAdmin, Plan: models.PlanFree}
	business := f.addBusiness(owner, "Cafe")

	t.Run("missing business is not found before ownership", func(t *testing.T) {
		_, err := f.businesses.Get(ctx, stranger, "does-not-exist")
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := f.businesses.Get(ctx, stranger, business.ID)
		assert.ErrorIs(t, err, ErrForbiddenAccess)
		assert.ErrorIs(t, f.businesses.Delete(ctx, stranger, business.ID), ErrForbiddenAccess)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		got, err := f.businesses.Get(ctx, admin, business.ID)
		require.NoError(t, err)
		assert.Equal(t, business.ID, got.ID)
	})
}

func TestBusinessUpdate_ReplacesDocumentKeepsOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	inactive := false

	updated, err := f.businesses.Update(ctx, owner, business.ID, models.BusinessInput{
		Name:        "Cafe Renamed",
		Category:    models.CategoryRetail,
		ContactInfo: models.ContactInfo{Website: "https://cafe.example"},
		Active:      &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, business.ID, updated.ID)
	assert.Equal(t, owner.UserID, updated.UserID)
	assert.Equal(t, "Cafe Renamed", updated.Name)
	assert.Equal(t, models.CategoryRetail, updated.Category)
	assert.False(t, updated.Active)

	_, err = f.businesses.Update(ctx, owner, business.ID, models.BusinessInput{Name: "x", Category: "nope"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBusinessDelete_DoesNotCascade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	_, err := f.requests.Create(ctx, owner, models.CreateReviewRequestRequest{
		BusinessID: business.ID, CustomerName: "Ann", CustomerEmail: "ann@example.com", RequestMethod: models.MethodEmail,
	})
	require.NoError(t, err)

	require.NoError(t, f.businesses.Delete(ctx, owner, business.ID))
	_, err = f.businesses.Get(ctx, owner, business.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
	assert.Len(t, f.store.requests, 1)

	actions := []string{}
	for _, entry := range f.store.audit {
		actions = append(actions, entry.Action)
	}
	assert.Contains(t, actions, models.ActionBusinessDelete)
}
