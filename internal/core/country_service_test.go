package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

func newCountryFixture(t *testing.T) (CountryService, *fakeCountryRepo, *fakeCategoryRepo) {
	t.Helper()
	countryRepo := newFakeCountryRepo()
	categoryRepo := newFakeCategoryRepo()
	svc := NewCountryService(countryRepo, categoryRepo, NewAuditService(&fakeAuditRepo{}))
	return svc, countryRepo, categoryRepo
}

func TestCountryCreateNormalizesISOCode(t *testing.T) {
	svc, _, _ := newCountryFixture(t)
	ctx := context.Background()

	country, err := svc.Create(ctx, "admin-1", models.CreateCountryRequest{Name: "France", ISOCode: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "FR", country.ISOCode)

	country, err = svc.Create(ctx, "admin-1", models.CreateCountryRequest{Name: "Brazil", ISOCode: " br "})
	require.NoError(t, err)
	assert.Equal(t, "BR", country.ISOCode, "surrounding whitespace is trimmed before validation")
}

func TestCountryCreateRejectsBadISOCode(t *testing.T) {
	svc, countryRepo, _ := newCountryFixture(t)
	ctx := context.Background()

	// "é" is one character in two bytes; the length check counts characters.
	for _, code := range []string{"", "F", "FRA", "  ", "é", "ñññ"} {
		_, err := svc.Create(ctx, "admin-1", models.CreateCountryRequest{Name: "Bad", ISOCode: code})
		assert.ErrorIs(t, err, ErrValidation, "isoCode %q must be rejected", code)
	}

	countries, err := countryRepo.List(ctx, db.ListAll)
	require.NoError(t, err)
	assert.Empty(t, countries, "nothing is written when validation fails")
}

func TestCountryUpdateValidatesISOBeforeWrite(t *testing.T) {
	svc, _, _ := newCountryFixture(t)
	ctx := context.Background()

	country, err := svc.Create(ctx, "admin-1", models.CreateCountryRequest{Name: "Japan", ISOCode: "JP"})
	require.NoError(t, err)

	newName := "Nippon"
	badCode := "JPN"
	_, err = svc.Update(ctx, "admin-1", country.ID, models.UpdateCountryRequest{Name: &newName, ISOCode: &badCode})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetByID(ctx, country.ID)
	require.NoError(t, err)
	assert.Equal(t, "Japan", got.Name, "a rejected update leaves the document untouched")
	assert.Equal(t, "JP", got.ISOCode)
}

func TestCountryCategoryMembership(t *testing.T) {
	svc, _, categoryRepo := newCountryFixture(t)
	ctx := context.Background()

	category := &models.Category{Name: "Portraits"}
	_, err := categoryRepo.Create(ctx, category)
	require.NoError(t, err)

	country, err := svc.Create(ctx, "admin-1", models.CreateCountryRequest{Name: "Spain", ISOCode: "ES"})
	require.NoError(t, err)

	country, err = svc.AddCategory(ctx, "admin-1", country.ID, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{category.ID}, country.Categories)

	// Adding again is a no-op, not a duplicate.
	country, err = svc.AddCategory(ctx, "admin-1", country.ID, category.ID)
	require.NoError(t, err)
	assert.Len(t, country.Categories, 1)

	// Unknown category is rejected.
	_, err = svc.AddCategory(ctx, "admin-1", country.ID, "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	// Trashed category is rejected.
	category.IsDeleted = true
	require.NoError(t, categoryRepo.Update(ctx, category))
	_, err = svc.AddCategory(ctx, "admin-1", country.ID, category.ID)
	assert.ErrorIs(t, err, ErrValidation)

	country, err = svc.RemoveCategory(ctx, "admin-1", country.ID, category.ID)
	require.NoError(t, err)
	assert.Empty(t, country.Categories)

	// Removing an id that is not present is a no-op.
	_, err = svc.RemoveCategory(ctx, "admin-1", country.ID, "missing")
	require.NoError(t, err)
}

func TestCountryLifecycle(t *testing.T) {
	svc, _, _ := newCountryFixture(t)
	ctx := context.Background()

	country, err := svc.Create(ctx, "admin-1", models.CreateCountryRequest{Name: "Kenya", ISOCode: "KE"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Restore(ctx, "admin-1", country.ID), ErrNotTrashed)
	assert.ErrorIs(t, svc.PermanentDelete(ctx, "admin-1", country.ID), ErrNotTrashed)

	require.NoError(t, svc.SoftDelete(ctx, "admin-1", country.ID))
	assert.ErrorIs(t, svc.SoftDelete(ctx, "admin-1", country.ID), ErrAlreadyTrashed)

	require.NoError(t, svc.Restore(ctx, "admin-1", country.ID))
	got, err := svc.GetByID(ctx, country.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)

	require.NoError(t, svc.SoftDelete(ctx, "admin-1", country.ID))
	require.NoError(t, svc.PermanentDelete(ctx, "admin-1", country.ID))
	_, err = svc.GetByID(ctx, country.ID)
	assert.ErrorIs(t, err, ErrCountryNotFound)
}
