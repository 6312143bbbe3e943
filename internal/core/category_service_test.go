package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

func newCategoryFixture(t *testing.T) (CategoryService, *fakeCategoryRepo, *fakePromptRepo, *fakeCountryRepo, *fakeAuditRepo) {
	t.Helper()
	categoryRepo := newFakeCategoryRepo()
	promptRepo := newFakePromptRepo()
	countryRepo := newFakeCountryRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewCategoryService(categoryRepo, promptRepo, countryRepo, NewAuditService(auditRepo))
	return svc, categoryRepo, promptRepo, countryRepo, auditRepo
}

func seedCategoryWithSubs(t *testing.T, svc CategoryService, name string, subs ...string) *models.Category {
	t.Helper()
	ctx := context.Background()
	category, err := svc.Create(ctx, "admin-1", models.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	for i, subName := range subs {
		category, err = svc.AddSubcategory(ctx, "admin-1", category.ID, models.CreateSubcategoryRequest{Name: subName, Order: i})
		require.NoError(t, err)
	}
	return category
}

func TestCategorySoftDeleteCascadesToSubcategories(t *testing.T) {
	svc, _, _, _, auditRepo := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Portraits", "Vintage", "Studio")

	require.NoError(t, svc.SoftDelete(ctx, "admin-1", category.ID, "Portraits"))

	got, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, "admin-1", got.DeletedBy)
	require.NotNil(t, got.DeletedAt)
	for _, sub := range got.Subcategories {
		assert.True(t, sub.IsDeleted, "subcategory %s should be trashed with parent", sub.Name)
		assert.Equal(t, "admin-1", sub.DeletedBy)
		require.NotNil(t, sub.DeletedAt)
	}
	assert.Contains(t, auditRepo.actions(), "CATEGORY_DELETE")
}

func TestCategorySoftDeletePreservesAlreadyTrashedSubAudit(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Travel", "Beach")
	subID := category.Subcategories[0].ID

	// Trash the subcategory first so it carries its own delete audit fields.
	require.NoError(t, svc.SoftDeleteSubcategory(ctx, "other-admin", category.ID, subID))
	earlier, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	firstDeletedAt := earlier.Subcategories[0].DeletedAt
	require.NotNil(t, firstDeletedAt)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, svc.SoftDelete(ctx, "admin-1", category.ID, "Travel"))

	got, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	sub := got.Subcategories[0]
	assert.Equal(t, "other-admin", sub.DeletedBy, "cascade must not overwrite an existing trash record")
	assert.Equal(t, firstDeletedAt.Unix(), sub.DeletedAt.Unix())
}

func TestCategorySoftDeleteConfirmGate(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Portraits")

	tests := []struct {
		name    string
		confirm string
	}{
		{"wrong name", "Portrait"},
		{"case mismatch", "portraits"},
		{"trailing space", "Portraits "},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SoftDelete(ctx, "admin-1", category.ID, tt.confirm)
			assert.ErrorIs(t, err, ErrConfirmationMismatch)
		})
	}

	// Nothing was trashed by the failed attempts.
	got, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestCategoryRestoreDoesNotCascade(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Anime", "Chibi")
	require.NoError(t, svc.SoftDelete(ctx, "admin-1", category.ID, "Anime"))
	require.NoError(t, svc.Restore(ctx, "admin-1", category.ID))

	got, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
	assert.Empty(t, got.DeletedBy)
	assert.Nil(t, got.DeletedAt)
	assert.True(t, got.Subcategories[0].IsDeleted, "subcategories stay trashed after parent restore")
}

func TestCategoryLifecycleGuards(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Nature")

	// Not trashed yet: restore and permanent delete are rejected.
	assert.ErrorIs(t, svc.Restore(ctx, "admin-1", category.ID), ErrNotTrashed)
	assert.ErrorIs(t, svc.PermanentDelete(ctx, "admin-1", category.ID, "Nature"), ErrNotTrashed)

	require.NoError(t, svc.SoftDelete(ctx, "admin-1", category.ID, "Nature"))
	assert.ErrorIs(t, svc.SoftDelete(ctx, "admin-1", category.ID, "Nature"), ErrAlreadyTrashed)

	// Permanent delete still requires the confirm gate.
	assert.ErrorIs(t, svc.PermanentDelete(ctx, "admin-1", category.ID, "nature"), ErrConfirmationMismatch)
	require.NoError(t, svc.PermanentDelete(ctx, "admin-1", category.ID, "Nature"))

	_, err := svc.GetByID(ctx, category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryUsageCountsPromptsAndCountries(t *testing.T) {
	svc, _, promptRepo, countryRepo, _ := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Pets")

	promptRepo.Create(ctx, &models.Prompt{Title: "Dog", CategoryID: category.ID})
	promptRepo.Create(ctx, &models.Prompt{Title: "Cat", CategoryID: category.ID})
	promptRepo.Create(ctx, &models.Prompt{Title: "Trashed", CategoryID: category.ID, IsDeleted: true})
	promptRepo.Create(ctx, &models.Prompt{Title: "Other", CategoryID: "cat-other"})

	countryRepo.Create(ctx, &models.Country{Name: "France", ISOCode: "FR", Categories: []string{category.ID}})
	countryRepo.Create(ctx, &models.Country{Name: "Brazil", ISOCode: "BR", Categories: []string{"cat-other"}})

	usage, err := svc.Usage(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, usage.PromptCount, "trashed prompts do not count as usage")
	assert.Equal(t, []string{"France"}, usage.Countries)
}

func TestSubcategoryLifecycle(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	category := seedCategoryWithSubs(t, svc, "Food", "Desserts")
	subID := category.Subcategories[0].ID

	// Remove requires the subcategory to be trashed first.
	assert.ErrorIs(t, svc.RemoveSubcategory(ctx, "admin-1", category.ID, subID), ErrNotTrashed)

	require.NoError(t, svc.SoftDeleteSubcategory(ctx, "admin-1", category.ID, subID))
	assert.ErrorIs(t, svc.SoftDeleteSubcategory(ctx, "admin-1", category.ID, subID), ErrAlreadyTrashed)

	require.NoError(t, svc.RestoreSubcategory(ctx, "admin-1", category.ID, subID))
	got, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.False(t, got.Subcategories[0].IsDeleted)
	assert.Empty(t, got.Subcategories[0].DeletedBy)

	require.NoError(t, svc.SoftDeleteSubcategory(ctx, "admin-1", category.ID, subID))
	require.NoError(t, svc.RemoveSubcategory(ctx, "admin-1", category.ID, subID))

	got, err = svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Subcategories)
}

func TestOrphanedSubcategories(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	// Case 1: active parent with one trashed subcategory.
	active := seedCategoryWithSubs(t, svc, "Active", "Kept", "Dropped")
	require.NoError(t, svc.SoftDeleteSubcategory(ctx, "admin-1", active.ID, active.Subcategories[1].ID))

	// Case 2: trashed parent with one individually restored subcategory.
	trashed := seedCategoryWithSubs(t, svc, "Trashed", "Survivor")
	require.NoError(t, svc.SoftDelete(ctx, "admin-1", trashed.ID, "Trashed"))
	require.NoError(t, svc.RestoreSubcategory(ctx, "admin-1", trashed.ID, trashed.Subcategories[0].ID))

	orphans, err := svc.OrphanedSubcategories(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 2)

	byName := map[string]models.OrphanedSubcategory{}
	for _, o := range orphans {
		byName[o.Subcategory.Name] = o
	}
	dropped, ok := byName["Dropped"]
	require.True(t, ok)
	assert.Equal(t, active.ID, dropped.CategoryID)
	assert.False(t, dropped.CategoryDeleted)

	survivor, ok := byName["Survivor"]
	require.True(t, ok)
	assert.Equal(t, trashed.ID, survivor.CategoryID)
	assert.True(t, survivor.CategoryDeleted)
}

func TestCategoryListFilters(t *testing.T) {
	svc, _, _, _, _ := newCategoryFixture(t)
	ctx := context.Background()

	kept := seedCategoryWithSubs(t, svc, "Kept")
	gone := seedCategoryWithSubs(t, svc, "Gone")
	require.NoError(t, svc.SoftDelete(ctx, "admin-1", gone.ID, "Gone"))

	activeList, err := svc.List(ctx, db.ListActive)
	require.NoError(t, err)
	require.Len(t, activeList, 1)
	assert.Equal(t, kept.ID, activeList[0].ID)

	trashedList, err := svc.List(ctx, db.ListTrashed)
	require.NoError(t, err)
	require.Len(t, trashedList, 1)
	assert.Equal(t, gone.ID, trashedList[0].ID)

	allList, err := svc.List(ctx, db.ListAll)
	require.NoError(t, err)
	assert.Len(t, allList, 2)
}
