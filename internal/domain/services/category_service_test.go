package services

import (
	"context"
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryService() (*CategoryService, *fakeCategoryRepo, *recordingPublisher) {
	repo := newFakeCategoryRepo()
	publisher := &recordingPublisher{}
	return NewCategoryService(repo, &fakeTxManager{}, publisher, logger.NewNop()), repo, publisher
}

func TestCategoryService_CreateAndGet(t *testing.T) {
	svc, _, publisher := newCategoryService()
	ctx := context.Background()

	root, err := svc.Create(ctx, &models.Category{Name: "Deutsch", Active: true})
	require.NoError(t, err)

	child, err := svc.Create(ctx, &models.Category{Name: "Genusswelten", ParentID: root.ID, Active: true})
	require.NoError(t, err)

	got, err := svc.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Genusswelten", got.Name)

	parent := root.ID
	children, total, err := svc.List(ctx, &parent, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, child.ID, children[0].ID)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, eventmodels.CategoryCreated, publisher.events[0].Type)
}

func TestCategoryService_Validation(t *testing.T) {
	svc, _, _ := newCategoryService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Category{Name: "  "})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Create(ctx, &models.Category{Name: "Orphan", ParentID: 77})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Get(ctx, 12)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Update(ctx, 12, &models.Category{Name: "Missing"})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	err = svc.Delete(ctx, 0)
	assert.ErrorIs(t, err, utils.ErrInvalidCategoryID)
}

func TestCategoryService_UpdateAndDeletePublishNumbers(t *testing.T) {
	svc, repo, publisher := newCategoryService()
	ctx := context.Background()

	category, err := svc.Create(ctx, &models.Category{Name: "Shirts"})
	require.NoError(t, err)
	repo.numbers[category.ID] = []string{"SW-1", "SW-2"}

	_, err = svc.Update(ctx, category.ID, &models.Category{Name: "T-Shirts"})
	require.NoError(t, err)
	assert.Equal(t, eventmodels.CategoryUpdated, publisher.events[1].Type)
	assert.Equal(t, []string{"SW-1", "SW-2"}, publisher.events[1].Numbers)

	require.NoError(t, svc.Delete(ctx, category.ID))
	assert.Equal(t, eventmodels.CategoryDeleted, publisher.events[2].Type)
	assert.Equal(t, []string{"SW-1", "SW-2"}, publisher.events[2].Numbers)
}

func TestCategoryService_Batch(t *testing.T) {
	svc, _, _ := newCategoryService()
	ctx := context.Background()

	existing, err := svc.Create(ctx, &models.Category{Name: "Root"})
	require.NoError(t, err)

	results := svc.Batch(ctx, []*models.Category{
		{Name: "New"},
		{ID: existing.ID, Name: "Renamed"},
		{ID: 50, Name: "Missing"},
	})
	require.Len(t, results, 3)

	assert.Equal(t, OperationCreate, results[0].Operation)
	assert.True(t, results[0].Success)
	assert.Equal(t, OperationUpdate, results[1].Operation)
	assert.True(t, results[1].Success)
	assert.Equal(t, OperationUpdate, results[2].Operation)
	assert.False(t, results[2].Success)
}
