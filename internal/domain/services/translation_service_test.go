package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/translation"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranslationRepo struct {
	saved      map[translation.Key]*translation.Translation
	numbers    map[int][]string
	numbersErr error
}

func (r *fakeTranslationRepo) GetTranslation(_ context.Context, objectType string, id, shopID int) (*translation.Translation, error) {
	t, ok := r.saved[translation.Key{Type: objectType, ID: id}]
	if !ok || t.ShopID != shopID {
		return nil, fmt.Errorf("translation: %w", utils.ErrNotFound)
	}
	return t, nil
}

func (r *fakeTranslationRepo) SaveTranslation(_ context.Context, t *translation.Translation) error {
	r.saved[translation.Key{Type: t.Type, ID: t.ID}] = t
	return nil
}

func (r *fakeTranslationRepo) DeleteTranslation(_ context.Context, objectType string, id, _ int) error {
	key := translation.Key{Type: objectType, ID: id}
	if _, ok := r.saved[key]; !ok {
		return fmt.Errorf("translation: %w", utils.ErrNotFound)
	}
	delete(r.saved, key)
	return nil
}

func (r *fakeTranslationRepo) ArticleNumbers(_ context.Context, id int) ([]string, error) {
	return r.numbers[id], r.numbersErr
}

func newTranslationService() (*TranslationService, *fakeTranslationRepo, *recordingPublisher) {
	repo := &fakeTranslationRepo{
		saved:   map[translation.Key]*translation.Translation{},
		numbers: map[int][]string{7: {"SW10007", "SW10007.1"}},
	}
	publisher := &recordingPublisher{}
	return NewTranslationService(repo, publisher, logger.NewNop()), repo, publisher
}

func TestTranslationService_ArticleEvictsItsVariants(t *testing.T) {
	svc, _, publisher := newTranslationService()
	ctx := context.Background()

	err := svc.Save(ctx, &translation.Translation{
		Type: translation.TypeArticle, ID: 7, ShopID: 2,
		Fields: translation.Fields{"name": "Summer shirt"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, translation.TypeArticle, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "Summer shirt", got.Fields["name"])

	require.Len(t, publisher.events, 1)
	assert.Equal(t, eventmodels.ArticleUpdated, publisher.events[0].Type)
	assert.Equal(t, []string{"SW10007", "SW10007.1"}, publisher.events[0].Numbers)
}

func TestTranslationService_SharedObjectsFlush(t *testing.T) {
	svc, _, publisher := newTranslationService()
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, &translation.Translation{
		Type: translation.TypeUnit, ID: 1, ShopID: 2,
		Fields: translation.Fields{"unit": "l"},
	}))
	require.NoError(t, svc.Delete(ctx, translation.TypeUnit, 1, 2))

	require.Len(t, publisher.events, 2)
	for _, e := range publisher.events {
		assert.Equal(t, eventmodels.CacheFlushed, e.Type)
	}
}

func TestTranslationService_FlushesWhenNumbersFail(t *testing.T) {
	svc, repo, publisher := newTranslationService()
	repo.numbersErr = errors.New("connection reset")

	require.NoError(t, svc.Save(context.Background(), &translation.Translation{
		Type: translation.TypeArticle, ID: 7, ShopID: 2,
		Fields: translation.Fields{"name": "Summer shirt"},
	}))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, eventmodels.CacheFlushed, publisher.events[0].Type)
}

func TestTranslationService_Validation(t *testing.T) {
	svc, _, publisher := newTranslationService()
	ctx := context.Background()

	tests := []struct {
		name string
		in   *translation.Translation
	}{
		{"nil payload", nil},
		{"unknown type", &translation.Translation{Type: "voucher", ID: 1, ShopID: 1, Fields: translation.Fields{"name": "x"}}},
		{"missing shop", &translation.Translation{Type: translation.TypeArticle, ID: 1, Fields: translation.Fields{"name": "x"}}},
		{"no fields", &translation.Translation{Type: translation.TypeArticle, ID: 1, ShopID: 1}},
		{"foreign field", &translation.Translation{Type: translation.TypeUnit, ID: 1, ShopID: 1, Fields: translation.Fields{"keywords": "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Save(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, IsClientError(err))
		})
	}

	_, err := svc.Get(ctx, "voucher", 1, 1)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, svc.Delete(ctx, translation.TypeArticle, 1, 1), utils.ErrNotFound)
	assert.Empty(t, publisher.events)
}
