package repository

import (
	"context"
	"testing"
	"time"

	"karma-light/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndFind(t *testing.T) {
	resetCatalog(t)
	repo := NewCategoryRepository(testDB)

	category := &domain.Category{
		NameUK:    "Свічки",
		NameRU:    "Свечи",
		SortOrder: 1,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), category))
	require.NotZero(t, category.ID)

	found, err := repo.FindByID(context.Background(), category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Свічки", found.NameUK)
	assert.Equal(t, "Свечи", found.NameRU)

	_, err = repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryDuplicateName(t *testing.T) {
	resetCatalog(t)
	repo := NewCategoryRepository(testDB)

	first := &domain.Category{NameUK: "Свічки", NameRU: "Свечи", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), first))

	duplicate := &domain.Category{NameUK: "Свічки", NameRU: "Другое", CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.Create(context.Background(), duplicate), ErrCategoryAlreadyExists)
}

func TestCategoryListOrdersBySortOrder(t *testing.T) {
	resetCatalog(t)
	repo := NewCategoryRepository(testDB)

	for _, c := range []*domain.Category{
		{NameUK: "Набори", NameRU: "Наборы", SortOrder: 3, CreatedAt: time.Now()},
		{NameUK: "Свічки", NameRU: "Свечи", SortOrder: 1, CreatedAt: time.Now()},
		{NameUK: "Дифузори", NameRU: "Диффузоры", SortOrder: 2, CreatedAt: time.Now()},
	} {
		require.NoError(t, repo.Create(context.Background(), c))
	}

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Свічки", categories[0].NameUK)
	assert.Equal(t, "Дифузори", categories[1].NameUK)
	assert.Equal(t, "Набори", categories[2].NameUK)
}
