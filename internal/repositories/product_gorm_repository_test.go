package repositories_test

import (
	"context"
	"testing"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMProductRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seed(t, db)
	repo := repositories.NewGORMProductRepository(db)

	description := "Hand-woven from organic cotton"
	rating := 80
	pending := models.Product{
		SellerID:    f.seller.ID,
		CategoryID:  f.category.ID,
		Name:        "Tote",
		Description: &description,
		Price:       7.0,
		Material:    "Cotton",
		Images:      models.StringList{"https://img.ecohaat.test/tote.jpg"},
		Status:      models.ProductPending,
	}
	require.NoError(t, repo.Create(ctx, &pending))
	_, err := repo.Update(ctx, f.productA.ID, map[string]interface{}{"eco_rating": rating})
	require.NoError(t, err)

	approved, err := repo.List(ctx, repositories.ProductFilter{Status: models.ProductApproved})
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, f.productB.ID, approved[0].ID, "newest first")
	require.NotNil(t, approved[0].Seller)
	assert.Equal(t, "Jute Works", approved[0].Seller.FullName)
	require.NotNil(t, approved[0].Category)
	assert.Equal(t, "Home", approved[0].Category.Name)

	byMaterial, err := repo.List(ctx, repositories.ProductFilter{Material: "bAMboo"})
	require.NoError(t, err)
	require.Len(t, byMaterial, 1)
	assert.Equal(t, f.productA.ID, byMaterial[0].ID)

	bySearch, err := repo.List(ctx, repositories.ProductFilter{Search: "ORGANIC"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, pending.ID, bySearch[0].ID)
	assert.Equal(t, models.StringList{"https://img.ecohaat.test/tote.jpg"}, bySearch[0].Images)

	minRating := 50
	rated, err := repo.List(ctx, repositories.ProductFilter{MinEcoRating: &minRating})
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Equal(t, f.productA.ID, rated[0].ID)

	mine, err := repo.List(ctx, repositories.ProductFilter{SellerID: f.seller.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	oldest, err := repo.List(ctx, repositories.ProductFilter{OldestFirst: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, oldest, 1)
	assert.Equal(t, f.productA.ID, oldest[0].ID)

	page2, err := repo.List(ctx, repositories.ProductFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, f.productA.ID, page2[0].ID)
}

func TestGORMProductRepository_UpdateAndCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seed(t, db)
	repo := repositories.NewGORMProductRepository(db)

	reason := "blurry photos"
	updated, err := repo.Update(ctx, f.productA.ID, map[string]interface{}{
		"status":           models.ProductRejected,
		"rejection_reason": reason,
		"images":           models.StringList{"https://img.ecohaat.test/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProductRejected, updated.Status)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, reason, *updated.RejectionReason)
	assert.Equal(t, models.StringList{"https://img.ecohaat.test/a.jpg"}, updated.Images)

	cleared, err := repo.Update(ctx, f.productA.ID, map[string]interface{}{"rejection_reason": nil})
	require.NoError(t, err)
	assert.Nil(t, cleared.RejectionReason)

	_, err = repo.Update(ctx, 999, map[string]interface{}{"name": "ghost"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	n, err := repo.CountByStatus(ctx, models.ProductApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	inUse, err := repo.ExistsInCategory(ctx, f.category.ID)
	require.NoError(t, err)
	assert.True(t, inUse)
	inUse, err = repo.ExistsInCategory(ctx, f.category.ID+1)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestGORMProductRepository_DeleteRemovesCartLines(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seed(t, db)
	repo := repositories.NewGORMProductRepository(db)
	fillCart(t, db, f.buyer.ID, map[uint]int{f.productA.ID: 1, f.productB.ID: 3})

	require.NoError(t, repo.Delete(ctx, f.productA.ID))

	_, err := repo.GetByID(ctx, f.productA.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	lines, err := repositories.NewGORMCartRepository(db).ListByBuyer(ctx, f.buyer.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, f.productB.ID, lines[0].ProductID)

	assert.ErrorIs(t, repo.Delete(ctx, f.productA.ID), repositories.ErrNotFound)
}
