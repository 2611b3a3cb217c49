package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecohaat/internal/models"
	"ecohaat/internal/repositories"
)

// CategoryService manages product categories.
type CategoryService struct {
	repo        repositories.CategoryRepository
	productRepo repositories.ProductRepository
}

func NewCategoryService(repo repositories.CategoryRepository, productRepo repositories.ProductRepository) *CategoryService {
	return &CategoryService{repo: repo, productRepo: productRepo}
}

// ListCategories returns every category ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "list categories")
	}
	return categories, nil
}

// CreateCategory adds a category. Names are unique.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}

	_, err := s.repo.GetByName(ctx, category.Name)
	if err == nil {
		return fmt.Errorf("%w: category '%s' already exists", ErrConflict, category.Name)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return storeError(err, "look up category")
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return storeError(err, "create category")
	}
	return nil
}

// DeleteCategory removes a category that no product uses.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	inUse, err := s.productRepo.ExistsInCategory(ctx, id)
	if err != nil {
		return storeError(err, "check category usage")
	}
	if inUse {
		return fmt.Errorf("%w: cannot delete category with existing products", ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "delete category")
	}
	return nil
}
