package services

import (
	"context"

	"mymat/internal/domain"
	"mymat/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

// Products returns the catalog narrowed by f.
func (s *CatalogService) Products(ctx context.Context, f domain.CategoryFilter) ([]domain.Product, error) {
	all, err := s.Prods.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterProducts(all, f), nil
}

// FilterLabels is the shop's category bar: "All" followed by every category name.
func (s *CatalogService) FilterLabels(ctx context.Context) ([]string, error) {
	cats, err := s.Cats.List(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(cats)+1)
	labels = append(labels, domain.AllLabel)
	for _, c := range cats {
		labels = append(labels, c.Name)
	}
	return labels, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}
