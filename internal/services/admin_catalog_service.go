package services

import (
	"context"
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"mymat/internal/domain"
	"mymat/internal/repos"
	"mymat/internal/validate"
)

// ProductInput is the raw product form as submitted by an admin.
type ProductInput struct {
	Name          string
	Price         string
	OriginalPrice string
	Category      string
	Description   string
	Image         string
}

type AdminCatalogService struct {
	Prods *repos.ProductRepo
	Cats  *repos.CategoryRepo
}

func NewAdminCatalogService(prods *repos.ProductRepo, cats *repos.CategoryRepo) *AdminCatalogService {
	return &AdminCatalogService{Prods: prods, Cats: cats}
}

// toProduct validates in against the current category list.
func (s *AdminCatalogService) toProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	var p domain.Product
	var ok bool
	if p.Name, ok = validate.Name(in.Name); !ok {
		return p, invalid("name", "Name is required (max 120 characters)")
	}
	if p.Price, ok = validate.Price(in.Price); !ok {
		return p, invalid("price", "Price must be zero or more")
	}
	if raw, given := validate.Required(in.OriginalPrice); given {
		op, ok := validate.Price(raw)
		if !ok {
			return p, invalid("original_price", "Original price must be zero or more")
		}
		p.OriginalPrice = decimal.NewNullDecimal(op)
	}
	cat, _ := validate.Required(in.Category)
	cats, err := s.Cats.List(ctx)
	if err != nil {
		return p, err
	}
	if !slices.ContainsFunc(cats, func(c domain.Category) bool { return c.Name == cat }) {
		return p, invalid("category", "Choose a category")
	}
	p.Category = cat
	p.Description, _ = validate.Required(in.Description)
	p.Image, _ = validate.Required(in.Image)
	return p, nil
}

func (s *AdminCatalogService) ListProducts(ctx context.Context, q string) ([]domain.Product, error) {
	return s.Prods.Search(ctx, q)
}

func (s *AdminCatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *AdminCatalogService) CreateProduct(ctx context.Context, in ProductInput) (string, error) {
	p, err := s.toProduct(ctx, in)
	if err != nil {
		return "", err
	}
	return s.Prods.Create(ctx, p)
}

// UpdateProduct replaces every field; an empty image keeps the current one.
func (s *AdminCatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	cur, err := s.Prods.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.toProduct(ctx, in)
	if err != nil {
		return err
	}
	p.ID = cur.ID
	if p.Image == "" {
		p.Image = cur.Image
	}
	return s.Prods.Update(ctx, p)
}

func (s *AdminCatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.Prods.Delete(ctx, id)
}

func (s *AdminCatalogService) ListCategories(ctx context.Context, q string) ([]domain.Category, error) {
	return s.Cats.Search(ctx, q)
}

func (s *AdminCatalogService) AddCategory(ctx context.Context, name string) (domain.Category, error) {
	name, ok := validate.Name(name)
	if !ok {
		return domain.Category{}, invalid("name", "Category name is required")
	}
	c, err := s.Cats.Create(ctx, name)
	if errors.Is(err, repos.ErrConflict) {
		return c, invalid("name", "A category with this name already exists")
	}
	return c, err
}

func (s *AdminCatalogService) RenameCategory(ctx context.Context, id, name string) error {
	name, ok := validate.Name(name)
	if !ok {
		return invalid("name", "Category name is required")
	}
	err := s.Cats.Rename(ctx, id, name)
	if errors.Is(err, repos.ErrConflict) {
		return invalid("name", "A category with this name already exists")
	}
	return err
}

func (s *AdminCatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.Cats.Delete(ctx, id)
}
