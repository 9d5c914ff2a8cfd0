package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	gateway catalog.Gateway
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(gateway catalog.Gateway, logger zerolog.Logger) CatalogService {
	return &catalogService{
		gateway: gateway,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.gateway.ListCategories(ctx)
}

func (s *catalogService) Subcategories(ctx context.Context) ([]model.Subcategory, error) {
	return s.gateway.ListSubcategories(ctx)
}

func (s *catalogService) SubcategoriesByCategory(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	subs, err := s.gateway.ListSubcategoriesByCategory(ctx, categoryID)
	if errors.Is(err, catalog.ErrNotFound) {
		return []model.Subcategory{}, nil
	}
	return subs, err
}

func (s *catalogService) Products(ctx context.Context, subcategory string, order catalog.SortOrder) ([]model.Product, error) {
	var (
		products []model.Product
		err      error
	)

	subcategory = strings.TrimSpace(subcategory)
	if subcategory == "" {
		products, err = s.gateway.ListProducts(ctx)
	} else {
		products, err = s.gateway.ListProductsBySubcategory(ctx, subcategory)
		if errors.Is(err, catalog.ErrNotFound) {
			products, err = []model.Product{}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("subcategory", subcategory).
		Str("sort", string(order)).
		Int("count", len(products)).
		Msg("retrieved products")

	return catalog.SortProducts(products, order), nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	created, err := s.gateway.CreateCategory(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", created.ID).Msg("category created")
	return created, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	updated, err := s.gateway.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", id).Msg("category updated")
	return updated, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.gateway.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *catalogService) CreateSubcategory(ctx context.Context, in model.SubcategoryInput) (*model.Subcategory, error) {
	if err := validateSubcategory(in); err != nil {
		return nil, err
	}
	created, err := s.gateway.CreateSubcategory(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("subcategory_id", created.ID).Msg("subcategory created")
	return created, nil
}

func (s *catalogService) UpdateSubcategory(ctx context.Context, id int64, in model.SubcategoryInput) (*model.Subcategory, error) {
	if err := validateSubcategory(in); err != nil {
		return nil, err
	}
	updated, err := s.gateway.UpdateSubcategory(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("subcategory_id", id).Msg("subcategory updated")
	return updated, nil
}

func (s *catalogService) DeleteSubcategory(ctx context.Context, id int64) error {
	if err := s.gateway.DeleteSubcategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("subcategory_id", id).Msg("subcategory deleted")
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	created, err := s.gateway.CreateProduct(ctx, in, image)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("product_id", created.ID).
		Bool("with_image", image != nil).
		Msg("product created")
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	updated, err := s.gateway.UpdateProduct(ctx, id, in, image)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("product_id", id).
		Bool("with_image", image != nil).
		Msg("product updated")
	return updated, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "name is required")
	}
	return nil
}

func validateSubcategory(in model.SubcategoryInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if in.CategoryID <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "categoryId is required")
	}
	return nil
}

func validateProduct(in model.ProductInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return model.NewDomainError(model.ErrCodeValidationFailed, fmt.Sprintf("price must not be negative: %s", in.Price))
	}
	if in.SubcategoryID <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "subcategoryId is required")
	}
	return nil
}
