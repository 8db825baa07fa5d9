package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
	"github.com/avelasquez/stridemart-backend/pkg/pagination"
)

const (
	recommendationLimit = 4
	reviewLimit         = 10
)

// Service defines the behavior needed by the catalog controller.
type Service interface {
	List(ctx context.Context, f Filters) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	Recommendations(ctx context.Context, id uuid.UUID) ([]ProductSummary, error)
	Reviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
}

type repository interface {
	ListIDs(ctx context.Context, f Filters, limit, offset int) ([]uuid.UUID, error)
	Count(ctx context.Context, f Filters) (int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Recommendations(ctx context.Context, categoryID uuid.UUID, excludeID uuid.UUID, limit int) ([]models.Product, error)
	ListReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error)
}

type service struct {
	repo     repository
	pageSize int
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo     repository
	PageSize int
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &service{repo: params.Repo, pageSize: pageSize}, nil
}

// List runs the filtered, sorted, paginated catalog query. The total is
// counted with the same predicate regardless of the requested page, so an
// out-of-range page yields an empty slice with a truthful total.
func (s *service) List(ctx context.Context, f Filters) (*ListResult, error) {
	page := pagination.Params{Page: f.Page, PageSize: s.pageSize}.Normalize()

	ids, err := s.repo.ListIDs(ctx, f, page.Limit(), page.Offset())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}

	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}

	products := make([]ProductSummary, 0, len(rows))
	for _, p := range rows {
		products = append(products, summaryFromModel(p))
	}

	return &ListResult{
		Products:   products,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}

// Get loads a published product detail.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return detailFromModel(*product), nil
}

// Recommendations returns up to four published products from the same
// category, excluding the product itself.
func (s *service) Recommendations(ctx context.Context, id uuid.UUID) ([]ProductSummary, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.CategoryID == nil {
		return []ProductSummary{}, nil
	}

	rows, err := s.repo.Recommendations(ctx, *product.CategoryID, product.ID, recommendationLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recommendations")
	}

	out := make([]ProductSummary, 0, len(rows))
	for _, p := range rows {
		out = append(out, summaryFromModel(p))
	}
	return out, nil
}

// Reviews returns the latest reviews for a product.
func (s *service) Reviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.repo.ListReviews(ctx, productID, reviewLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reviews")
	}

	out := make([]ReviewDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, reviewFromModel(r))
	}
	return out, nil
}
