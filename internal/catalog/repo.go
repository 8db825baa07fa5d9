package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// priceBucket is a half-open cents interval; Max < 0 means unbounded.
type priceBucket struct {
	Min types.Cents
	Max types.Cents
}

var priceBuckets = map[string]priceBucket{
	PriceRange0To50:    {Min: 0, Max: 5000},
	PriceRange50To100:  {Min: 5000, Max: 10000},
	PriceRange100To150: {Min: 10000, Max: 15000},
	PriceRange150Plus:  {Min: 15000, Max: -1},
}

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// applyFilters attaches the listing predicate: published only, AND across
// dimensions, OR within one. Color, size, and price all match when ANY
// variant of the product satisfies them.
func applyFilters(q *gorm.DB, f Filters) *gorm.DB {
	q = q.Where("products.is_published = ?", true)

	if len(f.Genders) > 0 {
		q = q.Where("products.gender_id IN (SELECT id FROM genders WHERE slug IN ?)", f.Genders)
	}
	if len(f.Colors) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM product_variants pv JOIN colors c ON c.id = pv.color_id WHERE pv.product_id = products.id AND c.slug IN ?)",
			f.Colors,
		)
	}
	if len(f.Sizes) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM product_variants pv JOIN sizes s ON s.id = pv.size_id WHERE pv.product_id = products.id AND s.slug IN ?)",
			f.Sizes,
		)
	}
	if len(f.PriceRanges) > 0 {
		clause, args := priceRangeClause(f.PriceRanges)
		if clause != "" {
			q = q.Where(
				"EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND ("+clause+"))",
				args...,
			)
		}
	}
	return q
}

func priceRangeClause(ranges []string) (string, []any) {
	var parts []string
	var args []any
	for _, slug := range ranges {
		bucket, ok := priceBuckets[slug]
		if !ok {
			continue
		}
		if bucket.Max < 0 {
			parts = append(parts, "pv.price_cents >= ?")
			args = append(args, int64(bucket.Min))
			continue
		}
		parts = append(parts, "(pv.price_cents >= ? AND pv.price_cents < ?)")
		args = append(args, int64(bucket.Min), int64(bucket.Max))
	}
	return strings.Join(parts, " OR "), args
}

// ListIDs returns the matching product IDs for one page, in display order.
func (r *Repository) ListIDs(ctx context.Context, f Filters, limit, offset int) ([]uuid.UUID, error) {
	q := applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), f)
	q = q.Joins("LEFT JOIN product_variants ON product_variants.product_id = products.id").
		Group("products.id").
		Select("products.id")

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("MIN(product_variants.price_cents) ASC").Order("products.id")
	case SortPriceDesc:
		q = q.Order("MIN(product_variants.price_cents) DESC").Order("products.id")
	default:
		// newest and featured both fall back to recency
		q = q.Order("products.created_at DESC").Order("products.id")
	}

	var rows []struct{ ID uuid.UUID }
	if err := q.Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// Count runs the same predicate as ListIDs without pagination.
func (r *Repository) Count(ctx context.Context, f Filters) (int64, error) {
	var total int64
	q := applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), f)
	if err := q.Distinct("products.id").Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindByIDs loads full products for the ID set and returns them in the
// exact order of ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var rows []models.Product
	if err := r.preloaded(ctx).Where("products.id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// FindByID loads one published product with all display associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.preloaded(ctx).
		Where("products.is_published = ?", true).
		First(&product, "products.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Recommendations returns published products sharing the category,
// excluding the product itself, newest first.
func (r *Repository) Recommendations(ctx context.Context, categoryID uuid.UUID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.preloaded(ctx).
		Where("products.is_published = ?", true).
		Where("products.category_id = ?", categoryID).
		Where("products.id <> ?", excludeID).
		Order("products.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListReviews returns the latest reviews for a product with their authors.
func (r *Repository) ListReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Preload("Gender").
		Preload("Variants").
		Preload("Variants.Color").
		Preload("Variants.Size").
		Preload("Images")
}
