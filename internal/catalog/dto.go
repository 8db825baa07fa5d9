package catalog

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// RefDTO is a named taxonomy reference (brand, category, gender).
type RefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ColorDTO describes a variant color swatch.
type ColorDTO struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	HexCode string `json:"hex_code"`
}

// SizeDTO describes a variant size option.
type SizeDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// VariantDTO is the purchasable view of a product variant.
type VariantDTO struct {
	ID        uuid.UUID    `json:"id"`
	SKU       string       `json:"sku"`
	Price     types.Cents  `json:"price"`
	SalePrice *types.Cents `json:"sale_price,omitempty"`
	Color     *ColorDTO    `json:"color,omitempty"`
	Size      *SizeDTO     `json:"size,omitempty"`
	InStock   bool         `json:"in_stock"`
}

// ImageDTO is a display asset, already sorted primary-first.
type ImageDTO struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ProductSummary is the listing card for one product.
type ProductSummary struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Brand     *RefDTO     `json:"brand,omitempty"`
	Category  *RefDTO     `json:"category,omitempty"`
	Gender    *RefDTO     `json:"gender,omitempty"`
	MinPrice  types.Cents `json:"min_price"`
	MaxPrice  types.Cents `json:"max_price"`
	ImageURL  *string     `json:"image_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ListResult is one page of the catalog plus the full match count.
type ListResult struct {
	Products   []ProductSummary `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// ProductDetail is the full product view.
type ProductDetail struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Brand       *RefDTO      `json:"brand,omitempty"`
	Category    *RefDTO      `json:"category,omitempty"`
	Gender      *RefDTO      `json:"gender,omitempty"`
	MinPrice    types.Cents  `json:"min_price"`
	MaxPrice    types.Cents  `json:"max_price"`
	Variants    []VariantDTO `json:"variants"`
	Images      []ImageDTO   `json:"images"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ReviewDTO is one product review with its author's display name.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func refFromBrand(b *models.Brand) *RefDTO {
	if b == nil {
		return nil
	}
	return &RefDTO{ID: b.ID, Name: b.Name, Slug: b.Slug}
}

func refFromCategory(c *models.Category) *RefDTO {
	if c == nil {
		return nil
	}
	return &RefDTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func refFromGender(g *models.Gender) *RefDTO {
	if g == nil {
		return nil
	}
	return &RefDTO{ID: g.ID, Name: g.Label, Slug: g.Slug}
}

// priceSpan computes the min/max list price across variants. Zero span
// for products without variants.
func priceSpan(variants []models.ProductVariant) (types.Cents, types.Cents) {
	var min, max types.Cents
	for i, v := range variants {
		if i == 0 || v.PriceCents < min {
			min = v.PriceCents
		}
		if v.PriceCents > max {
			max = v.PriceCents
		}
	}
	return min, max
}

// orderedImages sorts primary images first, then by sort order.
func orderedImages(images []models.ProductImage) []ImageDTO {
	sorted := make([]models.ProductImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsPrimary != sorted[j].IsPrimary {
			return sorted[i].IsPrimary
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	out := make([]ImageDTO, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, ImageDTO{URL: img.URL, IsPrimary: img.IsPrimary, SortOrder: img.SortOrder})
	}
	return out
}

func summaryFromModel(p models.Product) ProductSummary {
	min, max := priceSpan(p.Variants)
	summary := ProductSummary{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     refFromBrand(p.Brand),
		Category:  refFromCategory(p.Category),
		Gender:    refFromGender(p.Gender),
		MinPrice:  min,
		MaxPrice:  max,
		CreatedAt: p.CreatedAt,
	}
	if images := orderedImages(p.Images); len(images) > 0 {
		url := images[0].URL
		summary.ImageURL = &url
	}
	return summary
}

func detailFromModel(p models.Product) *ProductDetail {
	min, max := priceSpan(p.Variants)
	detail := &ProductDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       refFromBrand(p.Brand),
		Category:    refFromCategory(p.Category),
		Gender:      refFromGender(p.Gender),
		MinPrice:    min,
		MaxPrice:    max,
		Images:      orderedImages(p.Images),
		CreatedAt:   p.CreatedAt,
	}

	detail.Variants = make([]VariantDTO, 0, len(p.Variants))
	for _, v := range p.Variants {
		dto := VariantDTO{
			ID:        v.ID,
			SKU:       v.SKU,
			Price:     v.PriceCents,
			SalePrice: v.SalePriceCents,
			InStock:   v.Stock > 0,
		}
		if v.Color != nil {
			dto.Color = &ColorDTO{Name: v.Color.Name, Slug: v.Color.Slug, HexCode: v.Color.HexCode}
		}
		if v.Size != nil {
			dto.Size = &SizeDTO{Name: v.Size.Name, Slug: v.Size.Slug}
		}
		detail.Variants = append(detail.Variants, dto)
	}
	return detail
}

func reviewFromModel(r models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		dto.Author = r.User.Name
	}
	return dto
}
