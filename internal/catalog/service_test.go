package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/internal/testdb"
	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

type fixture struct {
	db  *gorm.DB
	svc Service

	men, women   models.Gender
	red, blue    models.Color
	sizeM, sizeL models.Size
	shoes, tops  models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)

	f := &fixture{
		db:    db,
		men:   models.Gender{Label: "Men", Slug: "men"},
		women: models.Gender{Label: "Women", Slug: "women"},
		red:   models.Color{Name: "Red", Slug: "red", HexCode: "#ff0000"},
		blue:  models.Color{Name: "Blue", Slug: "blue", HexCode: "#0000ff"},
		sizeM: models.Size{Name: "M", Slug: "m", SortOrder: 2},
		sizeL: models.Size{Name: "L", Slug: "l", SortOrder: 3},
		shoes: models.Category{Name: "Shoes", Slug: "shoes"},
		tops:  models.Category{Name: "Tops", Slug: "tops"},
	}
	require.NoError(t, db.Create(&f.men).Error)
	require.NoError(t, db.Create(&f.women).Error)
	require.NoError(t, db.Create(&f.red).Error)
	require.NoError(t, db.Create(&f.blue).Error)
	require.NoError(t, db.Create(&f.sizeM).Error)
	require.NoError(t, db.Create(&f.sizeL).Error)
	require.NoError(t, db.Create(&f.shoes).Error)
	require.NoError(t, db.Create(&f.tops).Error)

	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PageSize: 12})
	require.NoError(t, err)
	f.svc = svc
	return f
}

type productSpec struct {
	name      string
	gender    *models.Gender
	category  *models.Category
	published bool
	createdAt time.Time
	variants  []models.ProductVariant
	images    []models.ProductImage
}

func (f *fixture) createProduct(t *testing.T, spec productSpec) models.Product {
	t.Helper()
	p := models.Product{
		Name:        spec.name,
		Description: spec.name + " description",
		IsPublished: spec.published,
		CreatedAt:   spec.createdAt,
	}
	if spec.gender != nil {
		p.GenderID = &spec.gender.ID
	}
	if spec.category != nil {
		p.CategoryID = &spec.category.ID
	}
	require.NoError(t, f.db.Create(&p).Error)

	for i := range spec.variants {
		spec.variants[i].ProductID = p.ID
		if spec.variants[i].SKU == "" {
			spec.variants[i].SKU = fmt.Sprintf("%s-%d-%s", spec.name, i, uuid.NewString()[:8])
		}
		require.NoError(t, f.db.Create(&spec.variants[i]).Error)
	}
	for i := range spec.images {
		spec.images[i].ProductID = p.ID
		require.NoError(t, f.db.Create(&spec.images[i]).Error)
	}
	return p
}

func cents(dollars int64) types.Cents { return types.Cents(dollars * 100) }

func TestListPublishedOnly(t *testing.T) {
	f := newFixture(t)
	f.createProduct(t, productSpec{
		name: "visible", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(80)}},
	})
	f.createProduct(t, productSpec{
		name: "hidden", published: false, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(80)}},
	})

	res, err := f.svc.List(context.Background(), Filters{Page: 1})
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, "visible", res.Products[0].Name)
	assert.EqualValues(t, 1, res.Total)
}

func TestListPriceBucketMatchesAnyVariant(t *testing.T) {
	f := newFixture(t)
	// one variant in 0-50, one in 100-150
	straddler := f.createProduct(t, productSpec{
		name: "straddler", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{
			{PriceCents: cents(45)},
			{PriceCents: cents(120)},
		},
	})
	f.createProduct(t, productSpec{
		name: "mid", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(75)}},
	})

	for _, bucket := range []string{PriceRange0To50, PriceRange100To150} {
		res, err := f.svc.List(context.Background(), Filters{PriceRanges: []string{bucket}, Page: 1})
		require.NoError(t, err)
		require.Len(t, res.Products, 1, "bucket %s", bucket)
		assert.Equal(t, straddler.ID, res.Products[0].ID, "bucket %s", bucket)
	}

	// boundary: exactly 50 belongs to 50-100, not 0-50
	f.createProduct(t, productSpec{
		name: "boundary", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(50)}},
	})
	res, err := f.svc.List(context.Background(), Filters{PriceRanges: []string{PriceRange0To50}, Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "straddler", res.Products[0].Name)

	res, err = f.svc.List(context.Background(), Filters{PriceRanges: []string{PriceRange50To100}, Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
}

func TestListCombinedPriceBuckets(t *testing.T) {
	f := newFixture(t)
	spread := f.createProduct(t, productSpec{
		name: "spread", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{
			{PriceCents: cents(40)},
			{PriceCents: cents(200)},
		},
	})
	f.createProduct(t, productSpec{
		name: "mid", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(75)}},
	})

	// non-adjacent buckets OR together: the $40/$200 product matches,
	// the lone $75 product falls between them
	res, err := f.svc.List(context.Background(), Filters{
		PriceRanges: []string{PriceRange0To50, PriceRange150Plus},
		Page:        1,
	})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, spread.ID, res.Products[0].ID)
	assert.EqualValues(t, 1, res.Total)
}

func TestListFiltersAndAcrossDimensions(t *testing.T) {
	f := newFixture(t)
	match := f.createProduct(t, productSpec{
		name: "match", gender: &f.men, published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(80), ColorID: &f.red.ID, SizeID: &f.sizeM.ID}},
	})
	f.createProduct(t, productSpec{
		name: "wrong-color", gender: &f.men, published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(80), ColorID: &f.blue.ID, SizeID: &f.sizeM.ID}},
	})
	f.createProduct(t, productSpec{
		name: "wrong-gender", gender: &f.women, published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(80), ColorID: &f.red.ID, SizeID: &f.sizeM.ID}},
	})

	res, err := f.svc.List(context.Background(), Filters{
		Genders: []string{"men"},
		Colors:  []string{"red"},
		Page:    1,
	})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, match.ID, res.Products[0].ID)

	// OR within a dimension
	res, err = f.svc.List(context.Background(), Filters{
		Genders: []string{"men"},
		Colors:  []string{"red", "blue"},
		Page:    1,
	})
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
	assert.EqualValues(t, 2, res.Total)
}

func TestListPaginationAndIndependentCount(t *testing.T) {
	f := newFixture(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 14; i++ {
		f.createProduct(t, productSpec{
			name: fmt.Sprintf("p-%02d", i), published: true,
			createdAt: base.Add(time.Duration(i) * time.Minute),
			variants:  []models.ProductVariant{{PriceCents: cents(int64(10 + i))}},
		})
	}

	res, err := f.svc.List(context.Background(), Filters{Page: 2})
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
	assert.EqualValues(t, 14, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 12, res.PageSize)

	// out-of-range page: empty slice, truthful total
	res, err = f.svc.List(context.Background(), Filters{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.EqualValues(t, 14, res.Total)
}

func TestListSortByMinVariantPrice(t *testing.T) {
	f := newFixture(t)
	f.createProduct(t, productSpec{
		name: "pricey", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(200)}},
	})
	f.createProduct(t, productSpec{
		name: "cheap-min", published: true, createdAt: time.Now(),
		// min 30 even though another variant costs 500
		variants: []models.ProductVariant{{PriceCents: cents(500)}, {PriceCents: cents(30)}},
	})
	f.createProduct(t, productSpec{
		name: "middle", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(90)}},
	})

	res, err := f.svc.List(context.Background(), Filters{Sort: SortPriceAsc, Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Products, 3)
	assert.Equal(t, "cheap-min", res.Products[0].Name)
	assert.Equal(t, "middle", res.Products[1].Name)
	assert.Equal(t, "pricey", res.Products[2].Name)

	res, err = f.svc.List(context.Background(), Filters{Sort: SortPriceDesc, Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Products, 3)
	assert.Equal(t, "pricey", res.Products[0].Name)
}

func TestListNewestFirstAndFeaturedAlias(t *testing.T) {
	f := newFixture(t)
	old := f.createProduct(t, productSpec{
		name: "old", published: true, createdAt: time.Now().Add(-24 * time.Hour),
		variants: []models.ProductVariant{{PriceCents: cents(10)}},
	})
	fresh := f.createProduct(t, productSpec{
		name: "fresh", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(10)}},
	})

	for _, sortKey := range []string{SortNewest, SortFeatured, ""} {
		res, err := f.svc.List(context.Background(), Filters{Sort: sortKey, Page: 1})
		require.NoError(t, err)
		require.Len(t, res.Products, 2, "sort %q", sortKey)
		assert.Equal(t, fresh.ID, res.Products[0].ID, "sort %q", sortKey)
		assert.Equal(t, old.ID, res.Products[1].ID, "sort %q", sortKey)
	}
}

func TestGetDetail(t *testing.T) {
	f := newFixture(t)
	sale := cents(60)
	p := f.createProduct(t, productSpec{
		name: "runner", gender: &f.men, category: &f.shoes, published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{
			{PriceCents: cents(80), SalePriceCents: &sale, ColorID: &f.red.ID, SizeID: &f.sizeM.ID, Stock: 3},
			{PriceCents: cents(120), ColorID: &f.blue.ID, SizeID: &f.sizeL.ID},
		},
		images: []models.ProductImage{
			{URL: "https://cdn.example.com/b.jpg", SortOrder: 0},
			{URL: "https://cdn.example.com/a.jpg", SortOrder: 5, IsPrimary: true},
		},
	})

	detail, err := f.svc.Get(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, "runner", detail.Name)
	require.NotNil(t, detail.Gender)
	assert.Equal(t, "men", detail.Gender.Slug)
	assert.Equal(t, cents(80), detail.MinPrice)
	assert.Equal(t, cents(120), detail.MaxPrice)

	require.Len(t, detail.Images, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", detail.Images[0].URL, "primary image first")

	require.Len(t, detail.Variants, 2)
	var onSale *VariantDTO
	for i := range detail.Variants {
		if detail.Variants[i].SalePrice != nil {
			onSale = &detail.Variants[i]
		}
	}
	require.NotNil(t, onSale)
	assert.Equal(t, sale, *onSale.SalePrice)
	assert.True(t, onSale.InStock)
}

func TestGetUnpublishedIsNotFound(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, productSpec{
		name: "draft", published: false, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(10)}},
	})

	_, err := f.svc.Get(context.Background(), p.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRecommendations(t *testing.T) {
	f := newFixture(t)
	subject := f.createProduct(t, productSpec{
		name: "subject", category: &f.shoes, published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(10)}},
	})
	for i := 0; i < 5; i++ {
		f.createProduct(t, productSpec{
			name: fmt.Sprintf("shoe-%d", i), category: &f.shoes, published: true,
			createdAt: time.Now().Add(time.Duration(i) * time.Second),
			variants:  []models.ProductVariant{{PriceCents: cents(10)}},
		})
	}
	f.createProduct(t, productSpec{
		name: "top", category: &f.tops, published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(10)}},
	})

	recs, err := f.svc.Recommendations(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 4, "capped at four")
	for _, rec := range recs {
		assert.NotEqual(t, subject.ID, rec.ID, "subject excluded")
		assert.NotEqual(t, "top", rec.Name, "other categories excluded")
	}
}

func TestReviews(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, productSpec{
		name: "reviewed", published: true, createdAt: time.Now(),
		variants: []models.ProductVariant{{PriceCents: cents(10)}},
	})
	author := models.User{Email: "reviewer@example.com", PasswordHash: "x", Name: "Sam Reviewer"}
	require.NoError(t, f.db.Create(&author).Error)

	comment := "great shoes"
	require.NoError(t, f.db.Create(&models.Review{
		ProductID: p.ID, UserID: author.ID, Rating: 5, Comment: &comment,
	}).Error)

	reviews, err := f.svc.Reviews(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Sam Reviewer", reviews[0].Author)
	require.NotNil(t, reviews[0].Comment)
	assert.Equal(t, "great shoes", *reviews[0].Comment)
}
