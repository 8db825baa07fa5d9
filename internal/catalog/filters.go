package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort orders accepted by the product listing.
const (
	SortFeatured  = "featured"
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Price bucket slugs accepted by the priceRange filter. Buckets are
// half-open in cents except the last, which is unbounded.
const (
	PriceRange0To50    = "0-50"
	PriceRange50To100  = "50-100"
	PriceRange100To150 = "100-150"
	PriceRange150Plus  = "150+"
)

var validSorts = map[string]bool{
	SortFeatured:  true,
	SortNewest:    true,
	SortPriceAsc:  true,
	SortPriceDesc: true,
}

var validPriceRanges = map[string]bool{
	PriceRange0To50:    true,
	PriceRange50To100:  true,
	PriceRange100To150: true,
	PriceRange150Plus:  true,
}

// Filters captures the normalized listing inputs parsed from a query
// string. The zero value means "no filters, newest, page 1".
type Filters struct {
	Genders     []string
	Sizes       []string
	Colors      []string
	PriceRanges []string
	Sort        string
	Page        int
}

// ParseFilters normalizes raw query values into Filters. Array params
// accept repeated keys or comma-joined values; duplicates collapse while
// preserving first-seen order. Unknown sorts are ignored and a missing or
// malformed page falls back to 1.
func ParseFilters(values url.Values) Filters {
	f := Filters{
		Genders:     parseArray(values, "gender", nil),
		Sizes:       parseArray(values, "size", nil),
		Colors:      parseArray(values, "color", nil),
		PriceRanges: parseArray(values, "priceRange", validPriceRanges),
		Page:        1,
	}

	if sort := strings.TrimSpace(values.Get("sort")); validSorts[sort] {
		f.Sort = sort
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			f.Page = page
		}
	}

	return f
}

// BuildQuery is the inverse of ParseFilters: arrays render comma-joined,
// page appears only beyond the first, and empty fields are omitted.
func (f Filters) BuildQuery() url.Values {
	values := url.Values{}
	setArray(values, "gender", f.Genders)
	setArray(values, "size", f.Sizes)
	setArray(values, "color", f.Colors)
	setArray(values, "priceRange", f.PriceRanges)
	if f.Sort != "" {
		values.Set("sort", f.Sort)
	}
	if f.Page > 1 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	return values
}

// ActiveFilterCount returns how many filter values are applied across all
// dimensions. Sort and page never count.
func (f Filters) ActiveFilterCount() int {
	return len(f.Genders) + len(f.Sizes) + len(f.Colors) + len(f.PriceRanges)
}

// ToggleValue adds the value to the named dimension, or removes it when
// already present. Any change resets the page to 1.
func (f Filters) ToggleValue(key, value string) Filters {
	arr := f.array(key)
	if arr == nil {
		return f
	}
	if contains(*arr, value) {
		*arr = remove(*arr, value)
	} else {
		*arr = append(*arr, value)
	}
	f.Page = 1
	return f
}

// RemoveValue drops the value from the named dimension and resets the page.
func (f Filters) RemoveValue(key, value string) Filters {
	arr := f.array(key)
	if arr == nil {
		return f
	}
	*arr = remove(*arr, value)
	f.Page = 1
	return f
}

// SetSort applies a new sort order and resets the page. Unknown sorts are
// ignored.
func (f Filters) SetSort(sort string) Filters {
	if !validSorts[sort] {
		return f
	}
	f.Sort = sort
	f.Page = 1
	return f
}

// array returns a pointer into the receiver's copy of the named slice so
// the with-style helpers can mutate before returning.
func (f *Filters) array(key string) *[]string {
	switch key {
	case "gender":
		f.Genders = cloneSlice(f.Genders)
		return &f.Genders
	case "size":
		f.Sizes = cloneSlice(f.Sizes)
		return &f.Sizes
	case "color":
		f.Colors = cloneSlice(f.Colors)
		return &f.Colors
	case "priceRange":
		f.PriceRanges = cloneSlice(f.PriceRanges)
		return &f.PriceRanges
	default:
		return nil
	}
}

func parseArray(values url.Values, key string, allowed map[string]bool) []string {
	var out []string
	seen := map[string]bool{}
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			v := strings.TrimSpace(part)
			if v == "" || seen[v] {
				continue
			}
			if allowed != nil && !allowed[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func setArray(values url.Values, key string, arr []string) {
	if len(arr) == 0 {
		return
	}
	values.Set(key, strings.Join(arr, ","))
}

func cloneSlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(arr []string, value string) bool {
	for _, v := range arr {
		if v == value {
			return true
		}
	}
	return false
}

func remove(arr []string, value string) []string {
	out := arr[:0]
	for _, v := range arr {
		if v != value {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
