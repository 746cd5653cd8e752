package domain

// AllLabel is the storefront's "no filter" choice.
const AllLabel = "All"

// CategoryFilter is either "all categories" or one named category.
// The zero value selects all categories.
type CategoryFilter struct {
	name  string
	named bool
}

func AllCategories() CategoryFilter { return CategoryFilter{} }

func Named(name string) CategoryFilter { return CategoryFilter{name: name, named: true} }

// ParseCategoryFilter maps a request value to a filter; "" and "All" both mean no filter.
func ParseCategoryFilter(s string) CategoryFilter {
	if s == "" || s == AllLabel {
		return AllCategories()
	}
	return Named(s)
}

func (f CategoryFilter) IsAll() bool { return !f.named }

func (f CategoryFilter) Name() string { return f.name }

// String is the value used in links and select boxes.
func (f CategoryFilter) String() string {
	if !f.named {
		return AllLabel
	}
	return f.name
}

// Matches compares the category label exactly (case-sensitive).
func (f CategoryFilter) Matches(p Product) bool {
	return !f.named || p.Category == f.name
}

func FilterProducts(products []Product, f CategoryFilter) []Product {
	if f.IsAll() {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
