package model

type Category string

const (
	CategoryWorld    Category = "world"
	CategoryBusiness Category = "business"
	CategoryTech     Category = "tech"
	CategorySports   Category = "sports"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryWorld, CategoryBusiness, CategoryTech, CategorySports}

// providerCategories maps our categories to the NewsData.io taxonomy.
var providerCategories = map[Category]string{
	CategoryWorld:    "world",
	CategoryBusiness: "business",
	CategoryTech:     "technology",
	CategorySports:   "sports",
}

// ParseCategory normalizes a raw category. Empty and unknown values map to world.
func ParseCategory(raw string) Category {
	c := Category(raw)
	if _, ok := providerCategories[c]; ok {
		return c
	}
	return CategoryWorld
}

// ProviderName returns the NewsData.io category for c.
func (c Category) ProviderName() string {
	if name, ok := providerCategories[c]; ok {
		return name
	}
	return providerCategories[CategoryWorld]
}
