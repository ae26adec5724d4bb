package usecase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// Platform is a storefront searched through a site filter
type Platform struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// SiteFilter returns the search operator restricting results to the platform
func (p Platform) SiteFilter() string {
	return "site:" + p.Domain
}

// ComparePlatforms are searched by the comparison pipeline, in stage order
var ComparePlatforms = []Platform{
	{Name: "Amazon", Domain: "amazon.in"},
	{Name: "Flipkart", Domain: "flipkart.com"},
	{Name: "Blinkit", Domain: "blinkit.com"},
	{Name: "Zepto", Domain: "zepto.in"},
	{Name: "BigBasket", Domain: "bigbasket.com"},
}

// ArbitragePlatforms are searched by the arbitrage pipeline; order decides ties
var ArbitragePlatforms = []Platform{
	{Name: "amazon", Domain: "amazon.in"},
	{Name: "flipkart", Domain: "flipkart.com"},
	{Name: "jiomart", Domain: "jiomart.com"},
	{Name: "zepto", Domain: "zepto.in"},
	{Name: "blinkit", Domain: "blinkit.com"},
	{Name: "bigbasket", Domain: "bigbasket.com"},
}

// MasterCategories lists the top-level categories in display order
var MasterCategories = []string{"grocery", "electronics", "fashion", "beauty"}

// CategoriesByMaster lists the categories under each master category
var CategoriesByMaster = map[string][]string{
	"grocery":     {"Rice", "Atta", "Detergent", "Oil"},
	"electronics": {"Mobiles", "Laptops", "Headphones", "Smartwatches"},
	"fashion":     {"Men Clothing", "Women Clothing", "Footwear", "Watches", "Bags"},
	"beauty":      {"Skincare", "Haircare", "Makeup", "Fragrance", "Personal Care"},
}

// ProductsByCategory holds suggested products per category
var ProductsByCategory = map[string][]string{
	"Rice":           {"India Gate Basmati Rice", "Daawat Basmati Rice"},
	"Atta":           {"Aashirvaad Atta", "Pillsbury Chakki Fresh Atta"},
	"Detergent":      {"Surf Excel", "Ariel Matic"},
	"Oil":            {"Fortune Sunflower Oil", "Saffola Gold"},
	"Mobiles":        {"Samsung Galaxy M14 5G", "Redmi Note 13", "iPhone 13"},
	"Laptops":        {"HP Pavilion 14", "Dell Inspiron 15", "Lenovo IdeaPad Slim 3"},
	"Headphones":     {"boAt Rockerz 450", "Sony WH-CH520", "JBL Tune 760NC"},
	"Smartwatches":   {"Noise ColorFit", "boAt Xtend", "Amazfit Bip"},
	"Men Clothing":   {"Levi's Men's Jeans", "Allen Solly Men's Shirt", "Puma Men's T-Shirt"},
	"Women Clothing": {"Biba Kurti", "W for Women Top", "Only Women's Jeans"},
	"Footwear":       {"Bata Sneakers", "Puma Running Shoes", "Adidas Slides"},
	"Watches":        {"Fastrack Watch", "Titan Watch", "Casio Watch"},
	"Bags":           {"American Tourister Backpack", "Wildcraft Backpack", "Skybags Backpack"},
	"Skincare":       {"Cetaphil Gentle Skin Cleanser", "Nivea Soft Cream", "Minimalist Sunscreen SPF 50"},
	"Haircare":       {"L'Oréal Shampoo", "Dove Shampoo", "Mamaearth Hair Oil"},
	"Makeup":         {"Maybelline Mascara", "Lakmé Compact", "Sugar Lipstick"},
	"Fragrance":      {"Fogg Scent", "Engage Perfume Spray", "Denver Hamilton"},
	"Personal Care":  {"Colgate Toothpaste", "Nivea Deodorant", "Dettol Handwash"},
}

// CatalogCategory is one category with its suggested products
type CatalogCategory struct {
	Name     string   `json:"name"`
	Products []string `json:"products"`
}

// CatalogEntry is one master category with its categories
type CatalogEntry struct {
	MasterCategory string            `json:"master_category"`
	Categories     []CatalogCategory `json:"categories"`
}

// Catalog returns the full category tree in display order
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(MasterCategories))
	for _, master := range MasterCategories {
		entry := CatalogEntry{MasterCategory: master}
		for _, category := range CategoriesByMaster[master] {
			entry.Categories = append(entry.Categories, CatalogCategory{
				Name:     category,
				Products: ProductsByCategory[category],
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

// ValidateCompareRequest checks the category pair against the catalog and
// requires a non-blank product name.
func ValidateCompareRequest(req domain.CompareRequest) error {
	if !slices.Contains(MasterCategories, req.MasterCategory) {
		return fmt.Errorf("%w: invalid master_category %q", domain.ErrInvalidCategory, req.MasterCategory)
	}
	if !slices.Contains(CategoriesByMaster[req.MasterCategory], req.Category) {
		return fmt.Errorf("%w: invalid category %q for master_category %q", domain.ErrInvalidCategory, req.Category, req.MasterCategory)
	}
	if strings.TrimSpace(req.ProductName) == "" {
		return fmt.Errorf("%w: product_name cannot be empty", domain.ErrInvalidRequest)
	}
	return nil
}
