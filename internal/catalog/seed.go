package catalog

import "github.com/msoohome/storefront/internal/domain"

// SeedProducts returns the built-in catalog used when the product store is
// empty on startup.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Luxury Velvet Curtains",
			Description: "Elegant blackout velvet curtains that add a touch of luxury to any room. Provides complete privacy and blocks out sunlight effectively.",
			PriceMinor:  4500,
			ImageURL:    "https://picsum.photos/seed/curtain1/600/600",
			Category:    domain.CategoryCurtains,
		},
		{
			ID:          "2",
			Name:        "Egyptian Cotton Bedding Set",
			Description: "Experience ultimate comfort with our 800 thread count Egyptian cotton bedding set. Includes a duvet cover, a flat sheet, and two pillowcases.",
			PriceMinor:  8999,
			ImageURL:    "https://picsum.photos/seed/bedding1/600/600",
			Category:    domain.CategoryBeddings,
		},
		{
			ID:          "3",
			Name:        "Bohemian Style Sheer Curtains",
			Description: "Light and airy sheer curtains with a beautiful bohemian pattern. Perfect for living rooms to allow natural light while adding a decorative touch.",
			PriceMinor:  2500,
			ImageURL:    "https://picsum.photos/seed/curtain2/600/600",
			Category:    domain.CategoryCurtains,
		},
		{
			ID:          "4",
			Name:        "Silk Comforter Duvet Insert",
			Description: "Hypoallergenic and breathable silk comforter. Regulates temperature for comfortable sleep all year round.",
			PriceMinor:  12000,
			ImageURL:    "https://picsum.photos/seed/bedding2/600/600",
			Category:    domain.CategoryBeddings,
		},
		{
			ID:          "5",
			Name:        "Linen Blend Curtains",
			Description: "A beautiful blend of linen and cotton for a rustic yet sophisticated look. Drapes beautifully and offers moderate light filtering.",
			PriceMinor:  3800,
			ImageURL:    "https://picsum.photos/seed/curtain3/600/600",
			Category:    domain.CategoryCurtains,
		},
		{
			ID:          "6",
			Name:        "Microfiber Quilted Bedspread",
			Description: "Soft and durable microfiber bedspread with a classic quilted pattern. Lightweight and perfect for layering.",
			PriceMinor:  5500,
			ImageURL:    "https://picsum.photos/seed/bedding3/600/600",
			Category:    domain.CategoryBeddings,
		},
	}
}
