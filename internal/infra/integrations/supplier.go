package integrations

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SupplierCatalog 供應商目錄 目前只有stub實作 沒有真實協定
type SupplierCatalog interface {
	ImportListing(ctx context.Context, listingID string) (ListingData, error)
}

var ErrListingNotFound = fmt.Errorf("listing not found")

// StubSupplier 回傳固定資料 佔住介面形狀等真實串接
type StubSupplier struct {
	listings map[string]ListingData
}

func NewStubSupplier() *StubSupplier {
	return &StubSupplier{
		listings: map[string]ListingData{
			"SUP-1001": {
				ListingID:   "SUP-1001",
				Title:       "Wireless Earbuds Pro",
				Description: "Noise cancelling wireless earbuds with charging case.",
				ImageURL:    "https://cdn.example.com/sup-1001.jpg",
				Price:       decimal.NewFromFloat(59.90),
				Stock:       120,
				Category:    "electronics",
			},
			"SUP-1002": {
				ListingID:   "SUP-1002",
				Title:       "Stainless Travel Mug 500ml",
				Description: "Double walled vacuum mug, keeps drinks hot for 8 hours.",
				ImageURL:    "https://cdn.example.com/sup-1002.jpg",
				Price:       decimal.NewFromFloat(18.50),
				Stock:       300,
				Category:    "home",
			},
		},
	}
}

func (s *StubSupplier) ImportListing(ctx context.Context, listingID string) (ListingData, error) {
	listing, ok := s.listings[listingID]
	if !ok {
		return ListingData{}, fmt.Errorf("%w: %s", ErrListingNotFound, listingID)
	}
	return listing, nil
}
