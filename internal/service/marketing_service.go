package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/infra/integrations"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
)

type IMarketingService interface {
	GenerateCopy(ctx context.Context, productID uint) (integrations.ProductCopy, error)
	ScoreProduct(ctx context.Context, productID uint) (integrations.ApprovalScore, error)
	ImportListing(ctx context.Context, listingID string) (*model.Product, error)
	CreateCampaign(ctx context.Context, productID uint, budget float64) (integrations.Campaign, error)
}

// MarketingService admin後台的對外整合 文案/審核評分/供應商匯入/廣告
type MarketingService struct {
	productRepo db.IProductRepository
	copywriter  integrations.Copywriter
	supplier    integrations.SupplierCatalog
	ads         integrations.AdsPlatform
}

func NewMarketingService(
	productRepo db.IProductRepository,
	copywriter integrations.Copywriter,
	supplier integrations.SupplierCatalog,
	ads integrations.AdsPlatform,
) *MarketingService {
	return &MarketingService{
		productRepo: productRepo,
		copywriter:  copywriter,
		supplier:    supplier,
		ads:         ads,
	}
}

func (s *MarketingService) brief(ctx context.Context, productID uint) (integrations.ProductBrief, error) {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return integrations.ProductBrief{}, mapDbErr(err, "product not found")
	}
	return integrations.ProductBrief{
		Title:       product.Title,
		Category:    product.Category,
		Description: product.Description,
	}, nil
}

func (s *MarketingService) GenerateCopy(ctx context.Context, productID uint) (integrations.ProductCopy, error) {
	brief, err := s.brief(ctx, productID)
	if err != nil {
		return integrations.ProductCopy{}, err
	}
	productCopy, err := s.copywriter.GenerateCopy(ctx, brief)
	if err != nil {
		return integrations.ProductCopy{}, er.Wrap(er.UpstreamErrorCode, "copy generation failed", err)
	}
	return productCopy, nil
}

func (s *MarketingService) ScoreProduct(ctx context.Context, productID uint) (integrations.ApprovalScore, error) {
	brief, err := s.brief(ctx, productID)
	if err != nil {
		return integrations.ApprovalScore{}, err
	}
	score, err := s.copywriter.ScoreProduct(ctx, brief)
	if err != nil {
		return integrations.ApprovalScore{}, er.Wrap(er.UpstreamErrorCode, "product scoring failed", err)
	}
	return score, nil
}

// ImportListing 從供應商目錄匯入商品 一律未上架 等admin審核
func (s *MarketingService) ImportListing(ctx context.Context, listingID string) (*model.Product, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, er.New(er.BadRequestCode, "listing id is required")
	}
	listing, err := s.supplier.ImportListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, integrations.ErrListingNotFound) {
			return nil, er.New(er.NotFoundCode, "supplier listing not found: "+listingID)
		}
		return nil, er.Wrap(er.UpstreamErrorCode, "supplier catalog unavailable", err)
	}

	product := &model.Product{
		Title:       listing.Title,
		Description: listing.Description,
		ImageURL:    listing.ImageURL,
		Price:       listing.Price,
		Stock:       listing.Stock,
		Category:    listing.Category,
		IsApproved:  false,
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, mapDbErr(err, "")
	}
	return product, nil
}

func (s *MarketingService) CreateCampaign(ctx context.Context, productID uint, budget float64) (integrations.Campaign, error) {
	if budget <= 0 {
		return integrations.Campaign{}, er.New(er.BadRequestCode, "campaign budget must be positive")
	}
	brief, err := s.brief(ctx, productID)
	if err != nil {
		return integrations.Campaign{}, err
	}
	campaign, err := s.ads.GenerateCampaign(ctx, brief)
	if err != nil {
		return integrations.Campaign{}, er.Wrap(er.UpstreamErrorCode, "ads platform unavailable", err)
	}
	campaign.Budget = budget
	return campaign, nil
}
