package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type MarketingHandler struct {
	marketingService service.IMarketingService
}

func NewMarketingHandler(marketingService service.IMarketingService) *MarketingHandler {
	if marketingService == nil {
		panic("marketingService cannot be nil")
	}
	return &MarketingHandler{
		marketingService: marketingService,
	}
}

// @Summary generate product copy via LLM
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Router /admin/products/{id}/generate-copy [post]
func (h *MarketingHandler) GenerateCopy(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	productCopy, err := h.marketingService.GenerateCopy(r.Context(), productID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, productCopy, nil)
}

// @Summary score product for approval via LLM
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Router /admin/products/{id}/approval-score [post]
func (h *MarketingHandler) ScoreProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	score, err := h.marketingService.ScoreProduct(r.Context(), productID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, score, nil)
}

// @Summary import product from supplier catalog
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Router /admin/supplier/import/{listingID} [post]
func (h *MarketingHandler) ImportListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")

	product, err := h.marketingService.ImportListing(r.Context(), listingID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.CreatedJSON(w, convertProductToDTO(product))
}

// @Summary create ad campaign for a product
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Router /admin/products/{id}/ad-campaign [post]
func (h *MarketingHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var campaignDTO dto.CreateCampaignDTO
	if err := decodeJSON(r, &campaignDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	campaign, err := h.marketingService.CreateCampaign(r.Context(), productID, campaignDTO.Budget)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.CreatedJSON(w, campaign)
}
