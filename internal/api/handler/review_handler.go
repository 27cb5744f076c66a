package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type ReviewHandler struct {
	reviewService service.IReviewService
}

func NewReviewHandler(reviewService service.IReviewService) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// @Summary list reviews of a product
// @Tags reviews
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} api.Response{data=[]dto.ReviewDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFoundCode"
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	reviews, err := h.reviewService.ListReviews(r.Context(), productID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	out := make([]dto.ReviewDTO, 0, len(reviews))
	for i := range reviews {
		out = append(out, convertReviewToDTO(&reviews[i]))
	}

	api.SuccessJSON(w, out, nil)
}

// @Summary add review to a product
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param review body dto.CreateReviewDTO true "rating 1-5 and comment"
// @Success 201 {object} api.Response{data=dto.ReviewDTO} "success"
// @Failure 400 {object} api.ResponseError "InvalidValueCode"
// @Security ApiKeyAuth
// @Router /products/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	productID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var createDTO dto.CreateReviewDTO
	if err := decodeJSON(r, &createDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	review, err := h.reviewService.AddReview(r.Context(), actor.UserID, productID, service.AddReviewInput{
		Rating:  createDTO.Rating,
		Comment: createDTO.Comment,
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.CreatedJSON(w, convertReviewToDTO(review))
}

func convertReviewToDTO(review *model.Review) dto.ReviewDTO {
	return dto.ReviewDTO{
		ID:               review.ReviewID,
		UserName:         review.User.Name,
		Rating:           review.Rating,
		Comment:          review.Comment,
		VerifiedPurchase: review.VerifiedPurchase,
		CreatedAt:        review.CreatedAt,
	}
}
