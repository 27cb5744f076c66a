package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{
		productService: productService,
	}
}

// @Summary list products
// @Tags products
// @Produce json
// @Param category query string false "category"
// @Param search query string false "search in title and description"
// @Param min_price query number false "min price"
// @Param max_price query number false "max price"
// @Param rating query number false "min rating"
// @Param sort query string false "price/rating/created_at"
// @Param order query string false "asc/desc"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} api.Response{data=[]dto.ProductDTO} "success"
// @Router /products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	//一般買家只看得到上架商品
	filter.ApprovedOnly = roleFromContext(r) != constants.RoleAdmin

	products, total, err := h.productService.ListProducts(r.Context(), filter)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, product := range products {
		out = append(out, convertProductToDTO(&product))
	}

	api.SuccessJSON(w, out, api.PageMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// @Summary get product detail with reviews
// @Tags products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} api.Response{data=dto.ProductDetailDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFoundCode"
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	includeUnapproved := roleFromContext(r) == constants.RoleAdmin
	product, err := h.productService.GetProduct(r.Context(), id, includeUnapproved)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertProductDetailToDTO(product), nil)
}

// @Summary create product
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Router /products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateProductDTO
	if err := decodeJSON(r, &createDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), service.CreateProductInput{
		Title:         createDTO.Title,
		Description:   createDTO.Description,
		ImageURL:      createDTO.ImageURL,
		Price:         createDTO.Price,
		OriginalPrice: createDTO.OriginalPrice,
		Stock:         createDTO.Stock,
		Category:      createDTO.Category,
		IsApproved:    createDTO.IsApproved,
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.CreatedJSON(w, convertProductToDTO(product))
}

// @Summary update product
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var updateDTO dto.UpdateProductDTO
	if err := decodeJSON(r, &updateDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		Title:         updateDTO.Title,
		Description:   updateDTO.Description,
		ImageURL:      updateDTO.ImageURL,
		Price:         updateDTO.Price,
		OriginalPrice: updateDTO.OriginalPrice,
		Stock:         updateDTO.Stock,
		Category:      updateDTO.Category,
		IsApproved:    updateDTO.IsApproved,
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertProductToDTO(product), nil)
}

// @Summary delete product
// @Tags admin
// @Security ApiKeyAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

func roleFromContext(r *http.Request) constants.RoleEnum {
	if v, ok := r.Context().Value(constants.AuthorizationRoleKey).(constants.RoleEnum); ok {
		return v
	}
	return constants.RoleUser
}

func parseProductFilter(r *http.Request) (db.ProductFilter, error) {
	q := r.URL.Query()
	filter := db.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sort"),
		Page:     constants.DefaultPaging,
		PageSize: constants.DefaultPagingSize,
	}

	if raw := q.Get("order"); raw != "" {
		if !constants.IsValidSortOrderEnum(raw) {
			return filter, er.New(er.BadRequestCode, "order must be asc or desc")
		}
		filter.SortOrder = constants.SortOrderEnum(raw)
	}

	for name, dst := range map[string]**decimal.Decimal{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
		"rating":    &filter.MinRating,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, er.New(er.BadRequestCode, "invalid "+name)
		}
		*dst = &d
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, er.New(er.BadRequestCode, "invalid page")
		}
		filter.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			return filter, er.New(er.BadRequestCode, "invalid limit")
		}
		if pageSize > constants.MaxPagingSize {
			pageSize = constants.MaxPagingSize
		}
		filter.PageSize = pageSize
	}

	return filter, nil
}

func convertProductToDTO(product *model.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:                 product.ProductID,
		Title:              product.Title,
		Description:        product.Description,
		ImageURL:           product.ImageURL,
		Price:              product.Price,
		OriginalPrice:      product.OriginalPrice,
		DiscountPercentage: product.DiscountPercentage,
		Stock:              product.Stock,
		Category:           product.Category,
		Rating:             product.Rating,
		ReviewsCount:       product.ReviewsCount,
		IsApproved:         product.IsApproved,
		CreatedAt:          product.CreatedAt,
	}
}

func convertProductDetailToDTO(product *model.Product) dto.ProductDetailDTO {
	reviews := make([]dto.ReviewDTO, 0, len(product.Reviews))
	for _, review := range product.Reviews {
		reviews = append(reviews, convertReviewToDTO(&review))
	}
	return dto.ProductDetailDTO{
		ProductDTO: convertProductToDTO(product),
		Reviews:    reviews,
	}
}
