package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/polly-storefront/api/responses"
	"github.com/angelmondragon/polly-storefront/api/validators"
	product "github.com/angelmondragon/polly-storefront/internal/products"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
)

const (
	maxSearchLen   = 120
	maxCategoryLen = 80
)

// ProductList serves the public storefront listing with search, category and sort.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		sort, err := enums.ParseProductSort(r.URL.Query().Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort"))
			return
		}

		result, err := svc.Browse(r.Context(), product.BrowseInput{
			Query:    validators.ParseQueryString(r, "q", maxSearchLen),
			Category: validators.ParseQueryString(r, "category", maxCategoryLen),
			Sort:     sort,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminProductList returns the products owned by the authenticated admin.
func AdminProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMine(r.Context(), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), adminID, payload.toCreateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), adminID, productID, payload.toUpdateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), adminID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

type createProductRequest struct {
	Name        string             `json:"name" validate:"required"`
	Description *string            `json:"description,omitempty"`
	Price       product.PriceInput `json:"price"`
	Category    string             `json:"category" validate:"required"`
	Stock       int                `json:"stock" validate:"gte=0"`
	Tags        product.TagsInput  `json:"tags,omitempty"`
	Images      []string           `json:"images,omitempty"`
}

func (r createProductRequest) toCreateInput() product.CreateProductInput {
	return product.CreateProductInput{
		Name:        r.Name,
		Description: trimOptional(r.Description),
		Price:       r.Price.Decimal,
		Category:    r.Category,
		Stock:       r.Stock,
		Tags:        []string(r.Tags),
		Images:      r.Images,
	}
}

type updateProductRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Price       *product.PriceInput `json:"price,omitempty"`
	Category    *string             `json:"category,omitempty"`
	Stock       *int                `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Tags        *product.TagsInput  `json:"tags,omitempty"`
	Images      *[]string           `json:"images,omitempty"`
}

func (r updateProductRequest) toUpdateInput() product.UpdateProductInput {
	input := product.UpdateProductInput{
		Name:        r.Name,
		Description: trimOptional(r.Description),
		Category:    r.Category,
		Stock:       r.Stock,
		Images:      r.Images,
	}
	if r.Price != nil {
		price := r.Price.Decimal
		input.Price = &price
	}
	if r.Tags != nil {
		tags := []string(*r.Tags)
		input.Tags = &tags
	}
	return input
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
