package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/middleware"
	"github.com/anyulbade/marketplace-pricer/internal/model"
	"github.com/anyulbade/marketplace-pricer/internal/service"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	product, err := h.svc.Add(c.Request.Context(), middleware.SessionID(c), req.Form())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// List returns one page of the session's products. The summary always
// covers the whole list.
func (h *ProductHandler) List(c *gin.Context) {
	params := dto.ParsePagination(c)

	products, err := h.svc.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	start, end := params.Window(len(products))
	page := products[start:end]
	if page == nil {
		page = []model.Product{}
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Data:       page,
		Summary:    h.svc.Summarize(products),
		Pagination: dto.NewPagination(params.Page, params.PageSize, len(products)),
	})
}

func (h *ProductHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
