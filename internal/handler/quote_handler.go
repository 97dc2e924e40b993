package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/service"
)

type QuoteHandler struct {
	svc *service.QuoteService
}

func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	quote, err := h.svc.Quote(req.Form())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	quotes, validationErrors, err := h.svc.QuoteBatch(c.Request.Context(), req.Forms())
	if err != nil {
		_ = c.Error(err)
		return
	}

	if len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "batch validation failed",
			Errors: validationErrors,
		})
		return
	}

	c.JSON(http.StatusOK, dto.BatchQuoteResponse{
		Count:  len(quotes),
		Quotes: quotes,
	})
}
