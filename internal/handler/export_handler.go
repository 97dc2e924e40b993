package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/metrics"
	"github.com/anyulbade/marketplace-pricer/internal/middleware"
	"github.com/anyulbade/marketplace-pricer/internal/model"
	"github.com/anyulbade/marketplace-pricer/internal/service"
)

const csvFileName = "precificacao_produtos.csv"

type ExportHandler struct {
	products *service.ProductService
	export   *service.ExportService
}

func NewExportHandler(products *service.ProductService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{products: products, export: export}
}

func (h *ExportHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "html" && format != "json" {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "format must be one of csv, html, json",
		})
		return
	}

	products, err := h.products.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := h.export.WriteCSV(&buf, products); err != nil {
			_ = c.Error(err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+csvFileName+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())

	case "html":
		html, err := h.export.RenderHTML(products, h.products.Summarize(products))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)

	case "json":
		c.JSON(http.StatusOK, gin.H{
			"data":    products,
			"summary": h.products.Summarize(products),
		})
	}

	metrics.ExportsTotal.WithLabelValues(format).Inc()
}
