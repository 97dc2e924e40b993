package handler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/middleware"
	"github.com/anyulbade/marketplace-pricer/internal/model"
)

func TestProductHandler_Lifecycle(t *testing.T) {
	router := setupRouter(t)
	session := uuid.NewString()

	t.Run("happy: append products", func(t *testing.T) {
		for _, name := range []string{"Mouse", "Keyboard", "Monitor"} {
			w := doJSON(router, "POST", "/api/v1/products", session, productBody(name))
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, session, w.Header().Get(middleware.SessionHeader))

			var p model.Product
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, name, p.Name)
			assert.Equal(t, 82.28, p.ChannelA.Price)
		}
	})

	t.Run("happy: list keeps order and totals", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products", session, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Mouse", resp.Data[0].Name)
		assert.Equal(t, "Monitor", resp.Data[2].Name)
		assert.Equal(t, 3, resp.Summary.Products)
		assert.Equal(t, 3, resp.Summary.ChannelAWins)
		assert.Equal(t, 150.0, resp.Summary.TotalCost)
		assert.Equal(t, 37.11, resp.Summary.TotalBestProfit)
		assert.Equal(t, 3, resp.Pagination.TotalItems)
	})

	t.Run("happy: pagination windows data, not totals", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products?page=2&page_size=2", session, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Monitor", resp.Data[0].Name)
		assert.Equal(t, 3, resp.Summary.Products)
		assert.Equal(t, 2, resp.Pagination.TotalPages)

		w = doJSON(router, "GET", "/api/v1/products?page=9", session, nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
		assert.NotNil(t, resp.Data)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products", uuid.NewString(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
		assert.Zero(t, resp.Summary.Products)
	})

	t.Run("bad: empty name", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/products", session, productBody("   "))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name")
	})

	t.Run("happy: clear", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/v1/products", session, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(router, "GET", "/api/v1/products", session, nil)
		var resp dto.ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
	})
}

func TestExportHandler(t *testing.T) {
	router := setupRouter(t)
	session := uuid.NewString()

	for _, name := range []string{"Mouse", "Cable, braided"} {
		w := doJSON(router, "POST", "/api/v1/products", session, productBody(name))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("csv by default", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products/export", session, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "precificacao_produtos.csv")

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Price Mercado Livre", records[0][3])
		assert.Equal(t, "Cable, braided", records[2][0])
		assert.Equal(t, "82.28", records[1][3])
		assert.Equal(t, "Mercado Livre", records[1][9])
	})

	t.Run("html report", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products/export?format=HTML", session, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Mouse")
		assert.Contains(t, w.Body.String(), "82.28")
	})

	t.Run("json", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products/export?format=json", session, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data    []model.Product `json:"data"`
			Summary dto.ListSummary `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, 2, resp.Summary.Products)
	})

	t.Run("empty list still exports a header", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products/export?format=csv", uuid.NewString(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("bad: unknown format", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/products/export?format=pdf", session, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSwagger(t *testing.T) {
	router := setupRouter(t)
	SetupSwagger(router)

	w := doJSON(router, "GET", "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/v1/products/export")

	w = doJSON(router, "GET", "/swagger/index.html", "", nil)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}
