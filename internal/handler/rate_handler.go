package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

type RateHandler struct {
	rates *ratetable.Table
}

func NewRateHandler(rates *ratetable.Table) *RateHandler {
	return &RateHandler{rates: rates}
}

func (h *RateHandler) GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RatesResponse{
		ChannelA:   h.rates.ChannelA,
		ChannelB:   h.rates.ChannelB,
		Categories: h.rates.CategoryNames(),
		Rates:      h.rates.Rates(),
	})
}
