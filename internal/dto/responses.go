package dto

import (
	"github.com/anyulbade/marketplace-pricer/internal/model"
	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

type BatchQuoteResponse struct {
	Count  int           `json:"count"`
	Quotes []model.Quote `json:"quotes"`
}

type ProductListResponse struct {
	Data       []model.Product `json:"data"`
	Summary    ListSummary     `json:"summary"`
	Pagination Pagination      `json:"pagination"`
}

// ListSummary totals a session's product list.
type ListSummary struct {
	Products          int     `json:"products"`
	ChannelALabel     string  `json:"channel_a_label"`
	ChannelBLabel     string  `json:"channel_b_label"`
	ChannelAWins      int     `json:"channel_a_wins"`
	ChannelBWins      int     `json:"channel_b_wins"`
	Infeasible        int     `json:"infeasible"`
	TotalCost         float64 `json:"total_cost"`
	TotalProfitA      float64 `json:"total_profit_a"`
	TotalProfitB      float64 `json:"total_profit_b"`
	TotalBestProfit   float64 `json:"total_best_profit"`
	AverageBestMargin float64 `json:"average_best_margin"`
}

type ValidationError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// RatesResponse is the reference table shown next to the form.
type RatesResponse struct {
	ChannelA   ratetable.ChannelRules `json:"channel_a"`
	ChannelB   ratetable.ChannelRules `json:"channel_b"`
	Categories []string               `json:"categories"`
	Rates      []ratetable.Rate       `json:"rates"`
}
