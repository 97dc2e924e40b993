package dto

import (
	"strings"

	"github.com/anyulbade/marketplace-pricer/internal/model"
)

type ProductRequest struct {
	Name                string  `json:"name" binding:"max=200"`
	Category            string  `json:"category" binding:"required"`
	Cost                float64 `json:"cost" binding:"required,gt=0"`
	TargetMarginPercent float64 `json:"target_margin_percent" binding:"gte=0,lt=100"`
	TaxPercent          float64 `json:"tax_percent" binding:"gte=0,lt=100"`
	ShippingCost        float64 `json:"shipping_cost" binding:"gte=0"`
	ListingTier         string  `json:"listing_tier" binding:"omitempty,oneof=standard classic premium"`
	FreeShipping        bool    `json:"free_shipping_program"`
}

func (r ProductRequest) Form() model.ProductForm {
	return model.ProductForm{
		Name:                strings.TrimSpace(r.Name),
		Category:            strings.TrimSpace(r.Category),
		Cost:                r.Cost,
		TargetMarginPercent: r.TargetMarginPercent,
		TaxPercent:          r.TaxPercent,
		ShippingCost:        r.ShippingCost,
		ListingTier:         r.ListingTier,
		FreeShipping:        r.FreeShipping,
	}
}

type BatchQuoteRequest struct {
	Products []ProductRequest `json:"products" binding:"required,min=1,max=500,dive"`
}

func (r BatchQuoteRequest) Forms() []model.ProductForm {
	forms := make([]model.ProductForm, len(r.Products))
	for i, p := range r.Products {
		forms[i] = p.Form()
	}
	return forms
}
