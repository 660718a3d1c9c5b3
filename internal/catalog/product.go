package catalog

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog record. Images, Colours, and Variants are
// persisted as JSON blobs and normalized back into structured form on every
// read.
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	StockLeft       int64            `json:"stock_left"`
	CompanyName     string           `json:"company_name"`
	PackingPrice    decimal.Decimal  `json:"packing_price"`
	ShippingPrice   decimal.Decimal  `json:"shipping_price"`
	Tax             decimal.Decimal  `json:"tax"`
	Images          []string         `json:"images"`
	Colours         any              `json:"colours"`
	Variants        any              `json:"variants"`
	Video           string           `json:"video,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// DecodeImages decodes a persisted images blob. An undecodable value yields
// an empty list rather than failing the read.
func DecodeImages(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal(raw, &images); err != nil {
		return []string{}
	}
	if images == nil { // a stored JSON null decodes without error
		return []string{}
	}
	return images
}

// DecodeMeta decodes a persisted colours/variants blob. An undecodable value
// yields an empty structure rather than failing the read.
func DecodeMeta(raw []byte) any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{}
	}
	if v == nil {
		return map[string]any{}
	}
	return v
}

// EncodeField encodes a structured field for persistence. A nil value is
// stored as NULL.
func EncodeField(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
