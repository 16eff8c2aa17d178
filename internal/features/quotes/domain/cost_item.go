package domain

import "github.com/shopspring/decimal"

// Leg categorizes an extracted cost item by transport section.
type Leg string

const (
	LegPickup     Leg = "pickup"
	LegMainrun    Leg = "mainrun"
	LegDelivery   Leg = "delivery"
	LegUnassigned Leg = "unassigned"
)

// Unit is the rate unit of an extracted amount. Empty means an absolute cost.
type Unit string

const (
	UnitPerKg   Unit = "/kg"
	UnitPerHour Unit = "/hr"
)

// ExtractedCostItem is one cost line recognized in free text.
// It is produced transiently; the caller decides whether to commit the
// aggregated totals to a shipment record.
type ExtractedCostItem struct {
	// RawMatch is the text fragment the item was recognized in.
	RawMatch string `json:"raw_match"`
	// Label names the pattern that matched.
	Label string `json:"label"`
	// AmountOriginal is the amount as written, in its original currency.
	AmountOriginal decimal.Decimal `json:"amount_original"`
	// CurrencyOriginal is the currency the amount was written in.
	CurrencyOriginal string `json:"currency_original"`
	// AmountConverted is the amount in the base currency. For per-kg rates
	// with a known weight it is the absolute cost; otherwise the converted
	// rate.
	AmountConverted decimal.Decimal `json:"amount_converted"`
	// Unit is the remaining rate unit, empty once an absolute cost is known.
	Unit Unit `json:"unit,omitempty"`
	// Leg is the transport section the cost belongs to.
	Leg Leg `json:"leg"`
}

// LegTotals aggregates absolute converted amounts per leg.
type LegTotals map[Leg]decimal.Decimal

// OptionGroup holds the items extracted from one named quote option
// (e.g. "Denver Option"). Competing options are surfaced separately and
// never summed together.
type OptionGroup struct {
	Name   string              `json:"name"`
	Items  []ExtractedCostItem `json:"items"`
	Totals LegTotals           `json:"totals"`
}

// ExtractionResult is the outcome of one extraction pass. An empty result is
// the signal that manual entry is needed; it is never an error.
type ExtractionResult struct {
	Items   []ExtractedCostItem `json:"items"`
	Totals  LegTotals           `json:"totals"`
	Options []OptionGroup       `json:"options,omitempty"`
}
