package service

import (
	"regexp"
	"strings"

	"freight-desk/internal/features/quotes/domain"

	"github.com/shopspring/decimal"
)

// Extractor performs a best-effort extraction of categorized cost items from
// unstructured quote text. It never fails; unmatched or malformed text simply
// yields no items.
type Extractor struct {
	baseCurrency string
	patterns     []Pattern
}

// NewExtractor creates an Extractor normalizing to the given base currency.
func NewExtractor(baseCurrency string) *Extractor {
	return &Extractor{
		baseCurrency: baseCurrency,
		patterns:     DefaultPatterns,
	}
}

// Extract runs the pattern table over the text. weightKg, when positive,
// turns per-kg rates into absolute costs. exchangeRate converts foreign
// currency amounts into the base currency by division; a zero or negative
// rate means amounts are taken as already being in the base currency.
func (e *Extractor) Extract(text string, weightKg float64, exchangeRate decimal.Decimal) domain.ExtractionResult {
	headers := optionHeaderRe.FindAllStringSubmatchIndex(text, -1)

	// Competing named options must stay separate, so with two or more
	// headers each block is extracted on its own.
	if len(headers) < 2 {
		items, totals := e.extractBlock(text, weightKg, exchangeRate)
		return domain.ExtractionResult{Items: items, Totals: totals}
	}

	result := domain.ExtractionResult{}
	result.Items, result.Totals = e.extractBlock(text[:headers[0][0]], weightKg, exchangeRate)

	for i, header := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}

		items, totals := e.extractBlock(text[header[1]:end], weightKg, exchangeRate)
		result.Options = append(result.Options, domain.OptionGroup{
			Name:   optionName(text, header),
			Items:  items,
			Totals: totals,
		})
	}

	return result
}

// extractBlock runs the pattern table line by line over one text block.
// The first pattern matching a line claims it.
func (e *Extractor) extractBlock(block string, weightKg float64, exchangeRate decimal.Decimal) ([]domain.ExtractedCostItem, domain.LegTotals) {
	var items []domain.ExtractedCostItem
	totals := domain.LegTotals{}

	for _, line := range strings.Split(block, "\n") {
		for _, pattern := range e.patterns {
			match := pattern.Re.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			item, ok := e.buildItem(pattern, match, weightKg, exchangeRate)
			if !ok {
				break
			}

			items = append(items, item)
			if item.Unit == "" {
				totals[item.Leg] = totals[item.Leg].Add(item.AmountConverted)
			}
			break
		}
	}

	return items, totals
}

// buildItem normalizes one regex match into a cost item: amount parsing,
// currency conversion and per-kg absolutization share this single step for
// all patterns.
func (e *Extractor) buildItem(pattern Pattern, match []string, weightKg float64, exchangeRate decimal.Decimal) (domain.ExtractedCostItem, bool) {
	amount, err := parseAmount(match[2])
	if err != nil {
		return domain.ExtractedCostItem{}, false
	}

	currency := currencyOf(match[1], match[3], e.baseCurrency)

	converted := amount
	if currency != e.baseCurrency && exchangeRate.IsPositive() {
		converted = amount.Div(exchangeRate)
	}

	unit := pattern.Unit
	if unit == "" {
		unit = unitOf(match[4])
	}

	if unit == domain.UnitPerKg && weightKg > 0 {
		converted = converted.Mul(decimal.NewFromFloat(weightKg))
		unit = ""
	}

	return domain.ExtractedCostItem{
		RawMatch:         strings.TrimSpace(match[0]),
		Label:            pattern.Label,
		AmountOriginal:   amount,
		CurrencyOriginal: currency,
		AmountConverted:  converted.Round(2),
		Unit:             unit,
		Leg:              pattern.Leg,
	}, true
}

// parseAmount parses a written amount, stripping thousands separators.
// Both "1,234.56" and "1.234,56" styles are handled.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimRight(raw, ".,")

	lastComma := strings.LastIndex(raw, ",")
	lastDot := strings.LastIndex(raw, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The later separator is the decimal mark.
		if lastDot > lastComma {
			raw = strings.ReplaceAll(raw, ",", "")
		} else {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		}
	case lastComma >= 0:
		// A comma followed by one or two digits is a decimal mark,
		// otherwise a thousands separator.
		if len(raw)-lastComma-1 <= 2 {
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case lastDot >= 0:
		// Dots forming exact three-digit groups are thousands separators.
		if thousandsGrouped.MatchString(raw) {
			raw = strings.ReplaceAll(raw, ".", "")
		}
	}

	return decimal.NewFromString(raw)
}

// thousandsGrouped matches numbers like "1.000" or "12.345.678" where dots
// separate exact three-digit groups.
var thousandsGrouped = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)

// optionName extracts the captured option name from a header match.
func optionName(text string, header []int) string {
	for _, group := range []int{2, 4} {
		if header[group] >= 0 {
			return strings.TrimSpace(text[header[group]:header[group+1]])
		}
	}
	return "option"
}

// currencyOf maps a matched currency marker to its ISO code, defaulting to
// the base currency when no marker was written.
func currencyOf(prefix, suffix, base string) string {
	marker := prefix
	if marker == "" {
		marker = suffix
	}

	switch marker {
	case "$", "USD":
		return "USD"
	case "€", "EUR":
		return "EUR"
	case "£", "GBP":
		return "GBP"
	default:
		return base
	}
}

// unitOf maps a matched rate-unit suffix to its Unit.
func unitOf(suffix string) domain.Unit {
	switch strings.ToLower(suffix) {
	case "kg":
		return domain.UnitPerKg
	case "hr", "hrs", "hour", "hours":
		return domain.UnitPerHour
	default:
		return ""
	}
}
