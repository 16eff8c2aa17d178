package service

import (
	"regexp"

	"freight-desk/internal/features/quotes/domain"
)

// amountFragment recognizes an amount with an optional currency marker before
// or after the number and an optional rate-unit suffix. Capture groups:
// 1 currency prefix, 2 number, 3 currency suffix, 4 rate unit.
const amountFragment = `(?:(USD|EUR|GBP|\$|€|£)\s*)?(\d[\d.,]*)(?:\s*(USD|EUR|GBP|\$|€|£))?(?:\s*(?:/|per\s*)(kg|hrs?|hours?))?`

// Pattern is one labeled extraction rule. Patterns are evaluated in table
// order against each line; the first match claims the line. Unit pins the
// rate unit; when empty the unit is taken from the matched suffix.
type Pattern struct {
	Label string
	Leg   domain.Leg
	Unit  domain.Unit
	Re    *regexp.Regexp
}

// costPattern builds a line pattern from quote keywords followed by an
// amount. The filler between keyword and amount is lazy so currency markers
// are captured by the amount fragment instead of being swallowed.
func costPattern(keywords string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + keywords + `)[^\d\n]*?` + amountFragment)
}

// DefaultPatterns is the extraction table. Mainrun per-kg rates come before
// the absolute mainrun pattern so a "/kg" suffix is not swallowed as a flat
// price. Keywords cover the German and English phrasing seen in partner
// quotes.
var DefaultPatterns = []Pattern{
	{
		Label: "mainrun_per_kg",
		Leg:   domain.LegMainrun,
		Unit:  domain.UnitPerKg,
		Re: regexp.MustCompile(`(?i)(?:air\s?freight|airfreight|ocean\s?freight|sea\s?freight|main\s?run|luftfracht|seefracht|freight\s+rate)[^\d\n]*?` +
			`(?:(USD|EUR|GBP|\$|€|£)\s*)?(\d[\d.,]*)(?:\s*(USD|EUR|GBP|\$|€|£))?\s*(?:/|per\s*)(kg)`),
	},
	{
		Label: "pickup",
		Leg:   domain.LegPickup,
		Re:    costPattern(`pick[\s-]?up|collection|cartage|trucking|drayage|pre[\s-]?carriage|abholung|vorlauf`),
	},
	{
		Label: "mainrun",
		Leg:   domain.LegMainrun,
		Re:    costPattern(`air\s?freight|airfreight|ocean\s?freight|sea\s?freight|main\s?run|luftfracht|seefracht|freight`),
	},
	{
		Label: "fuel_surcharge",
		Leg:   domain.LegMainrun,
		Re:    costPattern(`fuel(?:\s+surcharge)?|fsc|treibstoffzuschlag`),
	},
	{
		Label: "delivery",
		Leg:   domain.LegDelivery,
		Re:    costPattern(`customs(?:\s+clearance)?|clearance|import\s+dut(?:y|ies)|delivery|on[\s-]?carriage|last\s?mile|verzollung|zustellung|nachlauf`),
	},
	{
		Label: "handling",
		Leg:   domain.LegUnassigned,
		Re:    costPattern(`handling|doc(?:umentation)?\s?fee|awb\s?fee|security|x[\s-]?ray`),
	},
	{
		Label: "all_in",
		Leg:   domain.LegUnassigned,
		Re:    costPattern(`all[\s-]?in|pauschal|lump\s?sum`),
	},
}

// optionHeaderRe recognizes named option headers such as "Denver Option" or
// "Option B". Two or more headers switch extraction to per-option grouping.
var optionHeaderRe = regexp.MustCompile(`(?im)^[ \t]*(?:([A-Z][A-Za-z ]*?)[ \t]+Option|Option[ \t]+([A-Za-z0-9]+))[ \t]*:?[ \t]*$`)
