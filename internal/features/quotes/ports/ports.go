package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// FxRateProvider supplies exchange rates for quote normalization.
type FxRateProvider interface {
	// Rate returns how many units of the foreign currency one unit of the
	// base currency buys. Implementations should fail rather than guess;
	// callers degrade to treating amounts as base currency.
	Rate(ctx context.Context, base, foreign string) (decimal.Decimal, error)
}
