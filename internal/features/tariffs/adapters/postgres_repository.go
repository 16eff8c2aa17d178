package adapters

import (
	"context"
	"database/sql"
	"fmt"

	"freight-desk/internal/features/tariffs/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PostgresZoneRuleRepository implements ports.ZoneRuleRepository on Postgres.
type PostgresZoneRuleRepository struct {
	db *sql.DB
}

// NewPostgresZoneRuleRepository creates a Postgres-backed zone rule repository.
func NewPostgresZoneRuleRepository(db *sql.DB) *PostgresZoneRuleRepository {
	return &PostgresZoneRuleRepository{db: db}
}

// FindByPartnerAndPrefixes returns all rules for the partner matching any prefix.
func (r *PostgresZoneRuleRepository) FindByPartnerAndPrefixes(ctx context.Context, partnerID string, prefixes ...string) ([]domain.ZoneRule, error) {
	if len(prefixes) == 0 {
		return nil, nil
	}

	query := `
        SELECT partner_id, postal_prefix, zone_code
        FROM zone_rules
        WHERE partner_id = $1 AND postal_prefix = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, partnerID, pq.Array(prefixes))
	if err != nil {
		return nil, fmt.Errorf("failed to query zone rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.ZoneRule
	for rows.Next() {
		var rule domain.ZoneRule
		if err := rows.Scan(&rule.PartnerID, &rule.PostalPrefix, &rule.ZoneCode); err != nil {
			return nil, fmt.Errorf("failed to scan zone rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read zone rules: %w", err)
	}

	return rules, nil
}

// Save upserts a zone rule keyed by (partner, prefix).
func (r *PostgresZoneRuleRepository) Save(ctx context.Context, rule domain.ZoneRule) error {
	query := `
        INSERT INTO zone_rules (partner_id, postal_prefix, zone_code)
        VALUES ($1, $2, $3)
        ON CONFLICT (partner_id, postal_prefix) DO UPDATE SET zone_code = EXCLUDED.zone_code`

	if _, err := r.db.ExecContext(ctx, query, rule.PartnerID, rule.PostalPrefix, rule.ZoneCode); err != nil {
		return fmt.Errorf("failed to save zone rule: %w", err)
	}
	return nil
}

// PostgresRateBracketRepository implements ports.RateBracketRepository on Postgres.
type PostgresRateBracketRepository struct {
	db *sql.DB
}

// NewPostgresRateBracketRepository creates a Postgres-backed bracket repository.
func NewPostgresRateBracketRepository(db *sql.DB) *PostgresRateBracketRepository {
	return &PostgresRateBracketRepository{db: db}
}

// FindBrackets returns every bracket on the lane containing the given weight.
// The weight range is inclusive on both ends.
func (r *PostgresRateBracketRepository) FindBrackets(ctx context.Context, partnerID, zoneCode, airportCode string, weight float64) ([]domain.RateBracket, error) {
	query := `
        SELECT partner_id, zone_code, airport_code, weight_from, weight_to,
               base_price, surcharge_kind, surcharge_base,
               surcharge_included_units, surcharge_per_unit, surcharge_cap
        FROM rate_brackets
        WHERE partner_id = $1 AND zone_code = $2 AND airport_code = $3
          AND weight_from <= $4 AND weight_to >= $4`

	rows, err := r.db.QueryContext(ctx, query, partnerID, zoneCode, airportCode, weight)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate brackets: %w", err)
	}
	defer rows.Close()

	var brackets []domain.RateBracket
	for rows.Next() {
		bracket, err := scanBracket(rows)
		if err != nil {
			return nil, err
		}
		brackets = append(brackets, bracket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rate brackets: %w", err)
	}

	return brackets, nil
}

// Save inserts a bracket after validating it and rejecting overlaps on the
// lane. Overlap is enforced here at write time so reads can treat it as a
// data-integrity fault.
func (r *PostgresRateBracketRepository) Save(ctx context.Context, bracket domain.RateBracket) error {
	if err := bracket.Validate(); err != nil {
		return err
	}

	overlapQuery := `
        SELECT COUNT(*)
        FROM rate_brackets
        WHERE partner_id = $1 AND zone_code = $2 AND airport_code = $3
          AND weight_from <= $5 AND weight_to >= $4`

	var overlapping int
	err := r.db.QueryRowContext(ctx, overlapQuery,
		bracket.PartnerID, bracket.ZoneCode, bracket.AirportCode,
		bracket.WeightFrom, bracket.WeightTo,
	).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("failed to check bracket overlap: %w", err)
	}
	if overlapping > 0 {
		return fmt.Errorf("bracket [%f, %f] overlaps %d existing bracket(s) for partner %s, zone %s, airport %s",
			bracket.WeightFrom, bracket.WeightTo, overlapping,
			bracket.PartnerID, bracket.ZoneCode, bracket.AirportCode)
	}

	insertQuery := `
        INSERT INTO rate_brackets (partner_id, zone_code, airport_code, weight_from, weight_to,
                                   base_price, surcharge_kind, surcharge_base,
                                   surcharge_included_units, surcharge_per_unit, surcharge_cap)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, insertQuery,
		bracket.PartnerID, bracket.ZoneCode, bracket.AirportCode,
		bracket.WeightFrom, bracket.WeightTo,
		bracket.BasePrice.String(), string(bracket.SurchargeKind), bracket.SurchargeBase.String(),
		bracket.SurchargeIncludedUnits, bracket.SurchargePerUnit.String(), bracket.SurchargeCap.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert rate bracket: %w", err)
	}
	return nil
}

// scanBracket maps one result row to a domain.RateBracket.
func scanBracket(rows *sql.Rows) (domain.RateBracket, error) {
	var bracket domain.RateBracket
	var basePrice, surchargeBase, surchargePerUnit, surchargeCap string
	var kind string

	err := rows.Scan(
		&bracket.PartnerID, &bracket.ZoneCode, &bracket.AirportCode,
		&bracket.WeightFrom, &bracket.WeightTo,
		&basePrice, &kind, &surchargeBase,
		&bracket.SurchargeIncludedUnits, &surchargePerUnit, &surchargeCap,
	)
	if err != nil {
		return domain.RateBracket{}, fmt.Errorf("failed to scan rate bracket: %w", err)
	}

	bracket.SurchargeKind = domain.SurchargeKind(kind)

	if bracket.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return domain.RateBracket{}, fmt.Errorf("invalid base price %q: %w", basePrice, err)
	}
	if bracket.SurchargeBase, err = decimal.NewFromString(surchargeBase); err != nil {
		return domain.RateBracket{}, fmt.Errorf("invalid surcharge base %q: %w", surchargeBase, err)
	}
	if bracket.SurchargePerUnit, err = decimal.NewFromString(surchargePerUnit); err != nil {
		return domain.RateBracket{}, fmt.Errorf("invalid surcharge per unit %q: %w", surchargePerUnit, err)
	}
	if bracket.SurchargeCap, err = decimal.NewFromString(surchargeCap); err != nil {
		return domain.RateBracket{}, fmt.Errorf("invalid surcharge cap %q: %w", surchargeCap, err)
	}

	return bracket, nil
}
