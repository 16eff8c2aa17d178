package service

import (
	"context"
	"errors"
	"testing"

	"freight-desk/internal/features/tariffs/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockZoneRuleRepository is a mock implementation of ZoneRuleRepository for testing.
type mockZoneRuleRepository struct {
	rules       []domain.ZoneRule
	returnError error
}

// FindByPartnerAndPrefixes implements ZoneRuleRepository.
func (m *mockZoneRuleRepository) FindByPartnerAndPrefixes(ctx context.Context, partnerID string, prefixes ...string) ([]domain.ZoneRule, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}

	var matches []domain.ZoneRule
	for _, rule := range m.rules {
		if rule.PartnerID != partnerID {
			continue
		}
		for _, prefix := range prefixes {
			if rule.PostalPrefix == prefix {
				matches = append(matches, rule)
			}
		}
	}
	return matches, nil
}

// Save implements ZoneRuleRepository.
func (m *mockZoneRuleRepository) Save(ctx context.Context, rule domain.ZoneRule) error {
	m.rules = append(m.rules, rule)
	return nil
}

// TestZoneResolver_PrefersLongerPrefix verifies that a 3-digit match wins over a 2-digit one.
func TestZoneResolver_PrefersLongerPrefix(t *testing.T) {
	repo := &mockZoneRuleRepository{
		rules: []domain.ZoneRule{
			{PartnerID: "P1", PostalPrefix: "97", ZoneCode: "ZONE3"},
			{PartnerID: "P1", PostalPrefix: "975", ZoneCode: "ZONE5"},
		},
	}

	resolver := NewZoneResolver(repo)

	zone := resolver.Resolve(context.Background(), "P1", "97540")

	assert.Equal(t, "ZONE5", zone)
}

// TestZoneResolver_TwoDigitFallback verifies the 2-digit match applies when no 3-digit rule exists.
func TestZoneResolver_TwoDigitFallback(t *testing.T) {
	repo := &mockZoneRuleRepository{
		rules: []domain.ZoneRule{
			{PartnerID: "P1", PostalPrefix: "97", ZoneCode: "ZONE3"},
		},
	}

	resolver := NewZoneResolver(repo)

	zone := resolver.Resolve(context.Background(), "P1", "97111")

	assert.Equal(t, "ZONE3", zone)
}

// TestZoneResolver_NoMatchReturnsDefault verifies the default zone for unmapped postal codes.
func TestZoneResolver_NoMatchReturnsDefault(t *testing.T) {
	repo := &mockZoneRuleRepository{
		rules: []domain.ZoneRule{
			{PartnerID: "P1", PostalPrefix: "975", ZoneCode: "ZONE5"},
		},
	}

	resolver := NewZoneResolver(repo)

	assert.Equal(t, domain.DefaultZone, resolver.Resolve(context.Background(), "P1", "12345"))
	assert.Equal(t, domain.DefaultZone, resolver.Resolve(context.Background(), "P2", "97540"))
}

// TestZoneResolver_ShortPostalCode verifies behavior for codes shorter than a prefix.
func TestZoneResolver_ShortPostalCode(t *testing.T) {
	repo := &mockZoneRuleRepository{
		rules: []domain.ZoneRule{
			{PartnerID: "P1", PostalPrefix: "97", ZoneCode: "ZONE3"},
		},
	}

	resolver := NewZoneResolver(repo)

	assert.Equal(t, "ZONE3", resolver.Resolve(context.Background(), "P1", "97"))
	assert.Equal(t, domain.DefaultZone, resolver.Resolve(context.Background(), "P1", "9"))
	assert.Equal(t, domain.DefaultZone, resolver.Resolve(context.Background(), "P1", ""))
}

// TestZoneResolver_LookupErrorReturnsDefault verifies that repository failures degrade to the default zone.
func TestZoneResolver_LookupErrorReturnsDefault(t *testing.T) {
	repo := &mockZoneRuleRepository{
		returnError: errors.New("db unreachable"),
	}

	resolver := NewZoneResolver(repo)

	zone := resolver.Resolve(context.Background(), "P1", "97540")

	require.Equal(t, domain.DefaultZone, zone)
}
