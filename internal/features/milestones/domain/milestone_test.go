package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSequenceFor_AllFiveChainsExist verifies sequence lengths and dense ids.
func TestSequenceFor_AllFiveChainsExist(t *testing.T) {
	cases := []struct {
		mode      TransportMode
		direction Direction
		length    int
	}{
		{ModeAir, DirectionExport, 10},
		{ModeAir, DirectionImport, 9},
		{ModeSea, DirectionExport, 8},
		{ModeSea, DirectionImport, 11},
		{ModeTruck, DirectionExport, 4},
		{ModeTruck, DirectionImport, 4},
	}

	for _, tc := range cases {
		seq, err := SequenceFor(tc.mode, tc.direction)
		require.NoError(t, err, "%s/%s", tc.mode, tc.direction)
		assert.Equal(t, tc.length, seq.MaxID(), "%s/%s", tc.mode, tc.direction)

		for i, def := range seq.Milestones {
			assert.Equal(t, i+1, def.ID, "%s/%s ids must be dense from 1", tc.mode, tc.direction)
			assert.NotEmpty(t, def.Text)
		}
	}
}

// TestSequenceFor_UnknownCombination verifies the error for unmapped pairs.
func TestSequenceFor_UnknownCombination(t *testing.T) {
	_, err := SequenceFor("rail", DirectionExport)
	assert.ErrorIs(t, err, ErrUnknownSequence)
}

// TestSequence_StatusMapping verifies each chain reaches delivered at its own
// terminal id, not at a universal threshold.
func TestSequence_StatusMapping(t *testing.T) {
	airExport, err := SequenceFor(ModeAir, DirectionExport)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, airExport.StatusFor(1))
	assert.Equal(t, StatusBooked, airExport.StatusFor(2))
	assert.Equal(t, StatusPickedUp, airExport.StatusFor(3))
	assert.Equal(t, StatusInTransit, airExport.StatusFor(7))
	assert.Equal(t, StatusOutForDelivery, airExport.StatusFor(9))
	assert.Equal(t, StatusDelivered, airExport.StatusFor(10))

	truck, err := SequenceFor(ModeTruck, DirectionExport)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, truck.StatusFor(1))
	assert.Equal(t, StatusPickedUp, truck.StatusFor(2))
	assert.Equal(t, StatusInTransit, truck.StatusFor(3))
	assert.Equal(t, StatusDelivered, truck.StatusFor(4))

	seaImport, err := SequenceFor(ModeSea, DirectionImport)
	require.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, seaImport.StatusFor(10))
	assert.Equal(t, StatusDelivered, seaImport.StatusFor(11))
}

// TestSequence_RenderedText verifies the Unknown fallback for undefined ids.
func TestSequence_RenderedText(t *testing.T) {
	seq, err := SequenceFor(ModeTruck, DirectionImport)
	require.NoError(t, err)

	assert.Equal(t, "Picked up at shipper", seq.RenderedText(2))
	assert.Equal(t, "Unknown", seq.RenderedText(99))
	assert.Equal(t, "Unknown", seq.RenderedText(0))
}
