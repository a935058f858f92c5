package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingID(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}

	for i := 0; i < 500; i++ {
		id, err := NewTrackingID()
		require.NoError(t, err)
		assert.True(t, IsValidTrackingID(id), "generated ID %q must satisfy its own format gate", id)
		assert.False(t, seen[id], "generated ID %q repeated", id)
		seen[id] = true
	}
}

func TestIsValidTrackingID(t *testing.T) {
	t.Parallel()

	valid := []string{
		"RPT-ABCD1234",
		"RPT-00000000",
		"RPT-ZZZZZZZZ",
		"RPT-A1B2C3D4",
	}

	for _, id := range valid {
		assert.True(t, IsValidTrackingID(id), "expected %q to be valid", id)
	}

	invalid := []string{
		"",
		"RPT-",
		"RPT-ABC123",
		"RPT-ABCD12345",
		"rpt-abcd1234",
		"RPT-abcd1234",
		"RPT-ABCD123!",
		"RPT-ABCD 234",
		"XYZ-ABCD1234",
		"RPT-ABCD1234 extra",
		" RPT-ABCD1234",
		"RPT–ABCD1234",
	}

	for _, id := range invalid {
		assert.False(t, IsValidTrackingID(id), "expected %q to be invalid", id)
	}
}

func TestNormalizeTrackingID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RPT-AB12CD34", NormalizeTrackingID("rpt-ab12cd34"))
	assert.Equal(t, "RPT-AB12CD34", NormalizeTrackingID("  RPT-AB12CD34\n"))
	assert.Equal(t, "RPT-AB12CD34", NormalizeTrackingID("\trpt-Ab12Cd34 "))
	assert.Empty(t, NormalizeTrackingID("   "))
}

func TestTrackingSearchPattern(t *testing.T) {
	t.Parallel()

	// Suffix and infix fragments must match stored tokens, which all begin
	// with the RPT- prefix.
	assert.Equal(t, "%AB12%", TrackingSearchPattern("ab12"))
	assert.Equal(t, "%B12CD%", TrackingSearchPattern("B12CD"))
	assert.Equal(t, "%RPT-AB12CD34%", TrackingSearchPattern(" rpt-ab12cd34 "))

	assert.Equal(t, `%50\%%`, TrackingSearchPattern("50%"))
	assert.Equal(t, `%A\_B%`, TrackingSearchPattern("a_b"))
	assert.Equal(t, `%A\\B%`, TrackingSearchPattern(`a\b`))
}

func TestNormalizedInputPassesGate(t *testing.T) {
	t.Parallel()

	id, err := NewTrackingID()
	require.NoError(t, err)

	lowered := " " + strings.ToLower(id) + " "
	assert.False(t, IsValidTrackingID(lowered))
	assert.True(t, IsValidTrackingID(NormalizeTrackingID(lowered)))
}
