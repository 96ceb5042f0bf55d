package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"iso date", "2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"brazilian date", "14/03/2025", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"iso datetime", "2025-03-14T09:30:00", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), true},
		{"rfc3339", "2025-03-14T09:30:00Z", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"us-style ambiguous", "03-14-2025", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDateCustomLayouts(t *testing.T) {
	got, ok := ParseDate("2025.03.14", "2006.01.02")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got)

	// Custom layouts replace the defaults entirely.
	_, ok = ParseDate("2025-03-14", "2006.01.02")
	assert.False(t, ok)
}

func TestDateOrNowFallsBack(t *testing.T) {
	before := time.Now().UTC()
	got := DateOrNow("unparseable")
	after := time.Now().UTC()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestEpochMillis(t *testing.T) {
	got := EpochMillis(1735689600000)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestContentIDDeterministic(t *testing.T) {
	a := ContentID("ANM", "Nova portaria publicada")
	b := ContentID("ANM", "Nova portaria publicada")
	c := ContentID("ANM", "Outra portaria")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestContentIDSeparatesParts(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc".
	assert.NotEqual(t, ContentID("ab", "c"), ContentID("a", "bc"))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Licença de Operação", CollapseSpace("  Licença \n\t de   Operação "))
	assert.Equal(t, "", CollapseSpace("   \n "))
}
