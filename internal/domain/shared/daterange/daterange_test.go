package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, from, to int) DateRange {
	t.Helper()
	dr, err := New(day(from), day(to))
	require.NoError(t, err)
	return dr
}

func TestNewRejectsInvalidRanges(t *testing.T) {
	_, err := New(day(5), day(5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(9), day(5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, day(5))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNights(t *testing.T) {
	assert.Equal(t, 1, mustRange(t, 1, 2).Nights())
	assert.Equal(t, 3, mustRange(t, 1, 4).Nights())
	assert.Equal(t, 7, mustRange(t, 10, 17).Nights())
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"partial overlap", mustRange(t, 1, 5), mustRange(t, 4, 9), true},
		{"containment", mustRange(t, 1, 9), mustRange(t, 3, 5), true},
		{"identical", mustRange(t, 1, 5), mustRange(t, 1, 5), true},
		{"back to back", mustRange(t, 1, 5), mustRange(t, 5, 9), false},
		{"disjoint", mustRange(t, 1, 5), mustRange(t, 6, 9), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestAdjacent(t *testing.T) {
	assert.True(t, mustRange(t, 1, 5).Adjacent(mustRange(t, 5, 9)))
	assert.True(t, mustRange(t, 5, 9).Adjacent(mustRange(t, 1, 5)))
	assert.False(t, mustRange(t, 1, 5).Adjacent(mustRange(t, 6, 9)))
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, 1, 5)
	assert.True(t, dr.ContainsDate(day(1)), "check-in night is part of the stay")
	assert.True(t, dr.ContainsDate(day(4)))
	assert.False(t, dr.ContainsDate(day(5)), "check-out day is not a night")
}
