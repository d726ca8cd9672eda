package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docdex/internal/logger"
)

func TestSupports(t *testing.T) {
	e := New(logger.Nop())

	assert.True(t, e.Supports("report.pdf"))
	assert.True(t, e.Supports("REPORT.PDF"))
	assert.False(t, e.Supports("report.txt"))
	assert.False(t, e.Supports("report"))
}

func TestIsTabular(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"empty line", "", false},
		{"plain prose", "The quarterly results improved again.", false},
		{"pipe delimited row", "| Region | Q1 | Q2 |", true},
		{"single stray pipe", "see notes | appendix", false},
		{"three wide-gap columns", "North  1200  1350", true},
		{"tab separated columns", "North\t1200\t1350", true},
		{"two columns only", "Total  4550", false},
		{"sentence with double space", "Done.  Next item follows here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTabular(tt.line))
		})
	}
}

func TestDetectRegions(t *testing.T) {
	t.Run("finds a contiguous block of rows", func(t *testing.T) {
		lines := []string{
			"Revenue by region:",
			"| Region | Q1 | Q2 |",
			"| North | 1200 | 1350 |",
			"| South | 900 | 1100 |",
			"Figures are unaudited.",
		}

		regions := DetectRegions(lines)

		assert.Equal(t, []Region{{Start: 1, End: 4}}, regions)
	})

	t.Run("ignores a lone aligned line", func(t *testing.T) {
		lines := []string{
			"Intro text.",
			"North  1200  1350",
			"More prose follows.",
		}

		assert.Empty(t, DetectRegions(lines))
	})

	t.Run("finds multiple separate regions", func(t *testing.T) {
		lines := []string{
			"| a | b |",
			"| 1 | 2 |",
			"prose between tables",
			"X  Y  Z",
			"1  2  3",
		}

		regions := DetectRegions(lines)

		assert.Equal(t, []Region{{Start: 0, End: 2}, {Start: 3, End: 5}}, regions)
	})

	t.Run("handles a table ending at the last line", func(t *testing.T) {
		lines := []string{
			"prose",
			"| a | b |",
			"| 1 | 2 |",
		}

		assert.Equal(t, []Region{{Start: 1, End: 3}}, DetectRegions(lines))
	})

	t.Run("empty page has no regions", func(t *testing.T) {
		assert.Empty(t, DetectRegions(nil))
	})
}

func TestRegionContains(t *testing.T) {
	r := Region{Start: 2, End: 5}

	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
}
