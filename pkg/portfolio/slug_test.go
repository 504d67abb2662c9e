package portfolio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knearme/portfolio-service/pkg/portfolio"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Chimney Repair", "chimney-repair"},
		{"already a slug", "chimney-repair", "chimney-repair"},
		{"punctuation collapses", "Smith & Sons, Inc.", "smith-sons-inc"},
		{"digits kept", "Unit 42 Remodel", "unit-42-remodel"},
		{"leading and trailing junk", "  --Denver, CO--  ", "denver-co"},
		{"repeated separators", "a   b///c", "a-b-c"},
		{"uppercase", "ROOFING", "roofing"},
		{"empty", "", ""},
		{"only separators", "!!!", ""},
		{"unicode becomes separator", "café único", "caf-nico"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, portfolio.Slugify(tt.input))
		})
	}
}
