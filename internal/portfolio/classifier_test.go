package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		management string
		rang       string
		want       string
	}{
		{"m1-2 hyphenated", "GERENCIA M1-2 CASTIGO", "", "M1-2"},
		{"m1-2 compact", "GERENCIA M12", "", "M1-2"},
		{"m1-1b", "GERENCIA M1-1B TARDIO", "", "M1-1B"},
		{"m1-1b compact", "M11B", "", "M1-1B"},
		{"m0-1 pp spaced", "GERENCIA M0-1 PP", "", "M0-1 PP"},
		{"m0-1 pp compact", "M0-1PP", "", "M0-1 PP"},
		{"named exception", "GERENCIA M1-1 A BEATRIZ Y NANCY", "", "M1-1A-PN"},
		{"frs on m1-1a range", "GERENCIA M1-1A FRS", "RM1-1A", "M1-1A-FRS"},
		{"frs spaced range alias", "GERENCIA M1-1A FRS", "R M11A", "M1-1A-FRS"},
		{"frs off range", "GERENCIA M1-1A FRS", "R OTROS", "M0-FRS"},
		{"m1-1a plain", "GERENCIA M1-1A", "", "M1-1A"},
		{"m1-1a with bt", "GERENCIA M1-1A BT", "", "M1-1A-BT"},
		{"m0 pp plain", "GERENCIA M0 PP", "", "M0-PP"},
		{"m0 pp compact", "M0PP", "", "M0-PP"},
		{"m0 pp collapses app", "GERENCIA M0 PP BT", "", "M0-BT"},
		{"m0 vp plain", "GERENCIA M0 VP", "", "M0-VP"},
		{"m0 vp with pn", "GERENCIA M0 VP PN", "", "M0-PN"},
		{"fallthrough verbatim", "  Gerencia Castigos  ", "", "Gerencia Castigos"},
		{"empty management", "", "RM1-1A", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.management, tt.rang)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier()
	first := c.Classify("GERENCIA M1-1A FRS", "RM1-1A")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, c.Classify("GERENCIA M1-1A FRS", "RM1-1A"))
	}
}

func TestClassifier_RuleOrder(t *testing.T) {
	c := NewClassifier()

	// Earlier rules win even when later patterns also match.
	assert.Equal(t, "M1-2", c.Classify("GERENCIA M1-2 M1-1B", ""))
	assert.Equal(t, "M1-1B", c.Classify("GERENCIA M1-1B M1-1A", ""))
}
