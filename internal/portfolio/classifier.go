// Package portfolio derives the canonical portfolio label for a record
// from its free-text management and range columns.
package portfolio

import "strings"

// Application tags that refine a base portfolio label. Detection order
// matters: FRS beats PN beats BT when several tokens appear.
const (
	appFRS = "FRS"
	appPN  = "PN"
	appBT  = "BT"
)

// frsRangeAliases are the range spellings that mark an FRS advisor as
// working the M1-1A book rather than M0.
var frsRangeAliases = []string{
	"RM1-1A", "R M1-1A", "RM11A", "R M11A",
	"RM1-1", "R M1-1", "RM11", "R M11",
}

// Classifier maps (management, range) text pairs to portfolio labels.
// Classification is pure and deterministic; equal inputs always yield
// equal labels.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify runs the rule cascade. Rules are ordered; the first match
// wins. Unmatched management text is returned trimmed, verbatim.
func (c *Classifier) Classify(management, rang string) string {
	g := strings.ToUpper(strings.TrimSpace(management))
	r := strings.ToUpper(strings.TrimSpace(rang))
	if g == "" {
		return ""
	}

	app := detectApplication(g)

	switch {
	case strings.Contains(g, "M1-2") || strings.Contains(g, "M12"):
		return "M1-2"
	case strings.Contains(g, "M1-1B") || strings.Contains(g, "M11B"):
		return "M1-1B"
	case (strings.Contains(g, "M0-1") && strings.Contains(g, "PP")) || strings.Contains(g, "M0-1PP"):
		return "M0-1 PP"
	case strings.Contains(g, "M1-1") && strings.Contains(g, "A") &&
		strings.Contains(g, "BEATRIZ") && strings.Contains(g, "NANCY"):
		return "M1-1A-PN"
	case strings.Contains(g, "M1-1A") || strings.Contains(g, "M11A"):
		return refine("M1-1A", app, r)
	case (strings.Contains(g, "M0") && strings.Contains(g, "PP")) || strings.Contains(g, "M0PP"):
		return refine("M0-PP", app, r)
	case (strings.Contains(g, "M0") && strings.Contains(g, "VP")) || strings.Contains(g, "M0VP"):
		return refine("M0-VP", app, r)
	}

	return strings.TrimSpace(management)
}

// detectApplication finds the application tag in the management text.
func detectApplication(g string) string {
	switch {
	case strings.Contains(g, appFRS):
		return appFRS
	case strings.Contains(g, appPN):
		return appPN
	case strings.Contains(g, appBT):
		return appBT
	}
	return ""
}

// refine applies the application tag to a base label. FRS advisors
// split on their range alias; other tags collapse M0 bases to the tag
// and suffix everything else.
func refine(base, app, rang string) string {
	switch {
	case app == appFRS:
		for _, alias := range frsRangeAliases {
			if strings.Contains(rang, alias) {
				return "M1-1A-FRS"
			}
		}
		return "M0-FRS"
	case app != "":
		if strings.HasPrefix(base, "M0") {
			return "M0-" + app
		}
		return base + "-" + app
	}
	return base
}
