package matcher

import (
	"sort"
	"strings"

	"driver-manager/core/reconcile"
)

// Score weights.
const (
	manufacturerWeight = 50
	nameWeight         = 100
	keywordWeight      = 20
	displayWeight      = 10
)

// displayScoreHints are the display-adapter words that earn a bonus when both names carry them.
var displayScoreHints = []string{"graphics", "display", "video", "adapter", "uhd", "hd"}

// Score rates how closely entry resembles the device:
//   - +50 when the manufacturers cross-contain
//   - +100 when the names cross-contain
//   - +20 per device keyword found in the entry name
//   - +10 per display-adapter word present in both names
func Score(name, manufacturer string, entry reconcile.CatalogEntry) int {
	dev := newProbe(name, manufacturer)
	drv := newProbe(entry.DeviceName, entry.Manufacturer)

	score := 0
	if crossContains(drv.manufacturer, dev.manufacturer) {
		score += manufacturerWeight
	}
	if crossContains(drv.name, dev.name) {
		score += nameWeight
	}
	if drv.name != "" {
		for _, kw := range dev.keywords {
			if strings.Contains(drv.name, kw) {
				score += keywordWeight
			}
		}
	}
	for _, hint := range displayScoreHints {
		if strings.Contains(dev.name, hint) && strings.Contains(drv.name, hint) {
			score += displayWeight
		}
	}
	return score
}

// Candidates returns up to limit entries with a positive score, best first.
// Equal scores keep catalog order. A non-positive limit returns every candidate.
func Candidates(name, manufacturer string, catalog []reconcile.CatalogEntry, limit int) []reconcile.Candidate {
	candidates := make([]reconcile.Candidate, 0)
	for _, entry := range catalog {
		if s := Score(name, manufacturer, entry); s > 0 {
			candidates = append(candidates, reconcile.Candidate{Entry: entry, Score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
