package matcher

import (
	"strings"
	"unicode"

	"driver-manager/core/reconcile"
)

// minKeywordMatches is the point threshold of the keyword tier.
const minKeywordMatches = 2

var (
	// displayDeviceHints enable the display fallback tier for a device name.
	displayDeviceHints = []string{"graphics", "display", "video"}

	// displayEntryHints qualify a catalog entry for the display fallback tier.
	displayEntryHints = []string{"graphics", "display", "video", "adapter"}

	// trademarks are dropped before keyword extraction.
	trademarks = strings.NewReplacer("(r)", " ", "(tm)", " ", "®", " ", "™", " ")
)

// Tiered is the production matcher. The zero value is ready to use.
type Tiered struct{}

// New returns a Tiered matcher.
func New() *Tiered {
	return &Tiered{}
}

var _ reconcile.Matcher = (*Tiered)(nil)

// Match returns the first entry of the first tier that accepts one.
// An empty device name never matches.
func (t *Tiered) Match(name, manufacturer string, catalog []reconcile.CatalogEntry) (reconcile.CatalogEntry, bool) {
	dev := newProbe(name, manufacturer)
	if dev.name == "" {
		return reconcile.CatalogEntry{}, false
	}

	entries := make([]probe, len(catalog))
	for i, e := range catalog {
		entries[i] = newProbe(e.DeviceName, e.Manufacturer)
	}

	tiers := []func(i int) bool{
		func(i int) bool {
			return entries[i].name == dev.name || catalog[i].DeviceName == name
		},
		func(i int) bool {
			return crossContains(entries[i].name, dev.name)
		},
		func(i int) bool {
			return keywordPoints(dev, entries[i]) >= minKeywordMatches
		},
	}
	if containsAny(dev.name, displayDeviceHints) {
		tiers = append(tiers, func(i int) bool {
			return crossContains(entries[i].manufacturer, dev.manufacturer) &&
				containsAny(entries[i].name, displayEntryHints)
		})
	}

	for _, accept := range tiers {
		for i := range catalog {
			if entries[i].name == "" {
				continue
			}
			if accept(i) {
				return catalog[i], true
			}
		}
	}
	return reconcile.CatalogEntry{}, false
}

// Candidates ranks catalog entries by Score. See the package-level Candidates.
func (t *Tiered) Candidates(name, manufacturer string, catalog []reconcile.CatalogEntry, limit int) []reconcile.Candidate {
	return Candidates(name, manufacturer, catalog, limit)
}

// Keywords extracts the matching keywords of a device name: lower-cased,
// trademark markers and punctuation removed, tokens of two runes or fewer dropped.
func Keywords(name string) []string {
	cleaned := trademarks.Replace(strings.ToLower(name))
	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) > 2 {
			keywords = append(keywords, f)
		}
	}
	return keywords
}

// probe is a lower-cased name/manufacturer pair with its keywords.
type probe struct {
	name         string
	manufacturer string
	keywords     []string
}

func newProbe(name, manufacturer string) probe {
	return probe{
		name:         strings.ToLower(strings.TrimSpace(name)),
		manufacturer: strings.ToLower(strings.TrimSpace(manufacturer)),
		keywords:     Keywords(name),
	}
}

func keywordPoints(dev, entry probe) int {
	points := 0
	if dev.manufacturer != "" && strings.Contains(entry.manufacturer, dev.manufacturer) {
		points++
	}
	for _, kw := range dev.keywords {
		if strings.Contains(entry.name, kw) {
			points++
		}
	}
	return points
}

// crossContains reports whether either string contains the other.
// Empty strings never match.
func crossContains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
