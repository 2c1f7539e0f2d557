package strava

import (
	"regexp"
	"strings"
)

// knownBrands lists shoe brands the gear-name parser recognizes.
// Multi-word brands must come before any single-word prefix of
// themselves so the longest match wins.
var knownBrands = []string{
	"New Balance",
	"Topo Athletic",
	"Under Armour",
	"La Sportiva",
	"Adidas",
	"Altra",
	"Asics",
	"Brooks",
	"Hoka",
	"Mizuno",
	"Nike",
	"On",
	"Puma",
	"Salomon",
	"Saucony",
	"Skechers",
}

var brandPattern = buildBrandPattern()

func buildBrandPattern() *regexp.Regexp {
	quoted := make([]string, len(knownBrands))
	for i, b := range knownBrands {
		quoted[i] = regexp.QuoteMeta(b)
	}
	// Case-insensitive match of a known brand at the start of the name,
	// followed by a word boundary.
	return regexp.MustCompile(`(?i)^(` + strings.Join(quoted, "|") + `)(?:\s+|$)`)
}

// ParseGearName splits a Strava gear display name like
// "Saucony Ride 15" into brand and model. Unknown brands fall back to
// treating the first word as the brand. The canonical brand spelling
// from the known list is returned regardless of input casing.
func ParseGearName(name string) (brand, model string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	if m := brandPattern.FindString(name); m != "" {
		matched := strings.TrimSpace(m)
		for _, b := range knownBrands {
			if strings.EqualFold(b, matched) {
				brand = b
				break
			}
		}
		model = strings.TrimSpace(name[len(m):])
		return brand, model
	}

	parts := strings.SplitN(name, " ", 2)
	brand = parts[0]
	if len(parts) == 2 {
		model = strings.TrimSpace(parts[1])
	}
	return brand, model
}
