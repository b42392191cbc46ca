package classify

import (
	"fmt"
	"os"
	"strings"
)

// Hand-tuned against live marketplace data. Several terms carry surrounding
// spaces or trailing punctuation to cut false positives ("carpet", "scar",
// "cartoon"); the cost is missed matches at string edges.
//
// Ambiguous terms deliberately on neither list: cruise, ride, ford, concours,
// drive, parking. "ride" looks white but fires on "boat ride", "ford" fires
// on "Stratford".
var defaultWhiteTerms = []string{
	" car ", " car,", " car/", "porsche", "volkswagen", "vehicle", "motorcar", "motorshow",
	" cars ", "cars,", "car-", "tesla", "motorsport", "jeep", "chrysler", "ferrari", "volvo",
	"toyota", " audi ", " alfa ", " lotus", "automotive", "automobile", " vw ", "lexus",
	"nissan", "mercedes", "subaru", " auto ", "truck", "vette", "electric vehicle", "bmw",
	"track day", "speedway", "garage", "summit racing", "demolition", "demo derby", "cadillac",
	"low rider", " tires", "hot rod", "hotrod", "rods", "rally", "mustang", "driving",
	"wheels", "range rover", "fuel", "supercar", "driver",
}

var defaultBlackTerms = []string{
	"boat", "yacht", "ships", " ship", "booze", "aviation", "aircraft",
	"airshow", "sail", "fishing", "fisherman", "air show", "aerospace",
	"party cruise", "dance cruise", "regatta", "dinner cruise", "brunch cruise",
	"breakfast cruise", "sunset cruise", "harbor cruise", "fireworks cruise",
	"siteseeing cruise", "drinks", "beer", "drone", "escooter",
	"helicopter", " sail ", "boobs", "party bus", "dancing", "kayak",
	"paddle", "music festival", "ballooning", "balloon",
	"drinks", // doubled: each occurrence counts twice when scoring
	"waterway", "pilot", "airplane", "whale watching", "party", "dj", "river cruise",
	"weekend cruise", "beer cruise", "wine", "ferry", " dock",
}

// DefaultWhiteTerms returns a copy of the built-in keep list.
func DefaultWhiteTerms() []string {
	return append([]string(nil), defaultWhiteTerms...)
}

// DefaultBlackTerms returns a copy of the built-in reject list.
func DefaultBlackTerms() []string {
	return append([]string(nil), defaultBlackTerms...)
}

// LoadTermsFile reads a newline-separated term list. Blank lines and lines
// whose first non-space character is '#' are skipped. Leading and trailing
// spaces on a kept line are significant (" car " matches differently from
// "car"), so lines are lowercased but never space-trimmed.
func LoadTermsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terms file: %w", err)
	}

	var terms []string

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")

		if t := strings.TrimSpace(line); t == "" || strings.HasPrefix(t, "#") {
			continue
		}

		terms = append(terms, strings.ToLower(line))
	}

	return terms, nil
}
