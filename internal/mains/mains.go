// Package mains guesses the local mains frequency and the broadcast video
// standard that goes with it from the system timezone.
package mains

import (
	"fmt"
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// Region is the best guess at the local power and video conventions
type Region struct {
	Country   string // empty when the timezone has no country
	Frequency int    // mains frequency in Hz, 50 or 60
	Standard  string // colour video standard, e.g. "PAL" or "NTSC"
}

// String formats the region for display, e.g. "NTSC (60 Hz mains)"
func (r Region) String() string {
	return fmt.Sprintf("%s (%d Hz mains)", r.Standard, r.Frequency)
}

// Local returns the region for the system timezone.
// Falls back to PAL/50 Hz if detection fails.
func Local() Region {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return regionForCountry("")
	}
	return RegionForTimezone(timezone)
}

// RegionForTimezone returns the region for a given IANA timezone.
// Exported for testing with specific timezones.
func RegionForTimezone(timezone string) Region {
	// UTC/GMT have no country association
	if timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return regionForCountry("")
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return regionForCountry("")
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return regionForCountry("")
	}

	return regionForCountry(country)
}

func regionForCountry(country string) Region {
	r := Region{Country: country, Frequency: 50, Standard: "PAL"}
	if hz60Countries[country] {
		r.Frequency = 60
		r.Standard = "NTSC"
	}
	if std, ok := standardOverrides[country]; ok {
		r.Standard = std
	}
	return r
}

// standardOverrides lists countries whose video standard does not follow
// their mains frequency.
var standardOverrides = map[string]string{
	"Japan":     "NTSC-J", // split 50/60 Hz by region; Tokyo is 50 Hz
	"Brazil":    "PAL-M",
	"Argentina": "PAL-N",
	"Paraguay":  "PAL-N",
	"Uruguay":   "PAL-N",
	"France":    "SECAM",
	"Russia":    "SECAM",
}

// hz60Countries lists countries using 60Hz mains power.
// All other countries use 50Hz.
var hz60Countries = map[string]bool{
	// North America
	"United States": true,
	"Canada":        true,
	"Mexico":        true,

	// Central America
	"Belize":      true,
	"Costa Rica":  true,
	"El Salvador": true,
	"Guatemala":   true,
	"Honduras":    true,
	"Nicaragua":   true,
	"Panama":      true,

	// Caribbean
	"Bahamas":             true,
	"Barbados":            true,
	"Cuba":                true,
	"Dominican Republic":  true,
	"Haiti":               true,
	"Jamaica":             true,
	"Puerto Rico":         true,
	"Trinidad and Tobago": true,

	// South America (partial, most use 50Hz)
	"Brazil":    true,
	"Colombia":  true,
	"Ecuador":   true,
	"Peru":      true,
	"Venezuela": true,

	// Asia (partial)
	"South Korea": true,
	"Taiwan":      true,
	"Philippines": true,

	// Pacific
	"Guam":           true,
	"American Samoa": true,
}
