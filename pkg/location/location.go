package location

import (
	"fmt"
	"regexp"
	"strconv"
)

// Info is a parsed warehouse location code like "A-1-01":
// zone letter(s), sub-zone number, floor number.
type Info struct {
	Zone    string `json:"zone"`
	SubZone string `json:"sub_zone"`
	Floor   int    `json:"floor"`
}

var locationPattern = regexp.MustCompile(`^([A-Z]+)-(\d+)-(\d+)$`)

// Parse returns the parsed location, or nil for anything that does not match
// the zone-subzone-floor format.
func Parse(loc string) *Info {
	match := locationPattern.FindStringSubmatch(loc)
	if match == nil {
		return nil
	}

	floor, err := strconv.Atoi(match[3])
	if err != nil {
		return nil
	}

	return &Info{
		Zone:    match[1],
		SubZone: match[2],
		Floor:   floor,
	}
}

// Validate reports whether a location code is well formed
func Validate(loc string) bool {
	return Parse(loc) != nil
}

// DefaultLayout describes the standard warehouse: zones A-D, five sub-zones
// each, five floors per sub-zone.
type DefaultZone struct {
	ZoneName    string
	SubZoneName string
	Floors      []int
}

func DefaultLayout() []DefaultZone {
	zones := []string{"A", "B", "C", "D"}
	var layout []DefaultZone

	for _, zone := range zones {
		for subZone := 1; subZone <= 5; subZone++ {
			layout = append(layout, DefaultZone{
				ZoneName:    fmt.Sprintf("구역-%s", zone),
				SubZoneName: fmt.Sprintf("%s-%d", zone, subZone),
				Floors:      []int{1, 2, 3, 4, 5},
			})
		}
	}

	return layout
}
