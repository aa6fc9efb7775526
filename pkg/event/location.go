package event

import (
	"fmt"
	"regexp"
	"strings"
)

// Location is one structured room reference. When parsing fails the raw
// code is kept in Original and the structured fields stay empty.
type Location struct {
	Campus   string `json:"campus"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`
	Original string `json:"original,omitempty"`
}

var locationRegex = regexp.MustCompile(
	`^((?P<campus>[A-Z]{3})\.)?(?P<building>VB|[A-Z][AC-FH-Z]?)(?P<floor>[BG1-9])(?P<room>[0-9\-A-Za-z ()]+)$`,
)

// campusNames maps campus codes to display names.
var campusNames = map[string]string{
	"AHC": "All Hallows",
	"GLA": "Glasnevin",
	"SPC": "St Patrick's",
}

// buildingNames maps campus code then building code to display names.
var buildingNames = map[string]map[string]string{
	"GLA": {
		"A":  "Albert College",
		"B":  "Invent Building",
		"C":  "Henry Grattan Building",
		"CA": "Henry Grattan Extension",
		"D":  "BEA Orpen Building",
		"E":  "Estates Office",
		"F":  "Multi-Storey Car Park",
		"FT": "The Polaris Building",
		"G":  "NICB Building",
		"GA": "NRF Building",
		"H":  "Nursing Building",
		"J":  "Hamilton Building",
		"KA": "U Building / Student Centre",
		"L":  "McNulty Building",
		"M":  "Interfaith Centre",
		"N":  "Marconi Building",
		"P":  "Pavilion",
		"PR": "Restaurant",
		"Q":  "Business School",
		"QA": "MacCormac Reception",
		"R":  "Creche",
		"S":  "Stokes Building",
		"SA": "Stokes Annex",
		"T":  "Terence Larkin Theatre",
		"U":  "Accommodation & Sports Club",
		"V1": "Larkfield Residences",
		"V2": "Hampstead Residences",
		"VA": "Postgraduate Residences A",
		"VB": "Postgraduate Residences B",
		"W":  "College Park Residences",
		"X":  "Lonsdale Building",
		"Y":  "O'Reilly Library",
		"Z":  "The Helix",
	},
	"SPC": {
		"A": "Block A",
		"B": "Block B",
		"C": "Block C",
		"D": "Block D",
		"E": "Block E",
		"F": "Block F",
		"G": "Block G",
		"S": "Block S / Sports Hall",
	},
	"AHC": {
		"C":  "Chapel",
		"OD": "O'Donnell House",
		"P":  "Purcell House",
		"S":  "Senior House",
	},
}

// ParseLocations splits a raw location string into structured locations.
// Comma-separated lists and "GLA.C117 & C122" ampersand shorthands are
// supported. If nothing parses, one Location carrying the raw string in
// Original is returned so no information is lost.
func ParseLocations(raw string) []Location {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "&") && strings.Contains(part, ".") {
			prefix, rooms, _ := strings.Cut(part, ".")
			for _, room := range strings.Split(rooms, "&") {
				codes = append(codes, prefix+"."+strings.TrimSpace(room))
			}
		} else {
			codes = append(codes, part)
		}
	}

	var locations []Location
	for _, code := range codes {
		match := locationRegex.FindStringSubmatch(code)
		if match == nil {
			continue
		}
		groups := namedGroups(locationRegex, match)
		locations = append(locations, Location{
			Campus:   groups["campus"],
			Building: groups["building"],
			Floor:    groups["floor"],
			Room:     groups["room"],
		})
	}

	if len(locations) == 0 {
		return []Location{{Original: raw}}
	}
	return locations
}

// Code returns the compact location code, e.g. "GLA.L129".
func (l Location) Code() string {
	if l.Original != "" {
		return l.Original
	}
	if l.Campus == "" {
		return fmt.Sprintf("%s%s%s", l.Building, l.Floor, l.Room)
	}
	return fmt.Sprintf("%s.%s%s%s", l.Campus, l.Building, l.Floor, l.Room)
}

// BuildingName returns the display name for the location's building, or
// "[unknown]" for codes outside the known tables.
func (l Location) BuildingName() string {
	if names, ok := buildingNames[l.Campus]; ok {
		if name, ok := names[l.Building]; ok {
			return name
		}
	}
	return "[unknown]"
}

// CampusName returns the display name for the location's campus.
func (l Location) CampusName() string {
	if name, ok := campusNames[l.Campus]; ok {
		return name
	}
	return l.Campus
}
