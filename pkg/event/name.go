package event

import (
	"regexp"
	"strconv"
	"strings"
)

// Semester an event takes place in. Zero means both semesters.
type Semester int

const (
	SemesterAllYear Semester = 0
	Semester1       Semester = 1
	Semester2       Semester = 2
)

func (s Semester) Display() string {
	switch s {
	case Semester1:
		return "Semester 1"
	case Semester2:
		return "Semester 2"
	default:
		return "All Year"
	}
}

// DeliveryType of an event.
type DeliveryType string

const (
	DeliveryOnCampus     DeliveryType = "OC"
	DeliveryAsynchronous DeliveryType = "AY"
	DeliverySynchronous  DeliveryType = "SY"
)

func (d DeliveryType) Display() string {
	switch d {
	case DeliveryOnCampus:
		return "On Campus"
	case DeliveryAsynchronous:
		return "Asynchronous (Recorded)"
	case DeliverySynchronous:
		return "Synchronous (Online, live)"
	default:
		return string(d)
	}
}

// ActivityType of an event.
type ActivityType string

const (
	ActivityPractical       ActivityType = "P"
	ActivityLecture         ActivityType = "L"
	ActivityTutorial        ActivityType = "T"
	ActivityWorkshop        ActivityType = "W"
	ActivitySeminar         ActivityType = "S"
	ActivityWorkshopSeminar ActivityType = "WS"
)

var activityDisplays = map[ActivityType]string{
	ActivityPractical:       "Practical",
	ActivityLecture:         "Lecture",
	ActivityTutorial:        "Tutorial",
	ActivityWorkshop:        "Workshop",
	ActivitySeminar:         "Seminar",
	ActivityWorkshopSeminar: "Workshop Seminar",
}

func (a ActivityType) Display() string {
	if d, ok := activityDisplays[a]; ok {
		return d
	}
	return string(a)
}

// ParsedName is the structured breakdown of a raw event title.
type ParsedName struct {
	ModuleCodes  []string     `json:"module_codes"`
	Semester     Semester     `json:"semester"`
	DeliveryType DeliveryType `json:"delivery_type,omitempty"`
	ActivityType ActivityType `json:"activity_type,omitempty"`
	// Group is the group number, 0 when the event is not group-specific.
	Group int `json:"group,omitempty"`
}

// NamePattern extracts structured attributes from a free-text title.
// Patterns are tried in priority order; no match is an expected outcome
// and leaves the raw title as the display fallback.
type NamePattern interface {
	Name() string
	Parse(title string) ([]ParsedName, bool)
}

// defaultPatterns are tried in order by ParseName.
var defaultPatterns = []NamePattern{
	structuredCodePattern{},
	descriptiveTitlePattern{},
}

// ParseName runs the default pattern set against title. An empty result
// means no pattern matched.
func ParseName(title string) []ParsedName {
	for _, p := range defaultPatterns {
		if parsed, ok := p.Parse(title); ok {
			return parsed
		}
	}
	return nil
}

// structuredCodePattern matches the timetabling system's coded titles,
// e.g. "CSC1003[1]OC/L1/01" or "PS114/PS114A(2)SY/T2". Several coded
// names may be chained with commas.
type structuredCodePattern struct{}

var structuredNameRegex = regexp.MustCompile(
	`^(?P<modules>([A-Za-z0-9]+/?)+)[\[(]?(?P<semester>[0-2])[\])]?(?P<delivery>OC|0C|AY|AS|SY)/(?P<activity>[PLTWS]{1,2})[0-9]{0,2}(/(?P<group>[0-9]+))?(?P<remainder>.*)$`,
)

func (structuredCodePattern) Name() string { return "structured-code" }

func (structuredCodePattern) Parse(title string) ([]ParsedName, bool) {
	// Coded titles always contain a slash; skip everything else cheaply.
	if !strings.Contains(title, "/") {
		return nil, false
	}

	// Upstream data error correction.
	data := strings.ReplaceAll(title, " ", "")
	data = strings.ReplaceAll(data, "//", "/")
	data = strings.ReplaceAll(data, "]/", "]")

	var parsed []ParsedName
	for data != "" {
		match := structuredNameRegex.FindStringSubmatch(data)
		if match == nil {
			break
		}
		groups := namedGroups(structuredNameRegex, match)

		name, ok := buildParsedName(groups)
		if !ok {
			break
		}
		parsed = append(parsed, name)

		// A remainder starting with a comma may chain another full coded
		// name; anything else is trailing noise.
		remainder := groups["remainder"]
		if idx := strings.Index(remainder, ","); idx >= 0 && idx < 2 {
			data = remainder[idx+1:]
		} else {
			break
		}
	}

	return parsed, len(parsed) > 0
}

func buildParsedName(groups map[string]string) (ParsedName, bool) {
	var modules []string
	for _, m := range strings.Split(groups["modules"], "/") {
		if m = strings.TrimSpace(m); m != "" {
			modules = append(modules, m)
		}
	}
	if len(modules) == 0 {
		return ParsedName{}, false
	}

	semester, err := strconv.Atoi(groups["semester"])
	if err != nil {
		return ParsedName{}, false
	}

	// Known upstream typos: 0C means OC, AS means AY.
	delivery := groups["delivery"]
	switch delivery {
	case "0C":
		delivery = "OC"
	case "AS":
		delivery = "AY"
	}

	activity := ActivityType(groups["activity"])
	if _, ok := activityDisplays[activity]; !ok {
		return ParsedName{}, false
	}

	group := 0
	if g := groups["group"]; g != "" {
		group, err = strconv.Atoi(g)
		if err != nil {
			return ParsedName{}, false
		}
	}

	return ParsedName{
		ModuleCodes:  modules,
		Semester:     Semester(semester),
		DeliveryType: DeliveryType(delivery),
		ActivityType: activity,
		Group:        group,
	}, true
}

// descriptiveTitlePattern matches human-written titles like
// "CA101 Lecture (Grp 1)": a module code followed by an activity word and
// an optional group marker. Semester and delivery are not derivable here.
type descriptiveTitlePattern struct{}

var descriptiveTitleRegex = regexp.MustCompile(
	`(?i)^(?P<module>[A-Z]{2,5}[0-9]{3}[A-Z]?)\s+(?P<activity>lecture|practical|tutorial|workshop|seminar|lab)\b`,
)

var descriptiveGroupRegex = regexp.MustCompile(`(?i)\b(?:group|grp)\s*(?P<group>[0-9]+)`)

var activityWords = map[string]ActivityType{
	"lecture":   ActivityLecture,
	"practical": ActivityPractical,
	"lab":       ActivityPractical,
	"tutorial":  ActivityTutorial,
	"workshop":  ActivityWorkshop,
	"seminar":   ActivitySeminar,
}

func (descriptiveTitlePattern) Name() string { return "descriptive-title" }

func (descriptiveTitlePattern) Parse(title string) ([]ParsedName, bool) {
	match := descriptiveTitleRegex.FindStringSubmatch(title)
	if match == nil {
		return nil, false
	}
	groups := namedGroups(descriptiveTitleRegex, match)

	activity, ok := activityWords[strings.ToLower(groups["activity"])]
	if !ok {
		return nil, false
	}

	group := 0
	if gm := descriptiveGroupRegex.FindStringSubmatch(title); gm != nil {
		group, _ = strconv.Atoi(namedGroups(descriptiveGroupRegex, gm)["group"])
	}

	return []ParsedName{{
		ModuleCodes:  []string{strings.ToUpper(groups["module"])},
		Semester:     SemesterAllYear,
		ActivityType: activity,
		Group:        group,
	}}, true
}

func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = match[i]
		}
	}
	return groups
}

// ParseGroupName scans the title and description for a single-character
// group marker ("group A", "grp 1"), mirroring the upstream convention.
func ParseGroupName(name, description string) string {
	for _, marker := range []string{"group", "grp"} {
		for _, value := range []string{name, description} {
			lowered := strings.ReplaceAll(strings.ToLower(value), " ", "")
			if idx := strings.Index(lowered, marker); idx >= 0 {
				pos := idx + len(marker)
				if pos < len(lowered) {
					return strings.ToUpper(string(lowered[pos]))
				}
			}
		}
	}
	return ""
}
