package event

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	semesterCodeRegex = regexp.MustCompile(`[\[(][0-2F,]+[\])]`)
	smallWordsRegex   = regexp.MustCompile(`(?i)\b(a|an|and|at|but|by|de|en|for|if|in|of|on|or|the|to|via|vs?\.?)\b`)
	internalCapsRegex = regexp.MustCompile(`\S+[A-Z]+\S*`)
)

// floorOrder sorts basement before ground before numbered floors.
const floorOrder = "BG123456789"

// TitleCase title-cases a display string, keeping small words lowered and
// words with internal capitals (module codes, acronyms) untouched.
func TitleCase(text string) string {
	return titleCaseSplit(text, false, true)
}

func titleCaseSplit(text string, hyphenated bool, firstOrLast bool) string {
	var words []string
	if hyphenated {
		words = strings.Split(text, "-")
	} else {
		words = strings.Fields(text)
	}

	cased := make([]string, 0, len(words))
	for i, word := range words {
		edge := i == 0 || i == len(words)-1
		switch {
		case strings.Contains(word, "-"):
			cased = append(cased, titleCaseSplit(word, true, edge))
		case firstOrLast && edge:
			if internalCapsRegex.MatchString(word) {
				cased = append(cased, word)
			} else {
				cased = append(cased, capitalize(word))
			}
		case internalCapsRegex.MatchString(word):
			cased = append(cased, word)
		case smallWordsRegex.MatchString(word):
			cased = append(cased, strings.ToLower(word))
		default:
			cased = append(cased, capitalize(word))
		}
	}

	sep := " "
	if hyphenated {
		sep = "-"
	}
	return strings.Join(cased, sep)
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// BuildDisplay derives the cached human-readable strings for one event.
// When nothing could be parsed from the title, the summary is the raw
// title verbatim so no upstream information is hidden.
func BuildDisplay(ev CanonicalEvent) Display {
	activity := displayActivity(ev)
	summary, summaryLong := displaySummaries(ev, activity)
	location, locationLong := displayLocations(ev)

	return Display{
		Summary:      summary,
		SummaryLong:  summaryLong,
		Location:     location,
		LocationLong: locationLong,
		Description:  displayDescription(ev, activity),
	}
}

func displayActivity(ev CanonicalEvent) string {
	if strings.EqualFold(strings.TrimSpace(ev.Description), "lab") {
		return "Lab"
	}
	if len(ev.ParsedNames) > 0 && ev.ParsedNames[0].ActivityType != "" {
		return ev.ParsedNames[0].ActivityType.Display()
	}
	return ""
}

func displaySummaries(ev CanonicalEvent, activity string) (string, string) {
	// Unparseable titles keep the raw title untouched.
	if len(ev.ParsedNames) == 0 && ev.ModuleName == "" && ev.GroupName == "" {
		return ev.Name, ev.Name
	}

	name := ev.Name
	if ev.ModuleName != "" {
		name = strings.TrimSpace(semesterCodeRegex.ReplaceAllString(ev.ModuleName, ""))
	}

	var qualifier string
	switch {
	case activity != "" && ev.GroupName != "":
		qualifier = fmt.Sprintf("(%s, Group %s)", activity, ev.GroupName)
	case activity != "":
		qualifier = fmt.Sprintf("(%s)", activity)
	case ev.GroupName != "":
		qualifier = fmt.Sprintf("(Group %s)", ev.GroupName)
	}

	long := name
	if qualifier != "" {
		long = name + " " + qualifier
	}
	long = TitleCase(strings.TrimSpace(long))

	short := TitleCase(name)
	if ev.GroupName != "" {
		short = fmt.Sprintf("%s (Group %s)", short, ev.GroupName)
	}
	return short, long
}

func displayLocations(ev CanonicalEvent) (string, string) {
	if len(ev.Locations) == 0 {
		return ev.EventType, ev.EventType
	}

	// Group rooms by (campus, building) keeping first-seen order; rooms
	// that failed to parse keep their original strings in one group.
	type buildingKey struct {
		campus   string
		building string
		original bool
	}
	var order []buildingKey
	grouped := make(map[buildingKey][]Location)
	for _, loc := range ev.Locations {
		key := buildingKey{campus: loc.Campus, building: loc.Building, original: loc.Original != ""}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], loc)
	}

	var short, long []string
	for _, key := range order {
		locs := grouped[key]
		if key.original {
			originals := make([]string, 0, len(locs))
			for _, loc := range locs {
				originals = append(originals, loc.Original)
			}
			joined := strings.Join(originals, ", ")
			short = append(short, joined)
			long = append(long, joined)
			continue
		}

		sort.Slice(locs, func(i, j int) bool {
			if locs[i].Floor != locs[j].Floor {
				return strings.Index(floorOrder, locs[i].Floor) < strings.Index(floorOrder, locs[j].Floor)
			}
			return locs[i].Room < locs[j].Room
		})

		codes := make([]string, 0, len(locs))
		for _, loc := range locs {
			codes = append(codes, loc.Building+loc.Floor+loc.Room)
		}
		joined := strings.Join(codes, ", ")
		short = append(short, joined)
		long = append(long, fmt.Sprintf("%s (%s, %s)", joined, locs[0].BuildingName(), locs[0].CampusName()))
	}

	return strings.Join(short, ", "), strings.Join(long, ", ")
}

func displayDescription(ev CanonicalEvent, activity string) string {
	eventType := ev.EventType
	if len(ev.ParsedNames) > 0 && ev.ParsedNames[0].DeliveryType != "" {
		eventType = ev.ParsedNames[0].DeliveryType.Display()
	}

	if strings.EqualFold(strings.TrimSpace(eventType), "booking") {
		if ev.Description != "" {
			return fmt.Sprintf("%s, %s", ev.Description, eventType)
		}
		return eventType
	}

	switch {
	case activity != "" && eventType != "":
		return fmt.Sprintf("%s, %s", activity, eventType)
	case activity != "":
		return activity
	default:
		return eventType
	}
}
