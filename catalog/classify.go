package catalog

import (
	"regexp"
	"strings"
)

// FoodKind is the inferred sub-category of a food service entry.
type FoodKind int

const (
	// FoodUnknown means classification failed; callers treat it
	// permissively so real services are never hidden by data gaps.
	FoodUnknown FoodKind = iota
	FoodPantry
	FoodHotMeal
)

// foodCodes maps raw HRA CFC program codes to a kind. Upstream stores the
// code in the service notes field when the Excel feed supplied one.
var foodCodes = map[string]FoodKind{
	"FP":   FoodPantry,
	"FPH":  FoodPantry,
	"FPHA": FoodPantry,
	"FPK":  FoodPantry,
	"FPM":  FoodPantry,
	"FPV":  FoodPantry,
	"SK":   FoodHotMeal,
	"SKM":  FoodHotMeal,
	"SKK":  FoodHotMeal,
	"SP":   FoodHotMeal,
}

// Longer codes first so the alternation never settles for a prefix.
var foodCodeRe = regexp.MustCompile(`\b(FPHA|FPH|FPK|FPM|FPV|FP|SKM|SKK|SK|SP)\b`)

var hotMealWords = []string{
	"soup kitchen",
	"hot meal",
	"hot meals",
	"prepared meal",
	"prepared meals",
	"hot food",
}

var pantryWords = []string{
	"food pantry",
	"pantry",
	"food bank",
	"groceries",
	"grocery",
	"canned",
}

// ClassifyFood infers whether a food service entry is a pantry or a hot
// meal program. Upstream sources mix structured codes with free text of
// varying quality, so the most specific signal wins: an exact code on the
// notes field, then a code embedded in the combined text, then keywords,
// then FoodUnknown.
func ClassifyFood(name, notes string) FoodKind {
	if kind, ok := foodCodes[strings.ToUpper(strings.TrimSpace(notes))]; ok {
		return kind
	}

	combined := strings.ToUpper(name + " " + notes)
	if code := foodCodeRe.FindString(combined); code != "" {
		if kind, ok := foodCodes[code]; ok {
			return kind
		}
	}

	lower := strings.ToLower(name + " " + notes)
	for _, w := range hotMealWords {
		if strings.Contains(lower, w) {
			return FoodHotMeal
		}
	}
	for _, w := range pantryWords {
		if strings.Contains(lower, w) {
			return FoodPantry
		}
	}

	return FoodUnknown
}
