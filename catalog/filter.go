package catalog

import "sort"

// Category slugs known in the reference catalog.
const (
	CategoryFood         = "food"
	CategoryShelter      = "shelter"
	CategoryDropIn       = "drop-in"
	CategoryHospitals    = "hospitals"
	CategoryYouth        = "youth-services"
	CategoryWarming      = "warming"
	CategoryCooling      = "cooling"
	CategoryRestrooms    = "public-restrooms"
	CategoryMentalHealth = "mental-health-crisis"
	CategoryIntake       = "intake"
	CategoryLinkNYC      = "linknyc"
)

// Sub-filter toggles within the Food category.
const (
	SubHotMeals = "hot-meals"
	SubPantry   = "pantry"
)

// FilterState holds the active category selection, per-category sub-filter
// toggles, and time-based filters. The zero value means "no filters".
type FilterState struct {
	// Categories holds the selected category slugs. The reference UI
	// allows zero or one selection, but equality treats it as a set.
	Categories []string
	// SubFilters maps sub-filter names (SubHotMeals, SubPantry) to their
	// toggle state. A missing key reads as false.
	SubFilters map[string]bool
	OpenNow    bool
	OpenToday  bool
}

// Equal reports structural equality. Categories compare as sets so that
// insertion order never spuriously signals a change; sub-filter maps
// compare with missing keys reading as false.
func (f FilterState) Equal(o FilterState) bool {
	if f.OpenNow != o.OpenNow || f.OpenToday != o.OpenToday {
		return false
	}
	if !equalSlugSets(f.Categories, o.Categories) {
		return false
	}
	return equalToggles(f.SubFilters, o.SubFilters) && equalToggles(o.SubFilters, f.SubFilters)
}

// TimeEqual reports whether the wall-clock-dependent filters match.
// When they differ, previously fetched results cannot be trusted.
func (f FilterState) TimeEqual(o FilterState) bool {
	return f.OpenNow == o.OpenNow && f.OpenToday == o.OpenToday
}

// Category returns the single selected category slug, or "" when none is
// selected.
func (f FilterState) Category() string {
	if len(f.Categories) == 0 {
		return ""
	}
	return f.Categories[0]
}

func equalSlugSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func equalToggles(a, b map[string]bool) bool {
	for k, v := range a {
		if v != b[k] {
			return false
		}
	}
	return true
}
