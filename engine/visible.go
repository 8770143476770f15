package engine

import (
	"servicemap/catalog"
	"servicemap/geo"
)

// Visible derives the renderable subset of the cache: records inside the
// unbuffered viewport bounds that pass the active sub-filters. Buffering
// is a fetch-time concern only; rendering uses the true bounds. Pure and
// cheap enough to recompute on every state change.
func Visible(records []catalog.ServiceRecord, vp geo.Viewport, filters catalog.FilterState) []catalog.ServiceRecord {
	out := make([]catalog.ServiceRecord, 0, len(records))
	for _, r := range records {
		if !vp.Bounds.ContainsPoint(r.Latitude, r.Longitude) {
			continue
		}
		if !passesSubFilters(r, filters) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// passesSubFilters applies the food hot-meals/pantry toggles. With both
// toggles in the same position there is nothing to narrow. Unclassified
// entries pass under either toggle: hiding a real service over a
// classification gap is worse than showing it in the wrong bucket.
func passesSubFilters(r catalog.ServiceRecord, filters catalog.FilterState) bool {
	if filters.Category() != catalog.CategoryFood {
		return true
	}
	hot := filters.SubFilters[catalog.SubHotMeals]
	pantry := filters.SubFilters[catalog.SubPantry]
	if hot == pantry {
		return true
	}

	for _, s := range r.Services {
		if s.Type != catalog.CategoryFood {
			continue
		}
		switch catalog.ClassifyFood(s.Name, s.Notes) {
		case catalog.FoodHotMeal:
			if hot {
				return true
			}
		case catalog.FoodPantry:
			if pantry {
				return true
			}
		default:
			return true
		}
	}
	// No food entry at all: nothing to classify, treat permissively.
	return !r.HasService(catalog.CategoryFood)
}
