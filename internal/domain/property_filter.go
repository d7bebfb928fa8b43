package domain

import "strings"

// PropertyFilter refines an already-fetched listing without another round
// trip. Zero value matches everything.
type PropertyFilter struct {
	// Query is matched case-insensitively as a substring of title or city.
	Query string
	// Type is an exact property type, or "all"/"" for any.
	Type string
	// MinPrice and MaxPrice are inclusive; nil means unbounded.
	MinPrice *float64
	MaxPrice *float64
}

// IsZero reports whether the filter would match every property.
func (f PropertyFilter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" &&
		(f.Type == "" || f.Type == "all") &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// Match reports whether p satisfies every criterion of the filter.
func (f PropertyFilter) Match(p Property) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.City), q) {
			return false
		}
	}
	if f.Type != "" && f.Type != "all" && string(p.PropertyType) != f.Type {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// FilterProperties returns the matching properties in their original order.
func FilterProperties(props []Property, f PropertyFilter) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
