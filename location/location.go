// Package location validates city names against the fixed service area and
// owns the static nearby-city grouping used for fallback matching. All data
// lives in this package's tables, loaded once at process start; nothing here
// touches the network or computes real geometry.
package location

import (
	"sort"
	"strings"

	"sevasetu-backend/models"
)

// Cities is the closed set of serviced cities, canonical lowercase form.
var Cities = []string{
	"anantapur",
	"guntur",
	"kadapa",
	"kakinada",
	"kurnool",
	"nellore",
	"rajahmundry",
	"tirupati",
	"vijayawada",
	"visakhapatnam",
}

// regionGroups is the hand-curated "nearby" grouping. Membership is the
// only relation; order within a group decides fallback priority.
var regionGroups = map[string][]string{
	"coastal":  {"visakhapatnam", "kakinada", "rajahmundry", "nellore"},
	"central":  {"vijayawada", "guntur"},
	"southern": {"tirupati", "kadapa"},
	"western":  {"kurnool", "anantapur"},
}

var (
	citySet     map[string]bool
	cityToGroup map[string]string
)

func init() {
	citySet = make(map[string]bool, len(Cities))
	for _, c := range Cities {
		citySet[c] = true
	}
	cityToGroup = make(map[string]string)
	for group, members := range regionGroups {
		for _, c := range members {
			cityToGroup[c] = group
		}
	}
}

// Normalize trims and lowercases a raw city name. Fails with
// InvalidLocation if the result is empty.
func Normalize(raw string) (string, error) {
	loc := strings.ToLower(strings.TrimSpace(raw))
	if loc == "" {
		return "", models.NewAppError(models.ErrInvalidLocation, "location must be a non-empty string")
	}
	return loc, nil
}

// Validate normalizes raw and checks it against the city whitelist. The
// error message enumerates the valid set.
func Validate(raw string) (string, error) {
	loc, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	if !citySet[loc] {
		return "", models.NewAppError(models.ErrInvalidLocation,
			"unknown city %q, valid cities are: %s", loc, strings.Join(Cities, ", "))
	}
	return loc, nil
}

// Nearby returns the other members of the region group containing loc, in
// the group's fixed order, or nil if loc belongs to no group. loc must
// already be in canonical form.
func Nearby(loc string) []string {
	group, ok := cityToGroup[loc]
	if !ok {
		return nil
	}
	var out []string
	for _, c := range regionGroups[group] {
		if c != loc {
			out = append(out, c)
		}
	}
	return out
}

// MatchOrder returns the full candidate city order for matching against
// loc: the exact city first, then its nearby cities in fallback priority.
// Matching and accept eligibility both derive from this one list.
func MatchOrder(loc string) []string {
	return append([]string{loc}, Nearby(loc)...)
}

// Groups returns the region group names in sorted order. Used by stats and
// diagnostics output.
func Groups() []string {
	names := make([]string, 0, len(regionGroups))
	for g := range regionGroups {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}
