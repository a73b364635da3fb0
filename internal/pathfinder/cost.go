package pathfinder

import (
	"errors"
	"strconv"

	"osmrouter/internal/model"
)

// ErrNotHighway is returned by weight when the edge's way carries no
// highway tag — asking for the weight of a non-highway edge is an
// invariant violation, not an expected runtime condition.
var ErrNotHighway = errors.New("pathfinder: edge has no highway tag")

// forbiddenWeight is the sentinel negative weight an illegal edge (wrong
// direction on a oneway, or a preference-avoided class) carries. Callers
// must filter it out before relaxing the edge.
const forbiddenWeight = -1.0

var assumedSpeed = map[string]float64{
	"motorway": 120,
	"trunk":    100,
	"primary":  80,
	"secondary": 60,
	"tertiary": 50,
}

const defaultSpeed = 30.0

var classMultiplierDefault = map[string]float64{
	"motorway":       0.5,
	"motorway_link":  0.5,
	"trunk":          0.8,
	"trunk_link":     0.8,
	"primary":        1.0,
	"primary_link":   1.0,
	"secondary":      3.0,
	"secondary_link": 3.0,
	"tertiary":       10.0,
	"tertiary_link":  10.0,
	"unclassified":   1000.0,
	"residential":    10000.0,
}

// highwayPriority ranks highway classes from most to least major. Unknown
// classes rank last (100), so any known class both upgrades from and
// downgrades to an unknown one predictably.
var highwayPriority = map[string]int{
	"motorway": 1, "motorway_link": 1,
	"trunk": 2, "trunk_link": 2,
	"primary": 3, "primary_link": 3,
	"secondary": 4, "secondary_link": 4,
	"tertiary": 5, "tertiary_link": 5,
	"unclassified": 6,
	"residential":  7,
}

const unknownPriority = 100

func priorityOf(highway string) int {
	if p, ok := highwayPriority[highway]; ok {
		return p
	}
	return unknownPriority
}

// weight computes the base edge cost for traversing from a node whose
// neighbor entry is info, under prefs. It does not include the
// class-change modulation, which depends on the node the search is
// expanding from (see classChangeMultiplier).
func weight(info model.NeighborInfo, prefs Preferences) (float64, error) {
	highway := info.Tags.Find("highway")
	if highway == "" {
		return 0, ErrNotHighway
	}

	if info.Tags.Find("oneway") == "yes" && !info.IsPositiveDirection {
		return forbiddenWeight, nil
	}
	if prefs.AvoidHighway[highway] {
		return forbiddenWeight, nil
	}
	if prefs.AvoidTolls && info.Tags.Find("toll") == "yes" {
		return forbiddenWeight, nil
	}

	speed := defaultSpeed
	if ms := info.Tags.Find("maxspeed"); ms != "" {
		if parsed, err := strconv.ParseFloat(ms, 64); err == nil {
			speed = 0.9 * parsed
		} else if assumed, ok := assumedSpeed[highway]; ok {
			speed = assumed
		}
	} else if assumed, ok := assumedSpeed[highway]; ok {
		speed = assumed
	}

	cost := info.Distance / speed

	multiplier, hasMultiplier := classMultiplierDefault[highway]
	if override, ok := prefs.ClassMultiplier[highway]; ok {
		multiplier, hasMultiplier = override, true
	}
	if hasMultiplier {
		cost *= multiplier
	}

	return cost, nil
}

// classChangeMultiplier biases the search toward staying on (or
// upgrading to) major roads: moving to a lower class than the one the
// search is currently on is penalized 3x; staying level or upgrading is
// discounted 0.5x. Ties count as an upgrade.
func classChangeMultiplier(fromHighway, toHighway string) float64 {
	if priorityOf(toHighway) > priorityOf(fromHighway) {
		return 3.0
	}
	return 0.5
}
