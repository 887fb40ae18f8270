package extract

import (
	"strings"

	"freightops/harbormaster/internal/constants"
)

// CarrierLookup is the slice of the carrier registry the resolver consults
// for RoRo operators. The builtin constants list stays the baseline; the
// registry adds tenant-configured lines on top.
type CarrierLookup interface {
	RoRoNames() []string
}

// ModeResolver decides the canonical transport mode for an article from its
// free text, applying layered override rules in strict order.
type ModeResolver struct {
	carriers CarrierLookup
}

func NewModeResolver(carriers CarrierLookup) *ModeResolver {
	return &ModeResolver{carriers: carriers}
}

// Resolve concatenates name, description and code into one search text and
// evaluates the override ladder. baseMode is a caller-supplied hint (usually
// the upstream transport-mode field) consulted only when nothing in the text
// decides the mode. Returns "" when no rule applies.
func (r *ModeResolver) Resolve(name, description, code, baseMode string) string {
	text := strings.ToUpper(name + " " + description + " " + code)

	// Explicit mode keywords short-circuit immediately.
	if containsAny(text, constants.ContainerKeywords) {
		return constants.ModeFCL
	}
	if containsAny(text, constants.LCLKeywords) {
		return constants.ModeLCL
	}
	if containsAny(text, constants.AirKeywords) {
		return constants.ModeAirfreight
	}
	if containsAny(text, constants.BreakBulkKeywords) {
		return constants.ModeBreakBulk
	}
	if containsAny(text, constants.RoadKeywords) {
		return constants.ModeRoad
	}
	if containsAny(text, constants.CustomsKeywords) {
		return constants.ModeCustoms
	}

	if r.isRoRo(text) {
		return constants.ModeRoRo
	}

	if containsAny(text, constants.HomologationKeywords) {
		return constants.ModeHomologation
	}
	if containsAny(text, constants.WarehouseKeywords) {
		return constants.ModeWarehouse
	}

	if normalized := Normalize(baseMode); normalized != "" {
		return normalized
	}
	if strings.Contains(text, constants.ModeSeafreight) {
		return constants.ModeSeafreight
	}
	return ""
}

// isRoRo applies the three-way RoRo determination: an explicit keyword, a
// vehicle commodity carried by a known RoRo line, or a RoRo line together
// with a seafreight mention.
func (r *ModeResolver) isRoRo(text string) bool {
	if containsAny(text, constants.RoRoKeywords) {
		return true
	}
	if !r.mentionsRoRoLine(text) {
		return false
	}

	for _, commodity := range constants.VehicleCommodities {
		if containsWord(text, commodity) {
			return true
		}
	}
	return strings.Contains(text, constants.ModeSeafreight)
}

// mentionsRoRoLine scans the registry's RoRo operators and then the builtin
// carrier list, both on token boundaries.
func (r *ModeResolver) mentionsRoRoLine(text string) bool {
	if r.carriers != nil {
		for _, name := range r.carriers.RoRoNames() {
			if containsWord(text, name) {
				return true
			}
		}
	}
	for _, c := range constants.RoRoCarriers {
		if containsWord(text, c) {
			return true
		}
	}
	return false
}

// Normalize maps an arbitrary mode string to the canonical set: synonym
// table first, then exact canonical match, then containment. Returns ""
// when nothing matches.
func Normalize(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return ""
	}
	if canonical, ok := constants.ModeSynonyms[v]; ok {
		return canonical
	}
	for _, mode := range constants.CanonicalModes {
		if v == mode {
			return mode
		}
	}
	for _, mode := range constants.CanonicalModes {
		if strings.Contains(v, mode) {
			return mode
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
