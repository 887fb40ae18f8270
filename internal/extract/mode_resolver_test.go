package extract

import (
	"testing"

	"freightops/harbormaster/internal/constants"
)

func TestNormalize_CanonicalFixedPoint(t *testing.T) {
	for _, mode := range constants.CanonicalModes {
		if got := Normalize(mode); got != mode {
			t.Errorf("Normalize(%q) = %q, want fixed point", mode, got)
		}
	}
}

func TestNormalize_Synonyms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"RO-RO", "RORO"},
		{"RO/RO", "RORO"},
		{"ro-ro", "RORO"},
		{"Air Freight", "AIRFREIGHT"},
		{"SEA", "SEAFREIGHT"},
		{"BREAKBULK", "BREAK_BULK"},
		{"GROUPAGE", "LCL"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Containment(t *testing.T) {
	if got := Normalize("FCL DOOR TO DOOR"); got != "FCL" {
		t.Errorf("Expected containment match FCL, got %q", got)
	}
}

func TestNormalize_NoMatch(t *testing.T) {
	if got := Normalize("BICYCLE COURIER"); got != "" {
		t.Errorf("Expected empty, got %q", got)
	}
	if got := Normalize(""); got != "" {
		t.Errorf("Expected empty for empty input, got %q", got)
	}
}

func TestResolve_ExplicitKeywordShortCircuits(t *testing.T) {
	r := NewModeResolver(nil)

	cases := []struct {
		name string
		want string
	}{
		{"Seafreight FCL Export ST332", constants.ModeFCL},
		{"LCL groupage Antwerp-Lagos", constants.ModeLCL},
		{"Airfreight AWB handling", constants.ModeAirfreight},
		{"Break bulk project cargo", constants.ModeBreakBulk},
		{"Inland transport Rotterdam", constants.ModeRoad},
		{"Customs clearance EX-A", constants.ModeCustoms},
	}
	for _, c := range cases {
		if got := r.Resolve(c.name, "", "", ""); got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestResolve_ContainerBeatsRoRo(t *testing.T) {
	r := NewModeResolver(nil)

	// An explicit container keyword wins even with a RoRo carrier present.
	if got := r.Resolve("Grimaldi FCL Antwerp", "", "", ""); got != constants.ModeFCL {
		t.Errorf("Expected FCL, got %q", got)
	}
}

func TestResolve_RoRoDeterminations(t *testing.T) {
	r := NewModeResolver(nil)

	// Explicit keyword
	if got := r.Resolve("RORO Antwerp - Lagos", "", "", ""); got != constants.ModeRoRo {
		t.Errorf("Expected RORO via keyword, got %q", got)
	}
	// Vehicle commodity plus known RoRo carrier
	if got := r.Resolve("Grimaldi used car shipment", "", "", ""); got != constants.ModeRoRo {
		t.Errorf("Expected RORO via vehicle+carrier, got %q", got)
	}
	// RoRo carrier plus a seafreight mention
	if got := r.Resolve("Sallaum seafreight Antwerp", "", "", ""); got != constants.ModeRoRo {
		t.Errorf("Expected RORO via carrier+seafreight, got %q", got)
	}
	// Carrier alone is not enough
	if got := r.Resolve("Grimaldi administration fee", "", "", ""); got != "" {
		t.Errorf("Expected no mode for carrier alone, got %q", got)
	}
}

type fakeCarrierLookup struct {
	names []string
}

func (f *fakeCarrierLookup) RoRoNames() []string { return f.names }

func TestResolve_RegistryRoRoCarriers(t *testing.T) {
	r := NewModeResolver(&fakeCarrierLookup{names: []string{"NEPTUNE LINES"}})

	// A registry-flagged line not in the builtin list counts as RoRo evidence.
	if got := r.Resolve("Neptune Lines vehicle shipment Piraeus", "", "", ""); got != constants.ModeRoRo {
		t.Errorf("Expected RORO via registry carrier, got %q", got)
	}
	// The builtin list still applies alongside the registry.
	if got := r.Resolve("Grimaldi used car shipment", "", "", ""); got != constants.ModeRoRo {
		t.Errorf("Expected RORO via builtin carrier, got %q", got)
	}
	// A registry mention without vehicle or seafreight evidence stays undecided.
	if got := r.Resolve("Neptune Lines admin fee", "", "", ""); got != "" {
		t.Errorf("Expected no mode for carrier alone, got %q", got)
	}
}

func TestResolve_HomologationAndWarehouse(t *testing.T) {
	r := NewModeResolver(nil)

	// "Vehicle" without a RoRo carrier falls through to homologation.
	if got := r.Resolve("Vehicle homologation service", "", "", ""); got != constants.ModeHomologation {
		t.Errorf("Expected HOMOLOGATION, got %q", got)
	}
	if got := r.Resolve("Homologation inspection", "", "", ""); got != constants.ModeHomologation {
		t.Errorf("Expected HOMOLOGATION, got %q", got)
	}
	if got := r.Resolve("Warehouse handling Antwerp", "", "", ""); got != constants.ModeWarehouse {
		t.Errorf("Expected WAREHOUSE, got %q", got)
	}
}

func TestResolve_FallbackLadder(t *testing.T) {
	r := NewModeResolver(nil)

	// Canonical base mode hint wins when the text decides nothing.
	if got := r.Resolve("Port dues Antwerp", "", "", "RO-RO"); got != constants.ModeRoRo {
		t.Errorf("Expected base-mode fallback RORO, got %q", got)
	}
	// Seafreight mention as last textual resort.
	if got := r.Resolve("Seafreight Antwerp departure", "", "", ""); got != constants.ModeSeafreight {
		t.Errorf("Expected SEAFREIGHT fallback, got %q", got)
	}
	// Nothing at all.
	if got := r.Resolve("Port dues Antwerp", "", "", ""); got != "" {
		t.Errorf("Expected empty mode, got %q", got)
	}
	// Non-canonical hint is ignored.
	if got := r.Resolve("Port dues Antwerp", "", "", "CARRIER PIGEON"); got != "" {
		t.Errorf("Expected empty mode for junk hint, got %q", got)
	}
}

func TestResolve_UsesDescriptionAndCode(t *testing.T) {
	r := NewModeResolver(nil)

	if got := r.Resolve("ST332", "40ft container Antwerp to Lagos", "", ""); got != constants.ModeFCL {
		t.Errorf("Expected FCL from description, got %q", got)
	}
	if got := r.Resolve("Admin line", "", "FCL-EXP-1", ""); got != constants.ModeFCL {
		t.Errorf("Expected FCL from code, got %q", got)
	}
}
