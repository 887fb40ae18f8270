package extract

import (
	"strings"
	"testing"

	gormmodels "freightops/harbormaster/internal/models/gorm"
)

// fakePorts is a registry stub backed by a fixed slice.
type fakePorts struct {
	ports []gormmodels.Port
}

func (f *fakePorts) PortByCode(code string) *gormmodels.Port {
	for i := range f.ports {
		if f.ports[i].Code == code {
			return &f.ports[i]
		}
	}
	return nil
}

func (f *fakePorts) PortByNameContains(text string) *gormmodels.Port {
	lower := strings.ToLower(text)
	for i := range f.ports {
		if strings.Contains(lower, strings.ToLower(f.ports[i].Name)) {
			return &f.ports[i]
		}
	}
	return nil
}

func testRegistry() *fakePorts {
	return &fakePorts{ports: []gormmodels.Port{
		{Code: "ANR", Name: "Antwerp", Country: "BE"},
		{Code: "HAM", Name: "Hamburg", Country: "DE"},
		{Code: "DXB", Name: "Dubai", Country: "AE"},
		{Code: "LOS", Name: "Lagos", Country: "NG"},
		{Code: "HAL", Name: "Halifax", Country: "CA"},
	}}
}

func TestExtractPOL_CodeWithTerminal(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOL("ACL(ANR 1333) Halifax Canada")
	if info == nil {
		t.Fatal("Expected a POL match")
	}
	if info.Code != "ANR" {
		t.Errorf("Expected code ANR, got %s", info.Code)
	}
	if info.Terminal != "1333" {
		t.Errorf("Expected terminal 1333, got %s", info.Terminal)
	}
	if info.PortName != "Antwerp" {
		t.Errorf("Expected registry name Antwerp, got %s", info.PortName)
	}
}

func TestExtractPOL_BareCode(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOL("Seafreight FCL Export (ANR) to Lagos")
	if info == nil {
		t.Fatal("Expected a POL match")
	}
	if info.Code != "ANR" || info.Terminal != "" {
		t.Errorf("Expected bare ANR, got %s/%s", info.Code, info.Terminal)
	}
}

func TestExtractPOL_TerminalSlashVariant(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOL("Grimaldi (ANR 1333/2) vehicle")
	if info == nil {
		t.Fatal("Expected a POL match")
	}
	if info.Code != "ANR" {
		t.Errorf("Expected code ANR, got %s", info.Code)
	}
	if info.Terminal != "1333/2" {
		t.Errorf("Expected terminal 1333/2, got %s", info.Terminal)
	}
}

func TestExtractPOL_UnknownCodeKeepsBareCode(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOL("Some service (XYZ)")
	if info == nil {
		t.Fatal("Expected a POL match")
	}
	if info.Code != "XYZ" {
		t.Errorf("Expected bare code XYZ, got %s", info.Code)
	}
	if info.PortName != "" || info.Country != "" {
		t.Errorf("Expected empty registry fields, got %s/%s", info.PortName, info.Country)
	}
}

func TestExtractPOL_NoMatch(t *testing.T) {
	e := New(testRegistry())

	if info := e.ExtractPOL("Customs admin surcharge"); info != nil {
		t.Errorf("Expected nil, got %+v", info)
	}
}

func TestExtractPOD_ServiceDashIdiom(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOD("FCL - Dubai (DXB)")
	if info == nil {
		t.Fatal("Expected a POD match")
	}
	if info.PortName != "Dubai" {
		t.Errorf("Expected name Dubai, got %s", info.PortName)
	}
	if info.Code != "DXB" {
		t.Errorf("Expected code DXB, got %s", info.Code)
	}
}

func TestExtractPOD_BareCityCode(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOD("Hamburg(HAM)")
	if info == nil {
		t.Fatal("Expected a POD match")
	}
	if info.PortName != "Hamburg" {
		t.Errorf("Expected name Hamburg, got %s", info.PortName)
	}
}

func TestExtractPOD_CityCodeDashCountry(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOD("Lagos(LOS) - Nigeria")
	if info == nil {
		t.Fatal("Expected a POD match")
	}
	if info.Code != "LOS" {
		t.Errorf("Expected code LOS, got %s", info.Code)
	}
}

func TestExtractPOD_CityAfterPOLBracket(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOD("ACL(ANR 1333) Halifax Canada")
	if info == nil {
		t.Fatal("Expected a POD match")
	}
	if info.PortName != "Halifax" {
		t.Errorf("Expected registry name Halifax, got %s", info.PortName)
	}
	if info.Code != "HAL" {
		t.Errorf("Expected registry code HAL, got %s", info.Code)
	}
}

func TestExtractPOD_UnknownName(t *testing.T) {
	e := New(testRegistry())

	info := e.ExtractPOD("FCL - Atlantis (ATL)")
	if info == nil {
		t.Fatal("Expected a POD match with bare code")
	}
	if info.Code != "ATL" {
		t.Errorf("Expected bare code ATL, got %s", info.Code)
	}
	if info.Country != "" {
		t.Errorf("Expected empty country, got %s", info.Country)
	}
}

func TestExtractShippingLine(t *testing.T) {
	e := New(testRegistry())

	cases := []struct {
		name string
		want string
	}{
		{"CMA CGM FCL Export Antwerp", "CMA CGM"},
		{"Grimaldi (ANR 1333) Lagos", "GRIMALDI"},
		{"ACL(ANR 1333) Halifax", "ACL"},
		{"Customs admin surcharge", ""},
		// Token-boundary check: MACLEAN must not hit ACL
		{"MACLEAN logistics fee", ""},
	}
	for _, c := range cases {
		if got := e.ExtractShippingLine(c.name); got != c.want {
			t.Errorf("ExtractShippingLine(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestExtractServiceType(t *testing.T) {
	e := New(testRegistry())

	cases := []struct {
		name string
		want string
	}{
		{"Seafreight FCL Export ST332", "FCL_EXPORT"},
		{"RORO Import Antwerp", "RORO_IMPORT"},
		{"Static cargo shipment", "STATIC_CARGO"},
		{"Seafreight Lagos", "SEAFREIGHT"},
		{"Customs clearance", ""},
		// Direction alone is not a service
		{"Export documents", ""},
	}
	for _, c := range cases {
		if got := e.ExtractServiceType(c.name); got != c.want {
			t.Errorf("ExtractServiceType(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
