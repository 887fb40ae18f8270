// Package extract parses structured shipping attributes out of the free-text
// article names operators type into the upstream ERP. Nothing here is exact:
// every extractor tries ordered alternatives from most to least specific and
// returns nil/empty when no idiom matches.
package extract

import (
	"regexp"
	"strings"

	"freightops/harbormaster/internal/constants"
	gormmodels "freightops/harbormaster/internal/models/gorm"
)

// PortLookup is the slice of the port registry the extractor needs.
type PortLookup interface {
	PortByCode(code string) *gormmodels.Port
	PortByNameContains(text string) *gormmodels.Port
}

// PortInfo is a resolved (or partially resolved) port reference.
type PortInfo struct {
	Code      string
	PortName  string
	Country   string
	Terminal  string
	Formatted string
}

// Extractor parses POL/POD/carrier/service attributes from article names.
type Extractor struct {
	ports PortLookup
}

func New(ports PortLookup) *Extractor {
	return &Extractor{ports: ports}
}

// POL bracket idioms, most specific first. The plain 3-letter pattern
// requires the closing bracket right after the code so that terminal-numbered
// brackets fall through to the stricter patterns below.
var (
	polCodeOnly      = regexp.MustCompile(`\(([A-Z]{3})\)`)
	polCodeTerminal  = regexp.MustCompile(`\(([A-Z]{3,4}) ?(\d+)\)`)
	polCodeTermSlash = regexp.MustCompile(`\(([A-Z]{3,4}) ?(\d+/\d+)\)`)
)

// ExtractPOL parses the port of loading from an article name. Returns nil
// when no bracket idiom matches. When the registry has no entry for the
// parsed code, the bare code is returned with the other fields empty.
func (e *Extractor) ExtractPOL(name string) *PortInfo {
	type polMatch struct {
		code     string
		terminal string
	}
	var m *polMatch

	if g := polCodeOnly.FindStringSubmatch(name); g != nil {
		m = &polMatch{code: g[1]}
	} else if g := polCodeTerminal.FindStringSubmatch(name); g != nil {
		m = &polMatch{code: g[1], terminal: g[2]}
	} else if g := polCodeTermSlash.FindStringSubmatch(name); g != nil {
		m = &polMatch{code: g[1], terminal: g[2]}
	}
	if m == nil {
		return nil
	}

	info := &PortInfo{Code: m.code, Terminal: m.terminal}
	if e.ports != nil {
		if port := e.ports.PortByCode(m.code); port != nil {
			info.PortName = port.Name
			info.Country = port.Country
			info.Formatted = formatPort(port.Name, m.code, m.terminal)
		}
	}
	return info
}

// POD idioms in priority order. Stronger punctuation idioms first; the bare
// "City(CODE)" form is tried last because it matches almost anything.
var podPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bFCL\s*-\s*([A-Za-z .]+?)\s*\(([A-Z]{3,4})\)`),
	regexp.MustCompile(`\b(?:RORO|RO-RO|LCL)\s*-\s*([A-Za-z .]+?)\s*\(([A-Z]{3,4})\)`),
	regexp.MustCompile(`([A-Za-z .]+?)\s*\(([A-Z]{3,4})\)\s*-\s*[A-Za-z]`),
	regexp.MustCompile(`(?i)\bto\s+([A-Za-z .]+?)\s*\(([A-Z]{3,4})\)`),
	regexp.MustCompile(`\([A-Z]{3,4} ?\d*(?:/\d+)?\)\s+([A-Za-z][A-Za-z .]+)`),
	regexp.MustCompile(`-\s*([A-Za-z][A-Za-z .]+?)\s*$`),
	regexp.MustCompile(`([A-Za-z .]+?)\s*\(([A-Z]{3,4})\)`),
}

// ExtractPOD parses the port of discharge. Each matched name is resolved via
// a contains lookup against the registry; patterns that also capture a code
// fall back to the bare code when the name lookup misses.
func (e *Extractor) ExtractPOD(name string) *PortInfo {
	for _, p := range podPatterns {
		g := p.FindStringSubmatch(name)
		if g == nil {
			continue
		}
		portName := strings.TrimSpace(g[1])
		code := ""
		if len(g) > 2 {
			code = g[2]
		}
		if portName == "" {
			continue
		}

		if e.ports != nil {
			if port := e.ports.PortByNameContains(portName); port != nil {
				return &PortInfo{
					Code:      port.Code,
					PortName:  port.Name,
					Country:   port.Country,
					Formatted: formatPort(port.Name, port.Code, ""),
				}
			}
		}
		if code != "" {
			return &PortInfo{Code: code, PortName: portName}
		}
		// Name-only idiom with no registry hit: keep trying looser patterns.
	}
	return nil
}

// ExtractShippingLine scans the known carrier list against the name, most
// specific entry first, and returns the canonical carrier name or "".
func (e *Extractor) ExtractShippingLine(name string) string {
	upper := strings.ToUpper(name)
	for _, line := range constants.ShippingLines {
		if containsWord(upper, line) {
			return line
		}
	}
	return ""
}

// ExtractServiceType infers the applicable-service tag from a name. The
// direction is resolved first, then the service family keywords; a matched
// family with a known direction yields the qualified tag.
func (e *Extractor) ExtractServiceType(name string) string {
	upper := strings.ToUpper(name)

	direction := ""
	if strings.Contains(upper, "EXPORT") {
		direction = "EXPORT"
	} else if strings.Contains(upper, "IMPORT") {
		direction = "IMPORT"
	}

	for _, family := range constants.ServiceBaseKeywords {
		for _, kw := range family.Keywords {
			if strings.Contains(upper, kw) {
				if direction != "" {
					return family.Base + "_" + direction
				}
				return family.Base
			}
		}
	}
	return ""
}

func formatPort(name, code, terminal string) string {
	if terminal != "" {
		return name + " (" + code + " " + terminal + ")"
	}
	return name + " (" + code + ")"
}

var nonWord = regexp.MustCompile(`[^A-Z0-9]+`)

// containsWord matches a multi-word needle on token boundaries so that short
// carrier names like ACL or ONE do not hit inside longer words.
func containsWord(haystack, needle string) bool {
	hay := " " + nonWord.ReplaceAllString(haystack, " ") + " "
	ndl := " " + nonWord.ReplaceAllString(strings.ToUpper(needle), " ") + " "
	return strings.Contains(hay, ndl)
}
