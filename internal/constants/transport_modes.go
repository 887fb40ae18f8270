package constants

// Canonical transport modes. An article's transport_mode is always one of
// these, "OTHER", or empty when nothing could be inferred.
const (
	ModeFCL          = "FCL"
	ModeLCL          = "LCL"
	ModeRoRo         = "RORO"
	ModeAirfreight   = "AIRFREIGHT"
	ModeBreakBulk    = "BREAK_BULK"
	ModeRoad         = "ROAD"
	ModeCustoms      = "CUSTOMS"
	ModeHomologation = "HOMOLOGATION"
	ModeWarehouse    = "WAREHOUSE"
	ModeSeafreight   = "SEAFREIGHT"
	ModeOther        = "OTHER"
)

// CanonicalModes lists every accepted transport mode in resolution order.
var CanonicalModes = []string{
	ModeFCL,
	ModeLCL,
	ModeRoRo,
	ModeAirfreight,
	ModeBreakBulk,
	ModeRoad,
	ModeCustoms,
	ModeHomologation,
	ModeWarehouse,
	ModeSeafreight,
	ModeOther,
}

// ModeSynonyms maps upstream spellings to canonical modes. Checked before
// the canonical set itself.
var ModeSynonyms = map[string]string{
	"RO-RO":            ModeRoRo,
	"RO/RO":            ModeRoRo,
	"ROLL-ON/ROLL-OFF": ModeRoRo,
	"ROLL ON ROLL OFF": ModeRoRo,
	"AIR":              ModeAirfreight,
	"AIR FREIGHT":      ModeAirfreight,
	"AIRCARGO":         ModeAirfreight,
	"SEA":              ModeSeafreight,
	"SEA FREIGHT":      ModeSeafreight,
	"OCEAN":            ModeSeafreight,
	"BREAKBULK":        ModeBreakBulk,
	"BREAK BULK":       ModeBreakBulk,
	"CONVENTIONAL":     ModeBreakBulk,
	"TRUCKING":         ModeRoad,
	"HAULAGE":          ModeRoad,
	"FULL CONTAINER":   ModeFCL,
	"GROUPAGE":         ModeLCL,
	"STORAGE":          ModeWarehouse,
}

// Keyword tables for the transport mode resolver. Each table is scanned
// against the concatenated name+description+code search text.

// ContainerKeywords force FCL immediately when present.
var ContainerKeywords = []string{"FCL", "CONTAINER", "20FT", "40FT", "20 FT", "40 FT", "REEFER"}

// LCLKeywords force LCL immediately when present.
var LCLKeywords = []string{"LCL", "GROUPAGE", "CONSOLIDATION"}

// AirKeywords force AIRFREIGHT immediately when present.
var AirKeywords = []string{"AIRFREIGHT", "AIR FREIGHT", "AIR CARGO", "AWB"}

// BreakBulkKeywords force BREAK_BULK immediately when present.
var BreakBulkKeywords = []string{"BREAK BULK", "BREAKBULK", "BREAK-BULK"}

// RoadKeywords force ROAD immediately when present.
var RoadKeywords = []string{"ROAD TRANSPORT", "TRUCKING", "HAULAGE", "INLAND TRANSPORT"}

// CustomsKeywords force CUSTOMS immediately when present.
var CustomsKeywords = []string{"CUSTOMS", "CLEARANCE", "EXPORT DOCUMENT", "IMPORT DOCUMENT", "T1 DOCUMENT"}

// RoRoKeywords mark an article as roll-on/roll-off.
var RoRoKeywords = []string{"RORO", "RO-RO", "RO/RO", "ROLL ON", "ROLL-ON"}

// HomologationKeywords mark vehicle homologation services.
var HomologationKeywords = []string{"HOMOLOGATION", "HOMOLOGATIE", "COC DOCUMENT"}

// WarehouseKeywords mark warehouse and storage services.
var WarehouseKeywords = []string{"WAREHOUSE", "WAREHOUSING", "STORAGE", "DEMURRAGE"}

// VehicleCommodities are commodity words that, combined with a known RoRo
// carrier, imply RoRo transport even without an explicit mode keyword.
var VehicleCommodities = []string{
	"CAR", "VEHICLE", "VAN", "TRUCK", "MOTORCYCLE", "MOTORHOME",
	"CAMPER", "BOAT", "TRAILER", "EXCAVATOR", "TRACTOR", "MACHINE",
}

// RoRoCarriers are carriers that operate RoRo services. Seeing one of these
// names together with a vehicle commodity or a seafreight mention implies RoRo.
var RoRoCarriers = []string{
	"ACL", "GRIMALDI", "SALLAUM", "NMT", "HOEGH", "HÖEGH",
	"WALLENIUS", "EUKOR", "MOL ACE", "GLOVIS", "ARC",
}
