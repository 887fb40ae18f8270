package constants

// Service tags applied to articles. Direction-qualified tags are preferred
// over bare ones when the article name names a direction.
const (
	ServiceFCLExport    = "FCL_EXPORT"
	ServiceFCLImport    = "FCL_IMPORT"
	ServiceRoRoExport   = "RORO_EXPORT"
	ServiceRoRoImport   = "RORO_IMPORT"
	ServiceStaticExport = "STATIC_CARGO_EXPORT"
	ServiceStaticImport = "STATIC_CARGO_IMPORT"
	ServiceSeaExport    = "SEAFREIGHT_EXPORT"
	ServiceSeaImport    = "SEAFREIGHT_IMPORT"
	ServiceFCL          = "FCL"
	ServiceRoRo         = "RORO"
	ServiceStaticCargo  = "STATIC_CARGO"
	ServiceSeafreight   = "SEAFREIGHT"
)

// ServiceBaseKeywords maps a service family to the keywords that select it.
// Families are checked in this order; EXPORT/IMPORT is resolved first and
// qualifies whichever family matches.
var ServiceBaseKeywords = []struct {
	Base     string
	Keywords []string
}{
	{Base: "RORO", Keywords: []string{"RORO", "RO-RO", "RO/RO"}},
	{Base: "FCL", Keywords: []string{"FCL", "CONTAINER"}},
	{Base: "STATIC_CARGO", Keywords: []string{"STATIC CARGO", "STATIC-CARGO", "STATIC"}},
	{Base: "SEAFREIGHT", Keywords: []string{"SEAFREIGHT", "SEA FREIGHT"}},
}

// Article categories with their classification keywords, scanned in order.
const (
	CategoryFreight       = "FREIGHT"
	CategoryCustoms       = "CUSTOMS"
	CategoryHandling      = "HANDLING"
	CategoryDocumentation = "DOCUMENTATION"
	CategoryStorage       = "STORAGE"
	CategoryInspection    = "INSPECTION"
	CategorySurcharge     = "SURCHARGE"
	CategoryOther         = "OTHER"
)

// CategoryKeywords is scanned in order; the first family with a keyword hit
// classifies the article.
var CategoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{Category: CategoryCustoms, Keywords: []string{"CUSTOMS", "CLEARANCE", "T1", "EX-A", "EUR1"}},
	{Category: CategoryDocumentation, Keywords: []string{"DOCUMENT", "BILL OF LADING", "B/L", "CERTIFICATE", "ADMIN"}},
	{Category: CategoryHandling, Keywords: []string{"HANDLING", "LASHING", "STUFFING", "STRIPPING", "LOADING"}},
	{Category: CategoryStorage, Keywords: []string{"STORAGE", "WAREHOUSE", "DEMURRAGE", "DETENTION"}},
	{Category: CategoryInspection, Keywords: []string{"INSPECTION", "SURVEY", "FUMIGATION", "QUARANTINE"}},
	{Category: CategorySurcharge, Keywords: []string{"SURCHARGE", "BAF", "CAF", "ISPS", "THC"}},
	{Category: CategoryFreight, Keywords: []string{"SEAFREIGHT", "FREIGHT", "FCL", "RORO", "TRANSPORT"}},
}

// ParentKeywords mark an article as a parent service line. Exclusions are
// checked first and win over inclusions.
var ParentKeywords = []string{"SEAFREIGHT", "RORO", "FCL", "ALL-IN", "ALL IN", "DOOR TO DOOR", "DOOR-TO-DOOR"}

// ParentExclusionKeywords disqualify an article from being a parent even when
// a parent keyword matches.
var ParentExclusionKeywords = []string{"SURCHARGE", "ADDITIONAL", "EXTRA", "CORRECTION", "DISCOUNT", "ADMIN FEE"}

// SurchargeKeywords mark an article as a surcharge/child line. Exclusions are
// checked first and win.
var SurchargeKeywords = []string{
	"SURCHARGE", "ADMIN", "BAF", "CAF", "ISPS", "THC", "HANDLING",
	"CUSTOMS", "CLEARANCE", "DOCUMENT", "LASHING", "EXTRA", "ADDITIONAL",
	"INSPECTION", "STORAGE", "WAIVER", "TELEX",
}

// SurchargeExclusionKeywords disqualify an article from being a surcharge.
var SurchargeExclusionKeywords = []string{"SEAFREIGHT", "ALL-IN", "ALL IN"}

// ShippingLines lists carrier names matched against article names, most
// specific first so that e.g. "CMA CGM" beats "CMA".
var ShippingLines = []string{
	"CMA CGM", "HAPAG LLOYD", "HAPAG-LLOYD", "MOL ACE", "MAERSK", "MSC",
	"COSCO", "EVERGREEN", "ONE", "GRIMALDI", "ACL", "SALLAUM", "NMT",
	"HOEGH", "HÖEGH", "WALLENIUS", "EUKOR", "GLOVIS", "ARC", "OOCL",
	"YANG MING", "ZIM", "HMM",
}

// CarrierCodePrefix maps a carrier name to the article code prefix used when
// the code cannot be parsed from the name itself.
var CarrierCodePrefix = map[string]string{
	"MAERSK":    "MAE",
	"MSC":       "MSC",
	"CMA CGM":   "CMA",
	"GRIMALDI":  "GRI",
	"ACL":       "ACL",
	"SALLAUM":   "SAL",
	"NMT":       "NMT",
	"HOEGH":     "HOE",
	"WALLENIUS": "WAL",
	"EVERGREEN": "EVE",
	"COSCO":     "COS",
}
