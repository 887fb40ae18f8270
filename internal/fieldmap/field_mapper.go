// Package fieldmap resolves the upstream ERP's inconsistent custom-field
// spellings into canonical typed values. The upstream UI lets operators name
// fields freely, so the same logical field shows up as "PARENT_ITEM",
// "Parent Item" or "ParentItem" depending on who configured the tenant.
package fieldmap

import (
	"strings"

	"freightops/harbormaster/internal/models/dtos"
)

// Canonical field keys used by the sync and push services.
const (
	KeyCarrier            = "carrier"
	KeyTransportMode      = "transport_mode"
	KeyTerminal           = "terminal"
	KeyPOLCode            = "pol_code"
	KeyPODCode            = "pod_code"
	KeyParentItem         = "parent_item"
	KeyMandatory          = "mandatory"
	KeyMandatoryCondition = "mandatory_condition"
	KeyNotes              = "notes"
	KeyCustomerType       = "customer_type"
	KeyDescriptionInfo    = "description_info"
	KeyUpdateDate         = "update_date"
	KeyValidFrom          = "valid_from"
	KeyValidUntil         = "valid_until"
)

// fieldVariants maps each canonical key to the upstream spellings seen in
// production tenants, most common first. Order matters: the first spelling
// present in a payload wins.
var fieldVariants = map[string][]string{
	KeyCarrier:            {"CARRIER", "Carrier", "SHIPPING_LINE", "Shipping Line", "ShippingLine", "carrier"},
	KeyTransportMode:      {"TRANSPORT_MODE", "Transport Mode", "TransportMode", "MODE", "Mode", "transport_mode"},
	KeyTerminal:           {"TERMINAL", "Terminal", "POL_TERMINAL", "Pol Terminal", "terminal"},
	KeyPOLCode:            {"POL", "POL_CODE", "Pol Code", "PolCode", "PORT_OF_LOADING", "Port of Loading", "pol"},
	KeyPODCode:            {"POD", "POD_CODE", "Pod Code", "PodCode", "PORT_OF_DISCHARGE", "Port of Discharge", "pod"},
	KeyParentItem:         {"PARENT_ITEM", "Parent Item", "ParentItem", "IS_PARENT", "Is Parent", "parent_item"},
	KeyMandatory:          {"MANDATORY", "Mandatory", "REQUIRED", "Required", "mandatory"},
	KeyMandatoryCondition: {"MANDATORY_CONDITION", "Mandatory Condition", "MandatoryCondition", "CONDITION", "Condition"},
	KeyNotes:              {"NOTES", "Notes", "REMARKS", "Remarks", "COMMENT", "Comment", "notes"},
	KeyCustomerType:       {"CUSTOMER_TYPE", "Customer Type", "CustomerType", "CLIENT_TYPE", "Client Type"},
	KeyDescriptionInfo:    {"DESCRIPTION_INFO", "Description Info", "DescriptionInfo", "INFO", "Info"},
	KeyUpdateDate:         {"UPDATE_DATE", "Update Date", "UpdateDate", "LAST_UPDATE", "Last Update"},
	KeyValidFrom:          {"VALID_FROM", "Valid From", "ValidFrom", "VALIDITY_START", "Validity Start"},
	KeyValidUntil:         {"VALID_UNTIL", "Valid Until", "ValidUntil", "VALIDITY_END", "Validity End", "VALID_TO", "Valid To"},
}

// Mapper resolves canonical keys against a decoded extraFields dictionary.
type Mapper struct {
	variants map[string][]string
}

// New returns a Mapper with the production variant table.
func New() *Mapper {
	return &Mapper{variants: fieldVariants}
}

// FindFieldValue returns the value of the first accepted spelling present in
// fields, taking the first populated typed slot of that entry. Returns nil
// when no spelling matches or the matched entry has no value.
func (m *Mapper) FindFieldValue(fields map[string]*dtos.ExtraField, canonicalKey string) any {
	for _, spelling := range m.variants[canonicalKey] {
		if f, ok := fields[spelling]; ok && f != nil {
			if v := f.FirstValue(); v != nil {
				return v
			}
		}
	}
	return nil
}

// FindStringValue is FindFieldValue narrowed to a trimmed string. Non-string
// values are rendered via their natural string form only for booleans.
func (m *Mapper) FindStringValue(fields map[string]*dtos.ExtraField, canonicalKey string) string {
	v := m.FindFieldValue(fields, canonicalKey)
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// GetBooleanValue normalizes native booleans, numeric truthiness and string
// forms to a boolean. It returns nil only when the field itself is absent.
func (m *Mapper) GetBooleanValue(fields map[string]*dtos.ExtraField, canonicalKey string) *bool {
	if !m.HasField(fields, canonicalKey) {
		return nil
	}
	v := m.FindFieldValue(fields, canonicalKey)
	result := toBool(v)
	return &result
}

// HasField reports whether any accepted spelling of the canonical key is
// present, regardless of whether its value is populated.
func (m *Mapper) HasField(fields map[string]*dtos.ExtraField, canonicalKey string) bool {
	for _, spelling := range m.variants[canonicalKey] {
		if _, ok := fields[spelling]; ok {
			return true
		}
	}
	return false
}

// ActualFieldName returns the spelling that matched, used to decide
// create-vs-update eligibility for choice-type fields on push. Empty string
// when no spelling is present.
func (m *Mapper) ActualFieldName(fields map[string]*dtos.ExtraField, canonicalKey string) string {
	for _, spelling := range m.variants[canonicalKey] {
		if _, ok := fields[spelling]; ok {
			return spelling
		}
	}
	return ""
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1", "on":
			return true
		}
	}
	return false
}
