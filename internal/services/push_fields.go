package services

import (
	"fmt"
	"strings"

	"freightops/harbormaster/internal/fieldmap"
	gormmodels "freightops/harbormaster/internal/models/gorm"
)

// Push field value types, mirroring what the upstream update endpoint
// accepts per field.
type PushFieldType string

const (
	PushString   PushFieldType = "string"
	PushCheckbox PushFieldType = "checkbox"
	PushChoice   PushFieldType = "choice"
	PushNumber   PushFieldType = "number"
)

// PushField declares one pushable field: where it lives locally, what it is
// called upstream and how its value is rendered.
type PushField struct {
	Key          string
	UpstreamName string
	Type         PushFieldType
	Group        string

	// Accessor resolves the local value; nil result skips the field.
	Accessor func(*gormmodels.Article) any
	// Fallback is consulted when Accessor yields nil.
	Fallback func(*gormmodels.Article) any
	// AllowEmpty keeps a field in the payload even when it renders empty.
	AllowEmpty bool
	// TopLevel marks fields sent as payload scalars instead of extraFields.
	TopLevel bool
}

const pushDateLayout = "2006-01-02"

// pushFieldTable is the full set of pushable fields. Loaded once; the
// service never reflects over the article struct at runtime.
var pushFieldTable = []PushField{
	{
		Key:      "sale_price",
		Type:     PushNumber,
		Group:    "pricing",
		TopLevel: true,
		Accessor: func(a *gormmodels.Article) any {
			if a.PriceAmount.IsZero() {
				return nil
			}
			f, _ := a.PriceAmount.Float64()
			return f
		},
	},
	{
		Key:          fieldmap.KeyCarrier,
		UpstreamName: "CARRIER",
		Type:         PushString,
		Group:        "shipping",
		Accessor: func(a *gormmodels.Article) any {
			names := a.CarrierNames()
			if len(names) == 0 {
				return nil
			}
			return names[0]
		},
	},
	{
		Key:          fieldmap.KeyTransportMode,
		UpstreamName: "TRANSPORT_MODE",
		Type:         PushChoice,
		Group:        "shipping",
		Accessor: func(a *gormmodels.Article) any {
			if a.TransportMode == "" {
				return nil
			}
			return a.TransportMode
		},
	},
	{
		Key:          fieldmap.KeyTerminal,
		UpstreamName: "TERMINAL",
		Type:         PushString,
		Group:        "shipping",
		Accessor: func(a *gormmodels.Article) any {
			if a.POLTerminal == "" {
				return nil
			}
			return a.POLTerminal
		},
	},
	{
		Key:          fieldmap.KeyPOLCode,
		UpstreamName: "POL",
		Type:         PushString,
		Group:        "shipping",
		Accessor: func(a *gormmodels.Article) any {
			if a.POLCode == "" {
				return nil
			}
			return a.POLCode
		},
	},
	{
		Key:          fieldmap.KeyPODCode,
		UpstreamName: "POD",
		Type:         PushString,
		Group:        "shipping",
		Accessor: func(a *gormmodels.Article) any {
			if a.PODCode == "" {
				return nil
			}
			return a.PODCode
		},
	},
	{
		Key:          fieldmap.KeyParentItem,
		UpstreamName: "PARENT_ITEM",
		Type:         PushCheckbox,
		Group:        "structure",
		Accessor:     func(a *gormmodels.Article) any { return a.IsParent },
	},
	{
		Key:          fieldmap.KeyMandatory,
		UpstreamName: "MANDATORY",
		Type:         PushCheckbox,
		Group:        "structure",
		Accessor:     func(a *gormmodels.Article) any { return a.Mandatory },
	},
	{
		Key:          fieldmap.KeyMandatoryCondition,
		UpstreamName: "MANDATORY_CONDITION",
		Type:         PushString,
		Group:        "structure",
		Accessor: func(a *gormmodels.Article) any {
			if a.MandatoryCondition == "" {
				return nil
			}
			return a.MandatoryCondition
		},
	},
	{
		Key:          fieldmap.KeyCustomerType,
		UpstreamName: "CUSTOMER_TYPE",
		Type:         PushChoice,
		Group:        "commercial",
		Accessor: func(a *gormmodels.Article) any {
			if a.CustomerType == "" {
				return nil
			}
			return a.CustomerType
		},
	},
	{
		Key:          fieldmap.KeyNotes,
		UpstreamName: "NOTES",
		Type:         PushString,
		Group:        "info",
		Accessor: func(a *gormmodels.Article) any {
			if a.Notes == "" {
				return nil
			}
			return a.Notes
		},
		// Fallback to the structured pricing breakdown when no free-text
		// notes exist.
		Fallback: func(a *gormmodels.Article) any {
			if rendered := renderPricingBreakdown(a); rendered != "" {
				return rendered
			}
			return nil
		},
	},
	{
		Key:          fieldmap.KeyValidFrom,
		UpstreamName: "VALID_FROM",
		Type:         PushString,
		Group:        "validity",
		Accessor: func(a *gormmodels.Article) any {
			if a.ValidFrom == nil {
				return nil
			}
			return a.ValidFrom.Format(pushDateLayout)
		},
	},
	{
		Key:          fieldmap.KeyValidUntil,
		UpstreamName: "VALID_UNTIL",
		Type:         PushString,
		Group:        "validity",
		Accessor: func(a *gormmodels.Article) any {
			if a.ValidUntil == nil {
				return nil
			}
			return a.ValidUntil.Format(pushDateLayout)
		},
	},
	{
		Key:          "quantity_tier",
		UpstreamName: "QUANTITY_TIER",
		Type:         PushString,
		Group:        "pricing",
		Accessor: func(a *gormmodels.Article) any {
			if a.QtyLabel == "" {
				return nil
			}
			return a.QtyLabel
		},
	},
}

// pushFieldByKey indexes the table once at load.
var pushFieldByKey = func() map[string]*PushField {
	m := make(map[string]*PushField, len(pushFieldTable))
	for i := range pushFieldTable {
		m[pushFieldTable[i].Key] = &pushFieldTable[i]
	}
	return m
}()

// AllPushFieldKeys returns every pushable key, table order preserved.
func AllPushFieldKeys() []string {
	keys := make([]string, len(pushFieldTable))
	for i := range pushFieldTable {
		keys[i] = pushFieldTable[i].Key
	}
	return keys
}

// renderPricingBreakdown renders the structured pricing formula and
// quantity tier as the multi-line note block the upstream UI shows.
func renderPricingBreakdown(a *gormmodels.Article) string {
	var lines []string
	if a.FormulaDivisor > 0 {
		line := fmt.Sprintf("Price: %s / %d", a.FormulaBase, a.FormulaDivisor)
		if !a.FormulaFixed.IsZero() {
			line += " + " + a.FormulaFixed.String()
		}
		lines = append(lines, line)
	}
	if a.QtyMax > 0 {
		lines = append(lines, fmt.Sprintf("Quantity: %d-%d (%s)", a.QtyMin, a.QtyMax, a.QtyLabel))
	}
	return strings.Join(lines, "\n")
}

// formatPushValue renders a resolved value for diffing and payload
// building. Strings are trimmed and upper-cased except free-text groups;
// numbers keep their natural rendering.
func formatPushValue(field *PushField, value any) string {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if field.Group == "info" || field.Group == "validity" {
			return v
		}
		return strings.ToUpper(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
	default:
		return ""
	}
}
