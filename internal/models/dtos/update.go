package dtos

// -------- push payloads ----------------------------------------------------

// Upstream value types accepted by the update endpoint.
const (
	UpdateTypeString  = "string"
	UpdateTypeBoolean = "boolean"
	UpdateTypeDecimal = "decimal"
	UpdateTypeInteger = "integer"
)

// ArticleUpdate is a partial update payload. Top-level scalars are optional;
// ExtraFields is keyed by the upstream field label, not the canonical key.
type ArticleUpdate struct {
	SalePrice   *float64               `json:"salePrice,omitempty"`
	CostPrice   *float64               `json:"costPrice,omitempty"`
	ExtraFields map[string]UpdateField `json:"extraFields,omitempty"`
}

// UpdateField carries one typed value. Exactly one value slot is set,
// matching Type.
type UpdateField struct {
	Type         string   `json:"type"`
	StringValue  *string  `json:"stringValue,omitempty"`
	BoolValue    *bool    `json:"boolValue,omitempty"`
	DecimalValue *float64 `json:"decimalValue,omitempty"`
	IntegerValue *int64   `json:"integerValue,omitempty"`
	Group        string   `json:"group,omitempty"`
}

// IsEmpty reports whether the update carries nothing to send.
func (u *ArticleUpdate) IsEmpty() bool {
	return u.SalePrice == nil && u.CostPrice == nil && len(u.ExtraFields) == 0
}

// StringField builds a string-typed update entry.
func StringField(v, group string) UpdateField {
	return UpdateField{Type: UpdateTypeString, StringValue: &v, Group: group}
}

// BoolField builds a boolean-typed update entry.
func BoolField(v bool, group string) UpdateField {
	return UpdateField{Type: UpdateTypeBoolean, BoolValue: &v, Group: group}
}

// DecimalField builds a decimal-typed update entry.
func DecimalField(v float64, group string) UpdateField {
	return UpdateField{Type: UpdateTypeDecimal, DecimalValue: &v, Group: group}
}

// IntegerField builds an integer-typed update entry.
func IntegerField(v int64, group string) UpdateField {
	return UpdateField{Type: UpdateTypeInteger, IntegerValue: &v, Group: group}
}
