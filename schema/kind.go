package schema

import "fmt"

// Kind classifies how a field's raw value is rendered for audit display.
// The set is closed: there is deliberately no fallback rule, so a kind
// missing from the formatter dispatch fails loudly instead of silently
// stringifying (taxonomy drift must be visible).
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindLongText
	KindNumber
	KindLongInteger
	KindDate
	KindTimestamp
	KindCurrency
	KindYesNo
	KindFileReference
	KindWorkflowStateLabel
	KindMaskedCredential
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindText:               "text",
	KindLongText:           "long_text",
	KindNumber:             "number",
	KindLongInteger:        "long_integer",
	KindDate:               "date",
	KindTimestamp:          "timestamp",
	KindCurrency:           "currency",
	KindYesNo:              "yes_no",
	KindFileReference:      "file_reference",
	KindWorkflowStateLabel: "workflow_state_label",
	KindMaskedCredential:   "masked_credential",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a stored metadata discriminator to a Kind.
// Metadata rows carry the snake_case form.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindUnknown {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("schema: unrecognized field kind %q", s)
}
