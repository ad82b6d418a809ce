package activity

// FieldType tells a host how to collect a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextArea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldNumber   FieldType = "number"
)

// Field is one input of an activity form. Values travel as strings;
// checkboxes use "true" and "".
type Field struct {
	Name     string     `json:"name"`
	LabelKey string     `json:"label_key"`
	Type     FieldType  `json:"type"`
	Required bool       `json:"required,omitempty"`
	Options  []string   `json:"options,omitempty"`
	Value    string     `json:"value,omitempty"`
	ShowWhen *Condition `json:"show_when,omitempty"`

	// OptionPrefix is prepended to an option to form its message key.
	OptionPrefix string `json:"-"`

	// Display text, filled in by the dialog layer.
	Label        string   `json:"label,omitempty"`
	OptionLabels []string `json:"option_labels,omitempty"`
}

// Condition makes a field visible only while another field has a value.
type Condition struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// Visible reports whether f applies given the current form values.
func (f Field) Visible(values map[string]string) bool {
	if f.ShowWhen == nil {
		return true
	}
	return values[f.ShowWhen.Field] == f.ShowWhen.Equals
}

// Values collects the current value of every field by name.
func Values(fields []Field) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Value
	}
	return values
}

// WithValues returns a copy of fields with values applied by name.
func WithValues(fields []Field, values map[string]string) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		if v, ok := values[f.Name]; ok {
			f.Value = v
		}
		out[i] = f
	}
	return out
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return ""
}
