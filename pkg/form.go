package pkg

// FormField describes one input of a form, returned on GET so clients can render it.
type FormField struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Required  bool     `json:"required"`
	MinLength int      `json:"min_length,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Value     any      `json:"value,omitempty"`
}

type Form struct {
	Fields []FormField `json:"fields"`
}

func NewForm(fields ...FormField) Form {
	return Form{Fields: fields}
}

// WithValues returns a copy of the form with field values prefilled.
func (f Form) WithValues(values map[string]any) Form {
	fields := make([]FormField, len(f.Fields))
	copy(fields, f.Fields)
	for i := range fields {
		if v, ok := values[fields[i].Name]; ok {
			fields[i].Value = v
		}
	}
	return Form{Fields: fields}
}

func Bound(v float64) *float64 {
	return &v
}
