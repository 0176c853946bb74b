package domain

// FieldType is the input kind of a custom field.
type FieldType string

const (
	FieldSelect FieldType = "select"
	FieldOther  FieldType = "other"
)

// CustomField is an admin-defined extra attribute stored in Candidate.Custom.
type CustomField struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options"`
}

// DefaultFields is the field list written on first start.
func DefaultFields() []CustomField {
	return []CustomField{{
		Key:   "prevJob",
		Label: "وظيفة سابقة",
		Type:  FieldSelect,
		Options: []string{
			"عاطل", "كهرب", "تكسي", "قمامه", "سطحه", "عدل",
			"شرطه", "مطعم", "ورشه", "منجم", "تدوير", "خياطه",
		},
	}}
}
