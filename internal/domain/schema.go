package domain

// TargetSchema is the profile layout a template asks for, as inferred from
// the template document. Only SchemaKeys are ever present.
type TargetSchema map[string]interface{}

var SchemaKeys = []string{"name", "designation", "objective", "education", "skills", "project_details"}

// DefaultSchema returns every schema key with a blank value.
func DefaultSchema() TargetSchema {
	return TargetSchema{
		"name":            "",
		"designation":     "",
		"objective":       "",
		"education":       []interface{}{},
		"skills":          []interface{}{},
		"project_details": map[string]interface{}{},
	}
}

// ProjectSchema keeps the six schema keys of m, filling blanks for the
// missing ones. A nil m yields DefaultSchema.
func ProjectSchema(m map[string]interface{}) TargetSchema {
	out := DefaultSchema()
	for _, k := range SchemaKeys {
		if v, ok := m[k]; ok && v != nil {
			out[k] = v
		}
	}
	return out
}

// Map returns the schema as a plain map for prompt embedding.
func (s TargetSchema) Map() map[string]interface{} {
	return map[string]interface{}(s)
}
