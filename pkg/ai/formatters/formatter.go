package formatters

import (
	"encoding/json"

	"resume-builder/pkg/ai"
)

// Temperature is fixed at zero for every prompt so repeated runs over the
// same inputs stay as close to deterministic as the model allows.
const Temperature float32 = 0

// Formatter carries what every prompt builder needs to issue a call.
type Formatter struct {
	gen   ai.Generator
	model string
}

func mustMarshal(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
