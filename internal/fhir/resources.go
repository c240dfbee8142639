package fhir

// Parameters is the FHIR R4 Parameters resource, reduced to the fields the
// terminology operations produce and consume.
type Parameters struct {
	ResourceType string      `json:"resourceType"`
	Parameter    []Parameter `json:"parameter"`
}

type Parameter struct {
	Name        string      `json:"name"`
	ValueString string      `json:"valueString,omitempty"`
	ValueCoding *Coding     `json:"valueCoding,omitempty"`
	Part        []Parameter `json:"part,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// ValueSet carries only the expansion portion of the FHIR ValueSet resource.
type ValueSet struct {
	ResourceType string    `json:"resourceType"`
	URL          string    `json:"url,omitempty"`
	Expansion    Expansion `json:"expansion"`
}

type Expansion struct {
	Total    int        `json:"total"`
	Offset   int        `json:"offset"`
	Contains []Contains `json:"contains"`
}

type Contains struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

func NewParameters(parameters ...Parameter) *Parameters {
	return &Parameters{
		ResourceType: "Parameters",
		Parameter:    parameters,
	}
}

// NewErrorParameters reports an operation failure the way the terminology
// operations do: a false result plus a human readable message.
func NewErrorParameters(message string) *Parameters {
	return NewParameters(
		Parameter{Name: "result", ValueString: "false"},
		Parameter{Name: "message", ValueString: message},
	)
}
