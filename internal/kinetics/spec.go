package kinetics

// ModelSpec is the plain-data structural model handed over by an importer.
type ModelSpec struct {
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Species   []SpeciesSpec      `json:"species" yaml:"species"`
	Reactions []ReactionSpec     `json:"reactions" yaml:"reactions"`
	Constants map[string]float64 `json:"constants,omitempty" yaml:"constants,omitempty"`
}

type SpeciesSpec struct {
	ID                   string  `json:"id" yaml:"id"`
	Name                 string  `json:"name,omitempty" yaml:"name,omitempty"`
	InitialConcentration float64 `json:"initial_concentration" yaml:"initial_concentration"`
	Compartment          string  `json:"compartment,omitempty" yaml:"compartment,omitempty"`
}

type ReactionSpec struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Reactants  []string    `json:"reactants" yaml:"reactants"`
	Products   []string    `json:"products" yaml:"products"`
	Modifiers  []string    `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Reversible bool        `json:"reversible,omitempty" yaml:"reversible,omitempty"`
	RateLaw    string      `json:"rate_law,omitempty" yaml:"rate_law,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Parameter is a kinetic-law local binding. It is inlined into the rate law
// at compile time and not kept afterwards.
type Parameter struct {
	ID    string  `json:"id" yaml:"id"`
	Value float64 `json:"value" yaml:"value"`
}
