package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/sigpath/internal/kinetics"
)

var ErrStoichiometry = errors.New("model: unsupported stoichiometry")

// maxStoichiometry bounds how many times one species reference is repeated.
const maxStoichiometry = 1000

type sbmlDoc struct {
	XMLName xml.Name  `xml:"sbml"`
	Level   int       `xml:"level,attr"`
	Model   sbmlModel `xml:"model"`
}

type sbmlModel struct {
	ID           string            `xml:"id,attr"`
	Name         string            `xml:"name,attr"`
	Compartments []sbmlCompartment `xml:"listOfCompartments>compartment"`
	Species      []sbmlSpecies     `xml:"listOfSpecies>species"`
	Parameters   []sbmlParameter   `xml:"listOfParameters>parameter"`
	Reactions    []sbmlReaction    `xml:"listOfReactions>reaction"`
}

type sbmlCompartment struct {
	ID   string   `xml:"id,attr"`
	Size *float64 `xml:"size,attr"`
}

type sbmlSpecies struct {
	ID                   string   `xml:"id,attr"`
	Name                 string   `xml:"name,attr"`
	Compartment          string   `xml:"compartment,attr"`
	InitialConcentration *float64 `xml:"initialConcentration,attr"`
	InitialAmount        *float64 `xml:"initialAmount,attr"`
}

type sbmlParameter struct {
	ID    string  `xml:"id,attr"`
	Value float64 `xml:"value,attr"`
}

type sbmlSpeciesRef struct {
	Species       string   `xml:"species,attr"`
	Stoichiometry *float64 `xml:"stoichiometry,attr"`
}

type sbmlReaction struct {
	ID         string           `xml:"id,attr"`
	Name       string           `xml:"name,attr"`
	Reversible *bool            `xml:"reversible,attr"`
	Reactants  []sbmlSpeciesRef `xml:"listOfReactants>speciesReference"`
	Products   []sbmlSpeciesRef `xml:"listOfProducts>speciesReference"`
	Modifiers  []sbmlSpeciesRef `xml:"listOfModifiers>modifierSpeciesReference"`
	Law        *sbmlKineticLaw  `xml:"kineticLaw"`
}

type sbmlKineticLaw struct {
	Math            *mathNode       `xml:"math"`
	Parameters      []sbmlParameter `xml:"listOfParameters>parameter"`
	LocalParameters []sbmlParameter `xml:"listOfLocalParameters>localParameter"`
}

// DecodeSBML reads the SBML subset needed for kinetic simulation. Global
// parameters and compartment sizes become model constants.
func DecodeSBML(r io.Reader) (*kinetics.ModelSpec, error) {
	var doc sbmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sbml: %w", err)
	}
	m := doc.Model

	name := m.Name
	if name == "" {
		name = m.ID
	}
	spec := &kinetics.ModelSpec{
		Name:      name,
		Constants: make(map[string]float64),
	}

	sizes := make(map[string]float64, len(m.Compartments))
	for _, c := range m.Compartments {
		size := 1.0
		if c.Size != nil {
			size = *c.Size
		}
		sizes[c.ID] = size
		spec.Constants[c.ID] = size
	}
	for _, p := range m.Parameters {
		spec.Constants[p.ID] = p.Value
	}

	for _, s := range m.Species {
		sp := kinetics.SpeciesSpec{ID: s.ID, Name: s.Name, Compartment: s.Compartment}
		switch {
		case s.InitialConcentration != nil:
			sp.InitialConcentration = *s.InitialConcentration
		case s.InitialAmount != nil:
			vol, ok := sizes[s.Compartment]
			if !ok || vol == 0 {
				vol = 1
			}
			sp.InitialConcentration = *s.InitialAmount / vol
		}
		spec.Species = append(spec.Species, sp)
	}

	for _, rx := range m.Reactions {
		rs := kinetics.ReactionSpec{ID: rx.ID, Name: rx.Name}
		// SBML level 2 defaults reversible to true.
		rs.Reversible = rx.Reversible == nil || *rx.Reversible

		var err error
		if rs.Reactants, err = expand(rx.ID, rx.Reactants); err != nil {
			return nil, err
		}
		if rs.Products, err = expand(rx.ID, rx.Products); err != nil {
			return nil, err
		}
		for _, mod := range rx.Modifiers {
			rs.Modifiers = append(rs.Modifiers, mod.Species)
		}

		if law := rx.Law; law != nil {
			if law.Math != nil {
				rs.RateLaw = law.Math.infix()
			}
			for _, p := range append(law.Parameters, law.LocalParameters...) {
				rs.Parameters = append(rs.Parameters, kinetics.Parameter{ID: p.ID, Value: p.Value})
			}
		}
		spec.Reactions = append(spec.Reactions, rs)
	}
	return spec, nil
}

// expand repeats each species once per unit of stoichiometry.
func expand(reactionID string, refs []sbmlSpeciesRef) ([]string, error) {
	var out []string
	for _, ref := range refs {
		n := 1.0
		if ref.Stoichiometry != nil {
			n = *ref.Stoichiometry
		}
		if n < 0 || n > maxStoichiometry || n != math.Trunc(n) {
			return nil, fmt.Errorf("%w: reaction %q species %q has %g", ErrStoichiometry, reactionID, ref.Species, n)
		}
		for i := 0; i < int(n); i++ {
			out = append(out, ref.Species)
		}
	}
	return out, nil
}
