// Package model reads structural pathway models into kinetics.ModelSpec.
//
// Supported inputs, chosen by file extension:
//
//	.json         kinetics.ModelSpec as JSON
//	.yaml, .yml   kinetics.ModelSpec as YAML
//	.xml, .sbml   SBML level 2 or 3 (compartments, species, parameters,
//	              reactions with kinetic laws in MathML)
//
// SBML kinetic laws are rendered to infix text; MathML constructs without an
// infix form are written as calls (e.g. piecewise(...)) so that the kinetics
// compiler reports them per reaction instead of failing the whole import.
package model
