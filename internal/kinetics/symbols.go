package kinetics

import (
	"fmt"
	"sort"
)

// Species is a model species bound to its state-vector slot.
type Species struct {
	OriginalID           string
	SanitizedID          string
	DisplayName          string
	InitialConcentration float64
	Compartment          string
	Slot                 int
}

// SymbolTable maps sanitized species identifiers to dense slots assigned in
// declaration order. It is immutable once built.
type SymbolTable struct {
	species []Species
	slots   map[string]int
	byOrig  map[string]int
	written []spelling
}

// NewSymbolTable assigns slots to specs in order. Identifiers that sanitize
// to nothing or to an already-taken token are rejected.
func NewSymbolTable(specs []SpeciesSpec) (*SymbolTable, error) {
	t := &SymbolTable{
		species: make([]Species, 0, len(specs)),
		slots:   make(map[string]int, len(specs)),
		byOrig:  make(map[string]int, len(specs)),
	}
	for _, sp := range specs {
		sid := Sanitize(sp.ID)
		if sid == "" {
			return nil, fmt.Errorf("%w: species %q", ErrInvalidIdentifier, sp.ID)
		}
		if prev, ok := t.slots[sid]; ok {
			return nil, &DuplicateIdentifierError{
				First:     t.species[prev].OriginalID,
				Second:    sp.ID,
				Sanitized: sid,
			}
		}
		name := sp.Name
		if name == "" {
			name = sp.ID
		}
		slot := len(t.species)
		t.species = append(t.species, Species{
			OriginalID:           sp.ID,
			SanitizedID:          sid,
			DisplayName:          name,
			InitialConcentration: sp.InitialConcentration,
			Compartment:          sp.Compartment,
			Slot:                 slot,
		})
		t.slots[sid] = slot
		t.byOrig[sp.ID] = slot
	}
	t.written = t.buildSpellings()
	return t, nil
}

func (t *SymbolTable) Len() int { return len(t.species) }

// SlotOf returns the slot bound to a sanitized identifier.
func (t *SymbolTable) SlotOf(sanitizedID string) (int, error) {
	slot, ok := t.slots[sanitizedID]
	if !ok {
		return -1, &UnknownSpeciesError{ID: sanitizedID, Slot: -1}
	}
	return slot, nil
}

// NameOf returns the display name of the species at slot.
func (t *SymbolTable) NameOf(slot int) (string, error) {
	if slot < 0 || slot >= len(t.species) {
		return "", &UnknownSpeciesError{Slot: slot}
	}
	return t.species[slot].DisplayName, nil
}

// Lookup accepts either the id as written in the model or its sanitized form.
func (t *SymbolTable) Lookup(id string) (Species, bool) {
	if slot, ok := t.byOrig[id]; ok {
		return t.species[slot], true
	}
	if slot, ok := t.slots[Sanitize(id)]; ok {
		return t.species[slot], true
	}
	return Species{}, false
}

// At returns the species at slot.
func (t *SymbolTable) At(slot int) (Species, error) {
	if slot < 0 || slot >= len(t.species) {
		return Species{}, &UnknownSpeciesError{Slot: slot}
	}
	return t.species[slot], nil
}

// Species returns a copy of all species in slot order.
func (t *SymbolTable) Species() []Species {
	out := make([]Species, len(t.species))
	copy(out, t.species)
	return out
}

// IDs returns the sanitized identifiers in slot order.
func (t *SymbolTable) IDs() []string {
	out := make([]string, len(t.species))
	for i, sp := range t.species {
		out[i] = sp.SanitizedID
	}
	return out
}

// IDsLongestFirst orders the sanitized identifiers so that no id is preceded
// by one of its own prefixes. Textual scanners must use this order.
func (t *SymbolTable) IDsLongestFirst() []string {
	out := t.IDs()
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func (t *SymbolTable) has(sanitizedID string) bool {
	_, ok := t.slots[sanitizedID]
	return ok
}
