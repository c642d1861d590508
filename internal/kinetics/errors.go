package kinetics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateIdentifier indicates two species whose identifiers sanitize
	// to the same token.
	ErrDuplicateIdentifier = errors.New("kinetics: duplicate identifier")

	// ErrNameCollision indicates a name bound both as a species and as a
	// parameter or constant.
	ErrNameCollision = errors.New("kinetics: name collision")

	// ErrUnresolvedSymbol indicates a rate-law name with no binding.
	ErrUnresolvedSymbol = errors.New("kinetics: unresolved symbol")

	// ErrUnknownSpecies indicates a species id or slot that is not in the table.
	ErrUnknownSpecies = errors.New("kinetics: unknown species")

	// ErrInvalidIdentifier indicates an identifier with no usable characters.
	ErrInvalidIdentifier = errors.New("kinetics: invalid identifier")
)

type DuplicateIdentifierError struct {
	First     string
	Second    string
	Sanitized string
}

func (e *DuplicateIdentifierError) Error() string {
	if e.First == e.Second {
		return fmt.Sprintf("kinetics: species %q declared twice", e.First)
	}
	return fmt.Sprintf("kinetics: species %q and %q both sanitize to %q", e.First, e.Second, e.Sanitized)
}

func (e *DuplicateIdentifierError) Unwrap() error { return ErrDuplicateIdentifier }

type NameCollisionError struct {
	ReactionID string
	Name       string
	Tables     []string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("kinetics: reaction %q: %q is bound as %s", e.ReactionID, e.Name, strings.Join(e.Tables, " and "))
}

func (e *NameCollisionError) Unwrap() error { return ErrNameCollision }

type UnresolvedSymbolError struct {
	ReactionID string
	Name       string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("kinetics: reaction %q: unresolved symbol %q", e.ReactionID, e.Name)
}

func (e *UnresolvedSymbolError) Unwrap() error { return ErrUnresolvedSymbol }

// UnknownSpeciesError carries either the id or the slot that failed to
// resolve, plus the reaction that referenced it when known.
type UnknownSpeciesError struct {
	ID         string
	Slot       int
	ReactionID string
}

func (e *UnknownSpeciesError) Error() string {
	var target string
	if e.ID != "" {
		target = fmt.Sprintf("%q", e.ID)
	} else {
		target = fmt.Sprintf("slot %d", e.Slot)
	}
	if e.ReactionID != "" {
		return fmt.Sprintf("kinetics: reaction %q: unknown species %s", e.ReactionID, target)
	}
	return fmt.Sprintf("kinetics: unknown species %s", target)
}

func (e *UnknownSpeciesError) Unwrap() error { return ErrUnknownSpecies }
