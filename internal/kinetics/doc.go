// Package kinetics compiles a reaction network into the right-hand side of
// its mass-balance ODE.
//
// Loading a [ModelSpec] goes through four stages:
//
//   - [Sanitize] normalizes species and parameter identifiers
//   - [SymbolTable] assigns every species a dense, stable state-vector slot
//   - [Compiler] parses each rate law, inlines local parameters as literals,
//     maps species to slots and resolves the rest through a constant table
//   - [Network] aggregates reaction rates into dX/dt
//
// Failures that would corrupt the slot layout (duplicate or colliding
// identifiers) abort [Load]. A malformed rate law only silences its own
// reaction: the evaluator is constant zero and a [Diagnostic] is recorded.
//
// A loaded Network is read-only and may be shared by concurrent simulation
// runs. Per-run evaluation problems go to the sink passed to
// [Network.WithSink].
package kinetics
