// Package expr parses rate-law text into an abstract syntax tree and compiles
// resolved trees into numeric closures over a state vector.
//
// Grammar (lowest to highest binding):
//
//	expr   = term  { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | power
//	power  = atom [ ("^" | "**") unary ]
//	atom   = number | ident | ident "(" [ expr { "," expr } ] ")" | "(" expr ")"
//
// Names are left symbolic by [Parse]. [Resolve] rewrites every [Ident] into
// either a [Number] or a [Ref] (state-vector slot) through a caller-supplied
// [Resolver]; [Compile] only accepts fully resolved trees.
package expr
