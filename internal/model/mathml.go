package model

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// mathNode is a generic MathML element.
type mathNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Inner    string     `xml:",innerxml"`
	Children []mathNode `xml:",any"`
}

func (n *mathNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// term is rendered infix text with the precedence of its outermost operator.
type term struct {
	text string
	prec int
}

func atom(s string) term { return term{text: s, prec: precAtom} }

// at renders t as an operand that needs at least precedence min.
func (t term) at(min int) string {
	if t.prec >= min {
		return t.text
	}
	return "(" + t.text + ")"
}

var mathFunctions = map[string]string{
	"exp":     "exp",
	"ln":      "ln",
	"abs":     "abs",
	"floor":   "floor",
	"ceiling": "ceil",
	"sin":     "sin",
	"cos":     "cos",
	"tan":     "tan",
	"sinh":    "sinh",
	"cosh":    "cosh",
	"tanh":    "tanh",
	"min":     "min",
	"max":     "max",
}

// infix renders the <math> element.
func (n *mathNode) infix() string {
	if len(n.Children) == 0 {
		return ""
	}
	return n.Children[0].term().text
}

func (n *mathNode) term() term {
	switch n.XMLName.Local {
	case "ci":
		return atom(strings.TrimSpace(n.Text))
	case "cn":
		return n.number()
	case "csymbol":
		if s := strings.TrimSpace(n.Text); s != "" {
			return atom(s)
		}
		url := n.attr("definitionURL")
		return atom(url[strings.LastIndex(url, "/")+1:])
	case "pi":
		return atom(strconv.FormatFloat(3.141592653589793, 'g', -1, 64))
	case "exponentiale":
		return atom("exp(1)")
	case "true":
		return atom("1")
	case "false":
		return atom("0")
	case "semantics":
		if len(n.Children) > 0 {
			return n.Children[0].term()
		}
	case "apply":
		return n.apply()
	}
	return atom(n.XMLName.Local + "(" + n.joinArgs(n.Children) + ")")
}

func (n *mathNode) number() term {
	text := strings.TrimSpace(n.Text)
	switch n.attr("type") {
	case "e-notation":
		parts := strings.SplitN(n.Inner, "<sep", 2)
		if len(parts) == 2 {
			mant := strings.TrimSpace(parts[0])
			exp := parts[1][strings.Index(parts[1], ">")+1:]
			return number(mant + "e" + strings.TrimSpace(exp))
		}
	case "rational":
		parts := strings.SplitN(n.Inner, "<sep", 2)
		if len(parts) == 2 {
			num := strings.TrimSpace(parts[0])
			den := strings.TrimSpace(parts[1][strings.Index(parts[1], ">")+1:])
			return term{text: num + " / " + den, prec: precProduct}
		}
	}
	return number(text)
}

func number(text string) term {
	if strings.HasPrefix(text, "-") {
		return term{text: text, prec: precUnary}
	}
	return atom(text)
}

func (n *mathNode) apply() term {
	if len(n.Children) == 0 {
		return atom("0")
	}
	op := n.Children[0].XMLName.Local
	var args []term
	var degree, logbase *mathNode
	for i := 1; i < len(n.Children); i++ {
		c := &n.Children[i]
		switch c.XMLName.Local {
		case "degree":
			degree = c
		case "logbase":
			logbase = c
		default:
			args = append(args, c.term())
		}
	}

	switch op {
	case "plus":
		switch len(args) {
		case 0:
			return atom("0")
		case 1:
			return args[0]
		}
		return term{text: joinOperands(args, " + ", precSum), prec: precSum}
	case "times":
		switch len(args) {
		case 0:
			return atom("1")
		case 1:
			return args[0]
		}
		return term{text: joinOperands(args, " * ", precProduct), prec: precProduct}
	case "divide":
		if len(args) == 2 {
			return term{text: args[0].at(precProduct) + " / " + args[1].at(precProduct+1), prec: precProduct}
		}
	case "power":
		if len(args) == 2 {
			return term{text: args[0].at(precAtom) + "^" + args[1].at(precAtom), prec: precPower}
		}
	case "minus":
		switch len(args) {
		case 1:
			return term{text: "-" + args[0].at(precPower), prec: precUnary}
		case 2:
			return term{text: args[0].at(precSum) + " - " + args[1].at(precSum+1), prec: precSum}
		}
	case "root":
		if len(args) == 1 {
			if degree == nil {
				return atom("sqrt(" + args[0].text + ")")
			}
			return term{text: args[0].at(precAtom) + "^(1 / " + degreeTerm(degree).at(precProduct+1) + ")", prec: precPower}
		}
	case "log":
		if len(args) == 1 {
			if logbase == nil {
				return atom("log10(" + args[0].text + ")")
			}
			return atom("log(" + degreeTerm(logbase).text + ", " + args[0].text + ")")
		}
	}
	if fn, ok := mathFunctions[op]; ok {
		return atom(fn + "(" + joinTerms(args, ", ") + ")")
	}
	return atom(op + "(" + joinTerms(args, ", ") + ")")
}

// degreeTerm renders the single child of a <degree> or <logbase> qualifier.
func degreeTerm(q *mathNode) term {
	if len(q.Children) == 0 {
		return atom(strings.TrimSpace(q.Text))
	}
	return q.Children[0].term()
}

func joinTerms(ts []term, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.text
	}
	return strings.Join(parts, sep)
}

func joinOperands(ts []term, sep string, min int) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.at(min)
	}
	return strings.Join(parts, sep)
}

func (n *mathNode) joinArgs(children []mathNode) string {
	ts := make([]term, len(children))
	for i := range children {
		ts[i] = children[i].term()
	}
	return joinTerms(ts, ", ")
}
