package resolver

import (
	"fmt"
	"strings"
)

type state int

const (
	statePlain state = iota
	stateSharp
	stateSharpN
	stateExpr
	stateExprQuot
)

// Resolve returns text with every #{expr} placeholder replaced by the
// text produced by evaluating expr against vars. Two consecutive '#'
// characters collapse to one literal '#' and suppress interpretation
// of whatever follows.
func Resolve(text string, vars map[string]any) (string, error) {
	var out strings.Builder
	var expr strings.Builder
	st := statePlain

	for _, c := range text {
		switch st {
		case statePlain:
			if c == '#' {
				st = stateSharp
			} else {
				out.WriteRune(c)
			}

		case stateSharp:
			switch {
			case c == '{':
				st = stateExpr
				expr.Reset()
			case c == '#':
				st = stateSharpN
				out.WriteRune(c)
			default:
				st = statePlain
				out.WriteRune('#')
				out.WriteRune(c)
			}

		case stateSharpN:
			if c != '#' {
				st = statePlain
			}
			out.WriteRune(c)

		case stateExpr:
			if c == '}' {
				resolved, err := evalExprText(expr.String(), vars)
				if err != nil {
					return "", err
				}
				out.WriteString(resolved)
				expr.Reset()
				st = statePlain
			} else {
				if c == '\'' {
					st = stateExprQuot
				}
				expr.WriteRune(c)
			}

		case stateExprQuot:
			if c == '\'' {
				st = stateExpr
			}
			expr.WriteRune(c)
		}
	}

	switch st {
	case stateExpr, stateExprQuot:
		return "", ErrUnterminatedExpression
	case stateSharp:
		out.WriteRune('#')
	}
	return out.String(), nil
}

// ResolveString has identical semantics to Resolve. It exists so that
// nested property values can be resolved without the caller having to
// think about which layer it is operating at.
func ResolveString(text string, vars map[string]any) (string, error) {
	return Resolve(text, vars)
}

func evalExprText(expr string, vars map[string]any) (string, error) {
	v, err := Eval(expr, vars)
	if err != nil {
		return "", fmt.Errorf("resolver: evaluating %q: %w", expr, err)
	}
	s, err := stringify(v)
	if err != nil {
		return "", fmt.Errorf("resolver: evaluating %q: %w", expr, err)
	}
	return Resolve(s, vars)
}
