package manifest

import (
	"fmt"
	"strings"
)

// Expression is a parsed group selection: a list of +group / -group tokens.
// A bare group name means +group.
type Expression struct {
	include map[string]bool
	exclude map[string]bool
	raw     string
}

// ParseExpression parses a group selection string. Tokens are separated by
// commas or whitespace. The empty string is a valid expression selecting
// every project.
func ParseExpression(s string) (Expression, error) {
	expr := Expression{
		include: map[string]bool{},
		exclude: map[string]bool{},
		raw:     s,
	}
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		name := tok
		negate := false
		switch tok[0] {
		case '-':
			negate = true
			name = tok[1:]
		case '+':
			name = tok[1:]
		}
		if name == "" {
			return Expression{}, fmt.Errorf("invalid group token %q in %q", tok, s)
		}
		if negate {
			expr.exclude[name] = true
		} else {
			expr.include[name] = true
		}
	}
	return expr, nil
}

// String returns the expression as originally written, for persisting.
func (e Expression) String() string { return e.raw }

// Empty reports whether the expression has no tokens.
func (e Expression) Empty() bool { return len(e.include) == 0 && len(e.exclude) == 0 }

// Selects reports whether the project is active under this expression.
// A project with no groups is always selected. A grouped project is selected
// if any of its groups is explicitly included, or if at least one of its
// groups is not explicitly excluded. The main project is always selected.
func (e Expression) Selects(p *Project) bool {
	if p.IsMain || len(p.Groups) == 0 {
		return true
	}
	for _, g := range p.Groups {
		if e.include[g] {
			return true
		}
	}
	for _, g := range p.Groups {
		if !e.exclude[g] {
			return true
		}
	}
	return false
}

// Filter returns the subset of resolved projects active under the
// expression, preserving resolution order.
func Filter(r *Resolved, expr Expression) *Resolved {
	out := &Resolved{}
	for _, p := range r.Projects {
		if expr.Selects(&p) {
			out.Projects = append(out.Projects, p)
		}
	}
	return out
}
