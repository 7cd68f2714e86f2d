package service

import (
	"fmt"
	"regexp"
	"strings"

	"dsaps/internal/model"
)

// AnyField in a query matches every metadata key.
const AnyField = "*"

// Operators supported by /filtered-items.
const (
	OpExists        = "exists"
	OpDoesntExist   = "doesnt_exist"
	OpEquals        = "equals"
	OpNotEquals     = "not_equals"
	OpLike          = "like"
	OpNotLike       = "not_like"
	OpContains      = "contains"
	OpDoesntContain = "doesnt_contain"
	OpMatches       = "matches"
	OpDoesntMatch   = "doesnt_match"
)

// Condition — одно условие фильтра (query_field/query_op/query_val).
type Condition struct {
	Field string
	Op    string
	Value string

	re *regexp.Regexp
}

// Filter — запрос /filtered-items: все условия должны выполняться.
type Filter struct {
	Conditions  []Condition
	Collections []string
	Limit       int
	Offset      int
}

// Compile проверяет операторы и готовит регулярные выражения.
func (f *Filter) Compile() error {
	for i := range f.Conditions {
		c := &f.Conditions[i]
		var pattern string
		switch c.Op {
		case OpExists, OpDoesntExist, OpEquals, OpNotEquals, OpContains, OpDoesntContain:
			continue
		case OpLike, OpNotLike:
			pattern = likeToRegexp(c.Value)
		case OpMatches, OpDoesntMatch:
			pattern = c.Value
		default:
			return fmt.Errorf("unknown query operator %q", c.Op)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("query %s %s: %w", c.Field, c.Op, err)
		}
		c.re = re
	}
	return nil
}

// likeToRegexp переводит SQL LIKE (% и _) в якорное регулярное выражение.
func likeToRegexp(p string) string {
	var b strings.Builder
	b.WriteString("(?s)^")
	for _, r := range p {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// negated reports whether op is the "none of the values" form.
func negated(op string) bool {
	switch op {
	case OpDoesntExist, OpNotEquals, OpNotLike, OpDoesntContain, OpDoesntMatch:
		return true
	}
	return false
}

func (c Condition) valueMatches(v string) bool {
	switch c.Op {
	case OpExists, OpDoesntExist:
		return true
	case OpEquals, OpNotEquals:
		return v == c.Value
	case OpContains, OpDoesntContain:
		return strings.Contains(v, c.Value)
	default:
		return c.re != nil && c.re.MatchString(v)
	}
}

// Matches: positive operators need at least one matching value of the field,
// negated ones need none.
func (c Condition) Matches(md []model.MetadataValue) bool {
	hit := false
	for _, m := range md {
		if c.Field != AnyField && m.Key != c.Field {
			continue
		}
		if c.valueMatches(m.Value) {
			hit = true
			break
		}
	}
	if negated(c.Op) {
		return !hit
	}
	return hit
}

// Matches reports whether the item satisfies every condition.
func (f Filter) Matches(it model.Item) bool {
	for _, c := range f.Conditions {
		if !c.Matches(it.Metadata) {
			return false
		}
	}
	return true
}
