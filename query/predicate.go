package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Operator identifies how a condition compares a field against a value
type Operator int

const (
	OpEq Operator = iota
	OpGt
	OpGte
	OpLt
	OpLte
)

// mongoKey returns the MongoDB operator keyword for a range operator.
// OpEq has no keyword; equality conditions are rendered directly.
func (op Operator) mongoKey() string {
	switch op {
	case OpGt:
		return "$gt"
	case OpGte:
		return "$gte"
	case OpLt:
		return "$lt"
	case OpLte:
		return "$lte"
	}
	return ""
}

// rangeOperators maps the `field[op]` suffixes recognized in query strings
var rangeOperators = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// reservedParams are consumed by the result shaper (or the tags predicate)
// and never become generic filter conditions
var reservedParams = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
	"tags":   true,
}

// Condition is a single parsed predicate: field, comparison operator and
// the (possibly numeric-coerced) value to compare against
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

// Filter is an immutable set of conditions parsed from a list request's
// query parameters, ready to constrain a collection query
type Filter struct {
	conditions []Condition
	tags       []string
}

// ParseFilter builds a Filter from query parameters. Reserved parameters
// (page, sort, limit, fields, tags) are excluded from the generic pass;
// `tags` becomes a superset-containment predicate. ParseFilter is a pure
// function: it never errors and has no side effects.
func ParseFilter(params url.Values) Filter {
	keys := make([]string, 0, len(params))
	for key := range params {
		if reservedParams[key] {
			continue
		}
		keys = append(keys, key)
	}
	// url.Values iteration order is random; sort for deterministic output
	sort.Strings(keys)

	f := Filter{}
	for _, key := range keys {
		value := coerceNumeric(params.Get(key))

		field, suffix, ok := splitOperatorKey(key)
		if ok {
			if op, known := rangeOperators[suffix]; known {
				f.conditions = append(f.conditions, Condition{Field: field, Op: op, Value: value})
				continue
			}
		}
		// Bare key, or an unrecognized operator suffix: the literal key
		// becomes an equality condition
		f.conditions = append(f.conditions, Condition{Field: key, Op: OpEq, Value: value})
	}

	f.tags = parseTags(params.Get("tags"))
	return f
}

// Conditions returns a copy of the parsed conditions
func (f Filter) Conditions() []Condition {
	out := make([]Condition, len(f.conditions))
	copy(out, f.conditions)
	return out
}

// Tags returns a copy of the parsed tag set
func (f Filter) Tags() []string {
	out := make([]string, len(f.tags))
	copy(out, f.tags)
	return out
}

// BSON renders the filter as a MongoDB query document. Range operators on
// the same field merge into a single sub-document; an equality condition
// replaces whatever was set on its field. A nonempty tag set requires the
// stored tags to be a superset of the requested ones.
func (f Filter) BSON() bson.M {
	m := bson.M{}
	for _, cond := range f.conditions {
		if cond.Op == OpEq {
			m[cond.Field] = cond.Value
			continue
		}
		ops, ok := m[cond.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			m[cond.Field] = ops
		}
		ops[cond.Op.mongoKey()] = cond.Value
	}
	if len(f.tags) > 0 {
		m["tags"] = bson.M{"$all": f.tags}
	}
	return m
}

// splitOperatorKey splits a key of the form "field[suffix]" into its
// parts. Returns ok=false for keys without a bracketed suffix.
func splitOperatorKey(key string) (field, suffix string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerceNumeric converts a value to float64 when it parses as a number.
// Numeric-looking strings are always compared numerically; string fields
// holding such values cannot be filtered through this path.
func coerceNumeric(value string) interface{} {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}

// parseTags splits a comma-separated tag list, trims whitespace and drops
// empty or duplicate entries
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
