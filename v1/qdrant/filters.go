package qdrant

import (
	"fmt"
	"math"
	"sort"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/vectordesk/core/v1/vectorstore"
)

// translateWhere converts a metadata predicate from the operator dialect
// into a native filter. Equality and $in land in Must, $ne in MustNot,
// range operators accumulate into one range condition per field, and the
// logical wrappers nest as sub-filters: $and under Must, $or under Should.
// A nil or empty predicate translates to no filter.
func translateWhere(where map[string]interface{}) (*qdrant.Filter, error) {
	normalized := vectorstore.Normalize(where)
	if normalized == nil {
		return nil, nil
	}

	filter := &qdrant.Filter{}
	for _, field := range sortedKeys(normalized) {
		expr := normalized[field]
		switch field {
		case "$and":
			subs, err := subFilters(field, expr)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				filter.Must = append(filter.Must, nestedCondition(sub))
			}
		case "$or":
			subs, err := subFilters(field, expr)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				filter.Should = append(filter.Should, nestedCondition(sub))
			}
		default:
			ops, ok := expr.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("qdrant: field %q needs an operator expression, got %T", field, expr)
			}
			must, mustNot, err := fieldConditions(field, ops)
			if err != nil {
				return nil, err
			}
			filter.Must = append(filter.Must, must...)
			filter.MustNot = append(filter.MustNot, mustNot...)
		}
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil, nil
	}
	return filter, nil
}

func nestedCondition(sub *qdrant.Filter) *qdrant.Condition {
	return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_Filter{Filter: sub}}
}

// subFilters translates each branch of a logical wrapper. Branches are full
// predicates themselves, so shorthand inside them normalizes recursively.
func subFilters(op string, expr interface{}) ([]*qdrant.Filter, error) {
	var branches []map[string]interface{}
	switch v := expr.(type) {
	case []interface{}:
		for _, item := range v {
			branch, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("qdrant: %s branches must be predicate objects, got %T", op, item)
			}
			branches = append(branches, branch)
		}
	case []map[string]interface{}:
		branches = v
	default:
		return nil, fmt.Errorf("qdrant: %s needs a list of predicates, got %T", op, expr)
	}

	subs := make([]*qdrant.Filter, 0, len(branches))
	for _, branch := range branches {
		sub, err := translateWhere(branch)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// fieldConditions translates every operator applied to one field. Range
// bounds fold into a single condition so {"$gte": 3, "$lt": 9} stays one
// range.
func fieldConditions(field string, ops map[string]interface{}) (must, mustNot []*qdrant.Condition, err error) {
	bounds := &qdrant.Range{}
	hasBounds := false

	for _, op := range sortedKeys(ops) {
		value := ops[op]
		switch op {
		case "$eq":
			cond, err := matchCondition(field, value)
			if err != nil {
				return nil, nil, err
			}
			must = append(must, cond)
		case "$ne":
			cond, err := matchCondition(field, value)
			if err != nil {
				return nil, nil, err
			}
			mustNot = append(mustNot, cond)
		case "$gt", "$gte", "$lt", "$lte":
			bound, err := numericValue(field, op, value)
			if err != nil {
				return nil, nil, err
			}
			switch op {
			case "$gt":
				bounds.Gt = &bound
			case "$gte":
				bounds.Gte = &bound
			case "$lt":
				bounds.Lt = &bound
			case "$lte":
				bounds.Lte = &bound
			}
			hasBounds = true
		case "$in":
			cond, err := matchAnyCondition(field, op, value, false)
			if err != nil {
				return nil, nil, err
			}
			must = append(must, cond)
		case "$nin":
			cond, err := matchAnyCondition(field, op, value, true)
			if err != nil {
				return nil, nil, err
			}
			must = append(must, cond)
		default:
			return nil, nil, fmt.Errorf("qdrant: unsupported filter operator %q on field %q", op, field)
		}
	}

	if hasBounds {
		must = append(must, qdrant.NewRange(field, bounds))
	}
	return must, mustNot, nil
}

// matchCondition builds an exact-match condition. The wire matches
// keywords, integers and booleans; fractional numbers fall back to a
// degenerate range.
func matchCondition(field string, value interface{}) (*qdrant.Condition, error) {
	switch v := value.(type) {
	case string:
		return qdrant.NewMatch(field, v), nil
	case bool:
		return qdrant.NewMatchBool(field, v), nil
	case int:
		return qdrant.NewMatchInt(field, int64(v)), nil
	case int64:
		return qdrant.NewMatchInt(field, v), nil
	case float64:
		if v == math.Trunc(v) {
			return qdrant.NewMatchInt(field, int64(v)), nil
		}
		return qdrant.NewRange(field, &qdrant.Range{Gte: &v, Lte: &v}), nil
	default:
		return nil, fmt.Errorf("qdrant: cannot match %T value on field %q", value, field)
	}
}

func matchAnyCondition(field, op string, value interface{}, except bool) (*qdrant.Condition, error) {
	items, err := listValues(field, op, value)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("qdrant: %s on field %q needs at least one value", op, field)
	}

	switch items[0].(type) {
	case string:
		keywords := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("qdrant: %s on field %q mixes strings with %T", op, field, item)
			}
			keywords[i] = s
		}
		if except {
			return qdrant.NewMatchExceptKeywords(field, keywords...), nil
		}
		return qdrant.NewMatchKeywords(field, keywords...), nil
	case int, int64, float64:
		ints := make([]int64, len(items))
		for i, item := range items {
			switch n := item.(type) {
			case int:
				ints[i] = int64(n)
			case int64:
				ints[i] = n
			case float64:
				ints[i] = int64(n)
			default:
				return nil, fmt.Errorf("qdrant: %s on field %q mixes numbers with %T", op, field, item)
			}
		}
		if except {
			return qdrant.NewMatchExceptInts(field, ints...), nil
		}
		return qdrant.NewMatchInts(field, ints...), nil
	default:
		return nil, fmt.Errorf("qdrant: %s on field %q cannot match %T values", op, field, items[0])
	}
}

func listValues(field, op string, value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		return v, nil
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, nil
	case []int:
		items := make([]interface{}, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, nil
	case []int64:
		items := make([]interface{}, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, nil
	case []float64:
		items := make([]interface{}, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, nil
	default:
		return nil, fmt.Errorf("qdrant: %s on field %q needs a list, got %T", op, field, value)
	}
}

func numericValue(field, op string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("qdrant: %s on field %q needs a number, got %T", op, field, value)
	}
}

// sortedKeys keeps translation deterministic across map iteration order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
