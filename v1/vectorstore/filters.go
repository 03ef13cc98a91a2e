package vectorstore

import "strings"

// Metadata filter expressions use a small operator dialect: a predicate is
// either shorthand {field: value}, which means implicit equality, or an
// already-qualified operator form such as {field: {"$gte": 10}} and the
// logical wrappers {"$and": [...]}, {"$or": [...]}. Adapters translate the
// normalized form into their backend's native filter representation.

// Normalize converts shorthand equality predicates into explicit operator
// form and passes already-qualified expressions through unchanged. A nil or
// empty predicate normalizes to nil, meaning "no filter".
func Normalize(where map[string]interface{}) map[string]interface{} {
	if len(where) == 0 {
		return nil
	}

	out := make(map[string]interface{}, len(where))
	for field, value := range where {
		if strings.HasPrefix(field, "$") {
			out[field] = value
			continue
		}
		if _, ok := value.(map[string]interface{}); ok {
			out[field] = value
			continue
		}
		out[field] = map[string]interface{}{"$eq": value}
	}
	return out
}
