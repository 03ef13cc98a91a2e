package vectorstore

import (
	"reflect"
	"testing"
)

func TestNormalizeShorthandEquality(t *testing.T) {
	got := Normalize(map[string]interface{}{"status": "published"})
	want := map[string]interface{}{
		"status": map[string]interface{}{"$eq": "published"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizePassesOperatorFormThrough(t *testing.T) {
	where := map[string]interface{}{
		"score": map[string]interface{}{"$gte": 10},
	}
	got := Normalize(where)
	if !reflect.DeepEqual(got, where) {
		t.Errorf("operator form changed: %v", got)
	}
}

func TestNormalizePassesLogicalWrappersThrough(t *testing.T) {
	where := map[string]interface{}{
		"$and": []interface{}{
			map[string]interface{}{"a": map[string]interface{}{"$eq": 1}},
			map[string]interface{}{"b": map[string]interface{}{"$eq": 2}},
		},
	}
	got := Normalize(where)
	if !reflect.DeepEqual(got, where) {
		t.Errorf("$and wrapper changed: %v", got)
	}
}

func TestNormalizeMixed(t *testing.T) {
	got := Normalize(map[string]interface{}{
		"status": "published",
		"score":  map[string]interface{}{"$gt": 5},
	})
	want := map[string]interface{}{
		"status": map[string]interface{}{"$eq": "published"},
		"score":  map[string]interface{}{"$gt": 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); got != nil {
		t.Errorf("Normalize(nil) = %v, want nil", got)
	}
	if got := Normalize(map[string]interface{}{}); got != nil {
		t.Errorf("Normalize(empty) = %v, want nil", got)
	}
}

func TestNormalizeNumericShorthand(t *testing.T) {
	got := Normalize(map[string]interface{}{"year": 2024})
	want := map[string]interface{}{
		"year": map[string]interface{}{"$eq": 2024},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}
