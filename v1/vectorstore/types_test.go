package vectorstore

import "testing"

func TestSearchRequestMode(t *testing.T) {
	cases := []struct {
		name string
		req  SearchRequest
		want SearchMode
	}{
		{"query selects semantic", SearchRequest{Query: "hello"}, ModeSemantic},
		{"ids select fetch", SearchRequest{IDs: []string{"a"}}, ModeFetch},
		{"bare request lists", SearchRequest{}, ModeList},
		{"filter-only request lists", SearchRequest{Where: map[string]interface{}{"a": 1}}, ModeList},
		{"query wins over ids", SearchRequest{Query: "hello", IDs: []string{"a"}}, ModeSemantic},
		{"whitespace query lists", SearchRequest{Query: "   "}, ModeList},
	}

	for _, tc := range cases {
		if got := tc.req.Mode(); got != tc.want {
			t.Errorf("%s: Mode() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSearchRequestEffectiveLimit(t *testing.T) {
	if got := (SearchRequest{Query: "q"}).EffectiveLimit(); got != DefaultSearchLimit {
		t.Errorf("semantic default = %d, want %d", got, DefaultSearchLimit)
	}
	if got := (SearchRequest{}).EffectiveLimit(); got != DefaultListLimit {
		t.Errorf("list default = %d, want %d", got, DefaultListLimit)
	}
	if got := (SearchRequest{Query: "q", Limit: 25}).EffectiveLimit(); got != 25 {
		t.Errorf("explicit limit = %d, want 25", got)
	}
}
