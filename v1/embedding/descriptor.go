package embedding

import (
	"encoding/json"
	"strings"

	"github.com/vectordesk/core/v1/provider"
)

// Kind classifies how an embedding function descriptor can be used.
type Kind string

const (
	// KindKnown descriptors map to a registered provider and can be
	// instantiated client-side.
	KindKnown Kind = "known"

	// KindLegacy descriptors name functions only the server can run, such
	// as its built-in local models. They cannot be instantiated here.
	KindLegacy Kind = "legacy"

	// KindUnknown descriptors carry a name nothing recognizes.
	KindUnknown Kind = "unknown"
)

// legacyFunctions are the server-built-in embedding functions that have no
// client-side equivalent.
var legacyFunctions = map[string]struct{}{
	"default":                              {},
	"sentence_transformer":                 {},
	"sentencetransformerembeddingfunction": {},
	"onnx_mini_lm_l6_v2":                   {},
}

// Descriptor names the embedding function a collection or request uses,
// together with its opaque configuration map. Descriptors arrive from three
// places: a collection's server-declared configuration, a persisted
// per-collection override, and explicit request parameters.
type Descriptor struct {
	Name   string                 `json:"name" yaml:"name"`
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// Kind reports how this descriptor classifies. The kind is derived from the
// name on every call rather than stored, so persisted descriptors stay
// valid when the set of registered providers changes.
func (d Descriptor) Kind() Kind {
	return Classify(d.Name)
}

// Classify resolves an embedding function name to its Kind.
func Classify(name string) Kind {
	if name == "" {
		return KindUnknown
	}
	if provider.Known(name) {
		return KindKnown
	}
	if _, ok := legacyFunctions[strings.ToLower(name)]; ok {
		return KindLegacy
	}
	return KindUnknown
}

// CacheKey derives the resolver cache slot for a descriptor on a collection.
// The config map is serialized with sorted keys, so descriptors differing
// only in key order share a slot and any real config difference splits one.
func CacheKey(collection string, d Descriptor) string {
	cfg := d.Config
	if cfg == nil {
		cfg = map[string]interface{}{}
	}
	raw, _ := json.Marshal(cfg)
	return collection + ":" + string(raw)
}

// providerConfig maps the descriptor's opaque config keys onto provider
// construction parameters. Server-side spellings ("model_name", "url") and
// client-side spellings ("model", "endpoint") are both accepted.
func (d Descriptor) providerConfig() provider.Config {
	cfg := provider.Config{}
	if v, ok := configString(d.Config, "model_name"); ok {
		cfg.Model = v
	} else if v, ok := configString(d.Config, "model"); ok {
		cfg.Model = v
	}
	if v, ok := configString(d.Config, "api_key_env_var"); ok {
		cfg.APIKeyEnv = v
	}
	if v, ok := configString(d.Config, "api_key"); ok {
		cfg.APIKey = v
	}
	if v, ok := configString(d.Config, "url"); ok {
		cfg.Endpoint = v
	} else if v, ok := configString(d.Config, "endpoint"); ok {
		cfg.Endpoint = v
	}
	return cfg
}

func configString(m map[string]interface{}, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
