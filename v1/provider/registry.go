package provider

import (
	"fmt"
	"sort"
	"strings"
)

// Spec describes one embedding provider known to the registry: its canonical
// id, the model used when a configuration names none, the environment
// variable conventionally holding its credential, and its constructor.
type Spec struct {
	ID           string
	DefaultModel string
	EnvVar       string
	New          func(cfg Config) (EmbeddingClient, error)
}

// registry maps canonical provider ids to their specs.
var registry = map[string]Spec{
	"openai": {
		ID:           "openai",
		DefaultModel: "text-embedding-3-small",
		EnvVar:       "OPENAI_API_KEY",
		New:          newOpenAI,
	},
	"cohere": {
		ID:           "cohere",
		DefaultModel: "embed-english-v3.0",
		EnvVar:       "COHERE_API_KEY",
		New:          newCohere,
	},
	"jina": {
		ID:           "jina",
		DefaultModel: "jina-embeddings-v2-base-en",
		EnvVar:       "JINA_API_KEY",
		New:          newJina,
	},
	"voyageai": {
		ID:           "voyageai",
		DefaultModel: "voyage-2",
		EnvVar:       "VOYAGE_API_KEY",
		New:          newVoyageAI,
	},
	"huggingface": {
		ID:           "huggingface",
		DefaultModel: "sentence-transformers/all-MiniLM-L6-v2",
		EnvVar:       "HUGGINGFACE_API_KEY",
		New:          newHuggingFace,
	},
	"ollama": {
		ID:           "ollama",
		DefaultModel: "nomic-embed-text",
		EnvVar:       "",
		New:          newOllama,
	},
	"google": {
		ID:           "google",
		DefaultModel: "text-embedding-004",
		EnvVar:       "GOOGLE_API_KEY",
		New:          newGoogle,
	},
}

// aliases maps alternative spellings, including the class-style names some
// server configurations store, to canonical provider ids.
var aliases = map[string]string{
	"OpenAIEmbeddingFunction":             "openai",
	"CohereEmbeddingFunction":             "cohere",
	"JinaEmbeddingFunction":               "jina",
	"VoyageAIEmbeddingFunction":           "voyageai",
	"HuggingFaceEmbeddingFunction":        "huggingface",
	"OllamaEmbeddingFunction":             "ollama",
	"GoogleGenerativeAiEmbeddingFunction": "google",
	"google_generative_ai":                "google",
	"voyage":                              "voyageai",
}

// Normalize maps a provider name or alias to its canonical id. Names without
// an alias entry are lowercased, so "OpenAI" and "openai" resolve alike.
// Normalize never fails; unknown names come back lowercased and are caught
// by Lookup or Build.
func Normalize(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return strings.ToLower(name)
}

// Lookup resolves a provider name or alias to its spec. The second return
// reports whether the provider is known.
func Lookup(name string) (Spec, bool) {
	spec, ok := registry[Normalize(name)]
	return spec, ok
}

// Known reports whether name resolves to a registered provider.
func Known(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Build constructs an embedding client for the named provider. Missing model
// and credential slots are filled from the provider's spec before the
// constructor runs. Unknown names fail with ErrUnknownProvider; missing
// credentials surface as *CredentialsError from the constructor.
func Build(name string, cfg Config) (EmbeddingClient, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	if cfg.Model == "" {
		cfg.Model = spec.DefaultModel
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = spec.EnvVar
	}
	return spec.New(cfg)
}

// Providers returns the canonical ids of all registered providers, sorted.
func Providers() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
