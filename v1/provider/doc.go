// Package provider implements a registry of remote embedding providers and
// HTTP clients for each of them.
//
// Collections reference their embedding function by provider name. The
// registry resolves those names, including class-style aliases such as
// "OpenAIEmbeddingFunction" that some server configurations store, to a
// canonical provider id and constructs a ready-to-use client with model and
// credential defaults applied.
//
// # Supported Providers
//
//   - openai (alias OpenAIEmbeddingFunction)
//   - cohere (alias CohereEmbeddingFunction)
//   - jina (alias JinaEmbeddingFunction)
//   - voyageai (aliases VoyageAIEmbeddingFunction, voyage)
//   - huggingface (alias HuggingFaceEmbeddingFunction)
//   - ollama (alias OllamaEmbeddingFunction), credential-free
//   - google (aliases GoogleGenerativeAiEmbeddingFunction, google_generative_ai)
//
// # Usage
//
//	client, err := provider.Build("openai", provider.Config{
//		Model: "text-embedding-3-small",
//	})
//	if err != nil {
//		var credErr *provider.CredentialsError
//		if errors.As(err, &credErr) {
//			log.Fatalf("set %s to use %s", credErr.EnvVar, credErr.Provider)
//		}
//		log.Fatal(err)
//	}
//
//	vectors, err := client.Embed(ctx, []string{"hello world"})
//
// Credentials come from an explicit Config.APIKey, or failing that from the
// provider's conventional environment variable (OPENAI_API_KEY and friends).
// A missing credential is reported as *CredentialsError naming the provider
// and the environment variable to set, so user interfaces can prompt for
// exactly the right value.
package provider
