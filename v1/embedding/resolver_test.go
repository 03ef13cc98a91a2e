package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/vectordesk/core/v1/provider"
)

type recordingLogger struct {
	debugs []string
	warns  []string
	errs   []string
}

func (l *recordingLogger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.debugs = append(l.debugs, msg)
}

func (l *recordingLogger) Info(msg string, err error, fields ...map[string]interface{}) {}

func (l *recordingLogger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.errs = append(l.errs, msg)
}

type fakeOverrides map[string]*Descriptor

func (f fakeOverrides) OverrideFor(profileID, collection string) *Descriptor {
	return f[profileID+"/"+collection]
}

type fakeServerConfig struct {
	descriptors map[string]*Descriptor
	err         error
}

func (f fakeServerConfig) DescriptorFor(ctx context.Context, collection string) (*Descriptor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.descriptors[collection], nil
}

type fakeClient struct {
	provider string
	model    string
}

func (f *fakeClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (f *fakeClient) Provider() string { return f.provider }

func (f *fakeClient) Model() string { return f.model }

// countedResolver wires a resolver whose construction calls are counted.
func countedResolver(overrides OverrideSource, server ServerConfigSource, builds *int) *Resolver {
	r := NewResolver("profile-1", overrides, server, &recordingLogger{})
	r.build = func(name string, cfg provider.Config) (provider.EmbeddingClient, error) {
		*builds++
		return &fakeClient{provider: name, model: cfg.Model}, nil
	}
	return r
}

func TestResolveCacheIdempotence(t *testing.T) {
	server := fakeServerConfig{descriptors: map[string]*Descriptor{
		"docs": {Name: "openai", Config: map[string]interface{}{"model_name": "text-embedding-3-small"}},
	}}

	var builds int
	r := countedResolver(nil, server, &builds)

	first, err := r.Resolve(context.Background(), "docs", nil)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	second, err := r.Resolve(context.Background(), "docs", nil)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}

	if first != second {
		t.Error("second Resolve returned a different client instance")
	}
	if builds != 1 {
		t.Errorf("construction ran %d times, want 1", builds)
	}
}

func TestResolveCachePartitioning(t *testing.T) {
	var builds int
	r := countedResolver(nil, nil, &builds)

	descA := &Descriptor{Name: "openai", Config: map[string]interface{}{"model_name": "model-a"}}
	descB := &Descriptor{Name: "openai", Config: map[string]interface{}{"model_name": "model-b"}}

	clientA, err := r.Resolve(context.Background(), "docs", descA)
	if err != nil {
		t.Fatalf("Resolve descA failed: %v", err)
	}
	clientB, err := r.Resolve(context.Background(), "docs", descB)
	if err != nil {
		t.Fatalf("Resolve descB failed: %v", err)
	}

	if clientA == clientB {
		t.Error("different configs shared a cache entry")
	}
	if builds != 2 {
		t.Errorf("construction ran %d times, want 2", builds)
	}
}

func TestResolvePrecedence(t *testing.T) {
	server := fakeServerConfig{descriptors: map[string]*Descriptor{
		"docs": {Name: "openai", Config: map[string]interface{}{"model_name": "server-model"}},
	}}
	overrides := fakeOverrides{
		"profile-1/docs": {Name: "openai", Config: map[string]interface{}{"model_name": "override-model"}},
	}
	request := &Descriptor{Name: "openai", Config: map[string]interface{}{"model_name": "request-model"}}

	var builds int
	r := countedResolver(overrides, server, &builds)

	client, err := r.Resolve(context.Background(), "docs", request)
	if err != nil {
		t.Fatalf("Resolve with request descriptor failed: %v", err)
	}
	if client.Model() != "request-model" {
		t.Errorf("request override lost: model = %q", client.Model())
	}

	client, err = r.Resolve(context.Background(), "docs", nil)
	if err != nil {
		t.Fatalf("Resolve with persisted override failed: %v", err)
	}
	if client.Model() != "override-model" {
		t.Errorf("persisted override lost: model = %q", client.Model())
	}

	r2 := countedResolver(fakeOverrides{}, server, &builds)
	client, err = r2.Resolve(context.Background(), "docs", nil)
	if err != nil {
		t.Fatalf("Resolve with server config failed: %v", err)
	}
	if client.Model() != "server-model" {
		t.Errorf("server config lost: model = %q", client.Model())
	}
}

func TestResolveAbsent(t *testing.T) {
	log := &recordingLogger{}
	r := NewResolver("profile-1", nil, nil, log)

	_, err := r.Resolve(context.Background(), "docs", nil)
	if !IsNoEmbeddingFunctionError(err) {
		t.Fatalf("error = %v, want ErrNoEmbeddingFunction", err)
	}
	if len(log.debugs) == 0 {
		t.Error("no diagnostic emitted for absent embedding function")
	}
}

func TestResolveLegacyFunction(t *testing.T) {
	log := &recordingLogger{}
	server := fakeServerConfig{descriptors: map[string]*Descriptor{
		"docs": {Name: "default"},
	}}
	r := NewResolver("profile-1", nil, server, log)

	_, err := r.Resolve(context.Background(), "docs", nil)
	if !IsNoEmbeddingFunctionError(err) {
		t.Fatalf("error = %v, want ErrNoEmbeddingFunction", err)
	}
	if len(log.warns) == 0 {
		t.Error("no warning emitted for legacy embedding function")
	}
}

func TestResolveCredentialsErrorUnwrapped(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	r := NewResolver("profile-1", nil, nil, &recordingLogger{})
	request := &Descriptor{Name: "OpenAIEmbeddingFunction"}

	_, err := r.Resolve(context.Background(), "docs", request)
	credErr, ok := provider.AsCredentialsError(err)
	if !ok {
		t.Fatalf("error %v is not a CredentialsError", err)
	}
	if credErr.EnvVar != "OPENAI_API_KEY" {
		t.Errorf("EnvVar = %q, want OPENAI_API_KEY", credErr.EnvVar)
	}
	if credErr.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", credErr.Provider)
	}
}

func TestResolveServerSourceError(t *testing.T) {
	boom := errors.New("listing failed")
	r := NewResolver("profile-1", nil, fakeServerConfig{err: boom}, &recordingLogger{})

	_, err := r.Resolve(context.Background(), "docs", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the server source error", err)
	}
}

func TestClearCache(t *testing.T) {
	var builds int
	r := countedResolver(nil, nil, &builds)
	request := &Descriptor{Name: "openai"}

	if _, err := r.Resolve(context.Background(), "docs", request); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	r.ClearCache()
	if _, err := r.Resolve(context.Background(), "docs", request); err != nil {
		t.Fatalf("Resolve after ClearCache failed: %v", err)
	}

	if builds != 2 {
		t.Errorf("construction ran %d times after cache clear, want 2", builds)
	}
}
