package cli

import (
	"testing"
	"time"

	"github.com/vectordesk/core/v1/vectorstore"
)

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"chroma", "pinecone", "qdrant"} {
		kind, err := parseBackend(name)
		if err != nil {
			t.Errorf("parseBackend(%q): unexpected error: %v", name, err)
		}
		if string(kind) != name {
			t.Errorf("parseBackend(%q) = %q", name, kind)
		}
	}

	if _, err := parseBackend("weaviate"); err == nil {
		t.Error("expected an error for an unknown backend")
	}
	if _, err := parseBackend(""); err == nil {
		t.Error("expected an error for an empty backend")
	}
}

func TestEFDescriptor(t *testing.T) {
	d, err := efDescriptor("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil descriptor without --ef, got %+v", d)
	}

	if _, err := efDescriptor("", map[string]string{"model_name": "x"}); err == nil {
		t.Error("expected an error for --ef-config without --ef")
	}

	d, err = efDescriptor("ollama", map[string]string{"model_name": "nomic-embed-text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "ollama" {
		t.Errorf("expected name ollama, got %s", d.Name)
	}
	if d.Config["model_name"] != "nomic-embed-text" {
		t.Errorf("expected config entry, got %+v", d.Config)
	}

	d, err = efDescriptor("openai", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Config != nil {
		t.Errorf("expected nil config, got %+v", d.Config)
	}
}

func TestProfileTarget(t *testing.T) {
	tests := []struct {
		profile  vectorstore.ConnectionProfile
		expected string
	}{
		{vectorstore.ConnectionProfile{Backend: vectorstore.BackendChroma, URL: "http://localhost:8000"}, "http://localhost:8000"},
		{vectorstore.ConnectionProfile{Backend: vectorstore.BackendPinecone, IndexName: "articles"}, "articles"},
		{vectorstore.ConnectionProfile{Backend: vectorstore.BackendQdrant, Host: "qdrant.internal", Port: 6334}, "qdrant.internal:6334"},
		{vectorstore.ConnectionProfile{Backend: "unknown"}, ""},
	}
	for _, tt := range tests {
		if got := profileTarget(tt.profile); got != tt.expected {
			t.Errorf("profileTarget(%s) = %q, expected %q", tt.profile.Backend, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Millisecond, "<1s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Hour, "2h0m"},
		{150 * time.Minute, "2h30m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}
