package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig("")

	if cfg.Render.Format != "gtr" {
		t.Errorf("Format = %q, want gtr", cfg.Render.Format)
	}
	if !cfg.Render.Siblings || !cfg.Render.AncestorSiblings {
		t.Error("sibling flags should default to true")
	}
	if cfg.Render.MaxAncestorGenerations != -1 || cfg.Render.MaxDescendantGenerations != -1 {
		t.Error("generation limits should default to unlimited")
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Serve.Addr)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if cfg.Render.Format != "gtr" {
		t.Errorf("missing file should yield defaults, got Format = %q", cfg.Render.Format)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[render]
format = "svg"
siblings = false
max_ancestor_generations = 3

[serve]
addr = ":9090"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(path)
	if cfg.Render.Format != "svg" {
		t.Errorf("Format = %q, want svg", cfg.Render.Format)
	}
	if cfg.Render.Siblings {
		t.Error("Siblings should be overridden to false")
	}
	if cfg.Render.MaxAncestorGenerations != 3 {
		t.Errorf("MaxAncestorGenerations = %d, want 3", cfg.Render.MaxAncestorGenerations)
	}
	if cfg.Serve.Addr != ":9090" || cfg.Serve.RedisAddr != "localhost:6379" {
		t.Errorf("serve config = %+v, want overridden values", cfg.Serve)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(path)
	if cfg.Render.Format != "gtr" {
		t.Errorf("malformed file should yield defaults, got Format = %q", cfg.Render.Format)
	}
}
