package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildServerAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curations.yaml")
	if err := os.WriteFile(path, []byte("server:\n  address: \":6000\"\nlogging:\n  level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	server, module, cfg, err := buildServer([]string{"-config", path, "-base-url", "https://repo.example.org", "-actor", "7"})
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	if server.Addr != ":6000" {
		t.Fatalf("expected address from config, got %q", server.Addr)
	}
	if cfg.Server.Actor.ID != "7" {
		t.Fatalf("expected actor flag to apply, got %q", cfg.Server.Actor.ID)
	}
	if module == nil {
		t.Fatalf("expected module")
	}

	body := strings.NewReader(`{"topic":{"record":"abc12"}}`)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/curations", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		CreatedBy map[string]string `json:"created_by"`
		Links     struct {
			Self string `json:"self"`
		} `json:"links"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CreatedBy["user"] != "7" {
		t.Fatalf("expected actor 7, got %v", created.CreatedBy)
	}
	if !strings.HasPrefix(created.Links.Self, "https://repo.example.org/api/curations/") {
		t.Fatalf("unexpected self link %q", created.Links.Self)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, []string{"-addr", "127.0.0.1:0"}); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}

func TestBuildServerRejectsUnknownFlag(t *testing.T) {
	if _, _, _, err := buildServer([]string{"-nope"}); err == nil {
		t.Fatalf("expected flag error")
	}
}
