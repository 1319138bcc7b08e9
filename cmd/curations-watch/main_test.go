package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-curations"
	"github.com/goliatone/go-curations/internal/tui"
)

func TestParseFlagsRequiresRecordOrLocation(t *testing.T) {
	if _, err := parseFlags(nil); !errors.Is(err, errRecordRequired) {
		t.Fatalf("expected errRecordRequired, got %v", err)
	}
	opts, err := parseFlags([]string{"-location-file", "/tmp/location", "-locale", "de"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if opts.locationFile != "/tmp/location" || opts.locale != "de" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	cfg, err := loadConfig(watchOptions{baseURL: "https://repo.example.org", locale: "de"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "https://repo.example.org" || cfg.I18N.Locale != "de" {
		t.Fatalf("overrides not applied: %+v", cfg.API)
	}
}

func TestRunStartsPollerAndProgram(t *testing.T) {
	module, err := curations.New(curations.DefaultConfig())
	if err != nil {
		t.Fatalf("server module: %v", err)
	}
	handler, err := module.APIHandler()
	if err != nil {
		t.Fatalf("api handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	original := runProgram
	defer func() { runProgram = original }()

	var rendered string
	runProgram = func(model tea.Model) error {
		if _, ok := model.(tui.Model); !ok {
			t.Fatalf("expected tui model, got %T", model)
		}
		rendered = model.View()
		return nil
	}

	if err := run(context.Background(), []string{"-base-url", srv.URL, "-record", "abc12"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rendered == "" {
		t.Fatalf("expected the program to receive a rendered model")
	}

	resp, err := http.Get(srv.URL + "/api/curations?topic=record:abc12")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected search to succeed, got %d", resp.StatusCode)
	}
}
