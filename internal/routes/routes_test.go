package routes

import (
	"net/url"
	"testing"

	"github.com/goliatone/go-curations/internal/runtimeconfig"
)

func newTestSet(t *testing.T) *Set {
	t.Helper()
	set, err := New(runtimeconfig.DefaultRoutes("https://repo.example.org"))
	if err != nil {
		t.Fatalf("new route set: %v", err)
	}
	return set
}

func TestSetBuildsAPIRoutes(t *testing.T) {
	set := newTestSet(t)

	link, err := set.Curations(url.Values{"topic": {"record:abc12"}, "expand": {"1"}})
	if err != nil {
		t.Fatalf("curations: %v", err)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse %q: %v", link, err)
	}
	if parsed.Host != "repo.example.org" || parsed.Path != "/api/curations" {
		t.Fatalf("unexpected curations url %q", link)
	}
	if parsed.Query().Get("topic") != "record:abc12" || parsed.Query().Get("expand") != "1" {
		t.Fatalf("expected query to survive, got %q", parsed.RawQuery)
	}

	action, err := set.Action("req-1", "resubmit")
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	if action != "https://repo.example.org/api/curations/req-1/actions/resubmit" {
		t.Fatalf("unexpected action url %q", action)
	}

	data, err := set.PublishingData()
	if err != nil {
		t.Fatalf("publishing data: %v", err)
	}
	if data != "https://repo.example.org/api/curations/publishing-data" {
		t.Fatalf("unexpected publishing data url %q", data)
	}
}

func TestSetBuildsRequestPage(t *testing.T) {
	set := newTestSet(t)
	link := set.RequestPageFunc()("req-9")
	if link != "https://repo.example.org/me/requests/req-9" {
		t.Fatalf("unexpected request page %q", link)
	}
}

func TestSetRejectsMissingIdentifiers(t *testing.T) {
	set := newTestSet(t)
	if _, err := set.Curation(" "); err != ErrRequestIDRequired {
		t.Fatalf("expected ErrRequestIDRequired, got %v", err)
	}
	if _, err := set.Action("req-1", ""); err != ErrActionRequired {
		t.Fatalf("expected ErrActionRequired, got %v", err)
	}
	if _, err := New(nil); err != ErrRouteConfigRequired {
		t.Fatalf("expected ErrRouteConfigRequired, got %v", err)
	}
}

func TestSetReportsUnknownGroup(t *testing.T) {
	set := newTestSet(t)
	if _, err := set.build("missing", RouteCuration, nil, nil); err == nil {
		t.Fatal("expected error for unknown group")
	}
}
