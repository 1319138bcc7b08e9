package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

type transition struct {
	Action string `json:"action"`
	To     string `json:"to"`
}

func TestLoadFixtureRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(`{"action":"accept","to":"accepted","closed":true}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	var got transition
	if err := LoadFixture(path, &got); err == nil {
		t.Fatalf("expected unknown field error, got %+v", got)
	}
}

func TestLoadGoldenRewritesWhenRequested(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte(`[{"action":"review","to":"review"}]`), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	got := []transition{{Action: "accept", To: "accepted"}}

	var want []transition
	if err := LoadGolden(path, got, &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if len(want) != 1 || want[0].Action != "review" {
		t.Fatalf("expected stored golden, got %+v", want)
	}

	t.Setenv(UpdateGoldenEnv, "1")
	want = nil
	if err := LoadGolden(path, got, &want); err != nil {
		t.Fatalf("update golden: %v", err)
	}
	if len(want) != 1 || want[0].Action != "accept" || want[0].To != "accepted" {
		t.Fatalf("expected rewritten golden, got %+v", want)
	}
}
