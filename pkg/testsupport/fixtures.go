// Package testsupport loads the JSON fixtures and golden files that drive the
// workflow tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// UpdateGoldenEnv names the variable that makes LoadGolden rewrite golden
// files from the values under test.
const UpdateGoldenEnv = "CURATIONS_UPDATE_GOLDEN"

// LoadFixture decodes the JSON file at path into v. Unknown fields are an
// error so fixtures cannot drift from the types they describe.
func LoadFixture(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("testsupport: decode %s: %w", path, err)
	}
	return nil
}

// LoadGolden decodes the golden file at path into want. When UpdateGoldenEnv
// is set, got is written to path first.
func LoadGolden(path string, got, want any) error {
	if os.Getenv(UpdateGoldenEnv) != "" {
		data, err := json.MarshalIndent(got, "", "  ")
		if err != nil {
			return fmt.Errorf("testsupport: encode %s: %w", path, err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return err
		}
	}
	return LoadFixture(path, want)
}
