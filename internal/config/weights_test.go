package config

import (
	"os"
	"path/filepath"
	"testing"

	"talentmatch/internal/domain/matching"
)

const validWeightsYAML = `weights:
  semantic: 0.20
  location: 0.16
  compensation: 0.20
  motivation: 0.10
  company_size: 0.07
  work_environment: 0.07
  industry: 0.05
  availability: 0.05
  contract_type: 0.05
  listen_reasons: 0.03
  process_position: 0.02
`

func writeWeightsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write weights file: %v", err)
	}
	return path
}

func TestLoadWeightsEmptyPathKeepsReference(t *testing.T) {
	table, err := LoadWeights("")
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	base := matching.BaseWeights()
	for _, c := range matching.Criteria() {
		if table[c] != base[c] {
			t.Fatalf("weight for %s = %v, want reference %v", c, table[c], base[c])
		}
	}
}

func TestLoadWeightsOverrideFile(t *testing.T) {
	path := writeWeightsFile(t, validWeightsYAML)

	table, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if table[matching.CriterionCompensation] != 0.20 {
		t.Fatalf("compensation = %v, want 0.20", table[matching.CriterionCompensation])
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("loaded table invalid: %v", err)
	}
}

func TestLoadWeightsRejectsPartialTable(t *testing.T) {
	path := writeWeightsFile(t, "weights:\n  semantic: 1.0\n")
	if _, err := LoadWeights(path); err == nil {
		t.Fatal("expected error for a partial weight table")
	}
}

func TestLoadWeightsRejectsMissingSection(t *testing.T) {
	path := writeWeightsFile(t, "other:\n  key: 1\n")
	if _, err := LoadWeights(path); err == nil {
		t.Fatal("expected error when the weights section is absent")
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	if _, err := LoadWeights(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
