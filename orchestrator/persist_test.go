package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRegisterPersistsExpectedDirectoryLayout(t *testing.T) {
	dir := t.TempDir()
	req := RunRequest{
		Inputs: []Input{
			{Src: "a.tiff", Reader: squareReader{dim: 40}},
			{Src: "b.tiff", Reader: squareReader{dim: 40}},
		},
		ReferenceSrc: "a.tiff",
		OutDir:       dir,
		Name:         "run1",
	}
	if _, _, err := Register(context.Background(), req, testConfig()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	root := filepath.Join(dir, "run1")
	for _, want := range []string{
		"images", "processed", "masks",
		"rigid_registration", "non_rigid_registration",
		"deformation_fields", "overlaps", "data",
		filepath.Join("data", "displacements"),
	} {
		if info, err := os.Stat(filepath.Join(root, want)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist: %v", want, err)
		}
	}
	for _, want := range []string{
		filepath.Join("data", "data.json"),
		filepath.Join("data", "summary.csv"),
		filepath.Join("overlaps", "original.png"),
		filepath.Join("overlaps", "rigid.png"),
		filepath.Join("overlaps", "non_rigid.png"),
	} {
		if _, err := os.Stat(filepath.Join(root, want)); err != nil {
			t.Fatalf("expected file %s to exist: %v", want, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(root, "data", "displacements"))
	if err != nil {
		t.Fatalf("reading displacements dir: %v", err)
	}
	// only the non-reference slide spills fields.
	if len(entries) != 2 {
		t.Fatalf("want 2 spilled TIFFs (fwd+bwd for one slide), got %d", len(entries))
	}
}

func TestRegisterSingleSlidePersistsWithoutSummary(t *testing.T) {
	dir := t.TempDir()
	req := RunRequest{
		Inputs: []Input{{Src: "only.tiff", Reader: squareReader{dim: 40}}},
		OutDir: dir,
		Name:   "solo",
	}
	if _, _, err := Register(context.Background(), req, NewConfig()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	root := filepath.Join(dir, "solo")
	if _, err := os.Stat(filepath.Join(root, "data", "data.json")); err != nil {
		t.Fatalf("expected data.json: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "data", "summary.csv")); err == nil {
		t.Fatalf("single-slide run has no summary rows, summary.csv should not be written")
	}
}
