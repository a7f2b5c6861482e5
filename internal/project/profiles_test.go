package project

import (
	"path/filepath"
	"testing"

	"github.com/qdevlab/cpwroute/internal/model"
)

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	profiles := []model.ProcessProfile{
		{Name: "Ta narrow", Description: "tantalum test line", TraceWidth: 5, GapWidth: 3, TurnRadius: 60},
		{Name: "Nb wide", TraceWidth: 15, GapWidth: 9, TurnRadius: 120, IsBuiltIn: true},
	}

	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[0].Name != "Ta narrow" {
		t.Errorf("expected 'Ta narrow', got %s", loaded[0].Name)
	}
	// Loaded profiles must never claim built-in status
	for _, p := range loaded {
		if p.IsBuiltIn {
			t.Errorf("profile %s should not be built-in after load", p.Name)
		}
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected empty slice, got %d profiles", len(profiles))
	}
}

func TestAllProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	custom := []model.ProcessProfile{{Name: "Lab special", TraceWidth: 8, GapWidth: 4, TurnRadius: 90}}
	if err := SaveCustomProfiles(path, custom); err != nil {
		t.Fatal(err)
	}

	all, err := AllProfiles(path)
	if err != nil {
		t.Fatalf("AllProfiles failed: %v", err)
	}
	if len(all) != len(model.ProcessProfiles)+1 {
		t.Fatalf("expected %d profiles, got %d", len(model.ProcessProfiles)+1, len(all))
	}
	if !all[0].IsBuiltIn {
		t.Error("expected built-in profiles first")
	}
	if all[len(all)-1].Name != "Lab special" {
		t.Errorf("expected custom profile last, got %s", all[len(all)-1].Name)
	}
}

func TestExportAndImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.json")

	original := model.ProcessProfiles[0]
	if err := ExportProfile(path, original); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}

	imported, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}

	if imported.Name != original.Name {
		t.Errorf("expected name %s, got %s", original.Name, imported.Name)
	}
	if imported.TraceWidth != original.TraceWidth {
		t.Errorf("expected trace width %f, got %f", original.TraceWidth, imported.TraceWidth)
	}
	if imported.IsBuiltIn {
		t.Error("imported profile should not be built-in")
	}
}

func TestImportProfileNoName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.json")
	if err := ExportProfile(path, model.ProcessProfile{TraceWidth: 10}); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportProfile(path); err == nil {
		t.Error("expected error for profile without name")
	}
}

func TestProfileApplyToSettings(t *testing.T) {
	s := model.DefaultSettings()
	p := model.ProcessProfile{
		Name:            "NbTiN compact",
		TraceWidth:      4,
		GapWidth:        2,
		TurnRadius:      50,
		BridgeLength:    20,
		BridgePitch:     150,
		BridgeClearance: 20,
	}
	p.ApplyToSettings(&s)

	if s.TurnRadius != 50 {
		t.Errorf("expected turn radius 50, got %f", s.TurnRadius)
	}
	if s.CPW.TraceWidth != 4 || s.CPW.GapWidth != 2 {
		t.Errorf("unexpected cross-section: %+v", s.CPW)
	}
	if s.BridgePitch != 150 {
		t.Errorf("expected bridge pitch 150, got %f", s.BridgePitch)
	}
}

func TestFindProcessProfile(t *testing.T) {
	if model.FindProcessProfile("Al standard") == nil {
		t.Error("expected to find built-in 'Al standard'")
	}
	if model.FindProcessProfile("does not exist") != nil {
		t.Error("expected nil for unknown profile")
	}
}
