package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/project"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	// Seed a source installation: custom profile + template on disk
	profilesPath := filepath.Join(src, "profiles.json")
	templatesPath := filepath.Join(src, "templates.json")
	custom := []model.ProcessProfile{
		{Name: "Lab special", TraceWidth: 8, GapWidth: 4, TurnRadius: 90},
	}
	if err := project.SaveCustomProfiles(profilesPath, custom); err != nil {
		t.Fatalf("failed to seed profiles: %v", err)
	}
	store := model.NewTemplateStore()
	store.Add(model.NewRouteTemplate("U feedline", "", []model.Node{
		model.WaypointNode(0, 0),
		model.WaypointNode(2000, 0),
	}, model.DefaultSettings()))
	if err := project.SaveTemplates(templatesPath, store); err != nil {
		t.Fatalf("failed to seed templates: %v", err)
	}

	config := model.DefaultAppConfig()
	config.DefaultTurnRadius = 150
	config.RecentRoutes = []string{"feedline.json"}

	backupFile := filepath.Join(src, "backup.json")
	if err := runBackup(backupFile, config, profilesPath, templatesPath); err != nil {
		t.Fatalf("runBackup returned error: %v", err)
	}
	if _, err := os.Stat(backupFile); err != nil {
		t.Fatalf("backup file was not created: %v", err)
	}

	// Restore into a fresh installation
	dstConfig := filepath.Join(dst, "config.json")
	dstProfiles := filepath.Join(dst, "profiles.json")
	dstTemplates := filepath.Join(dst, "templates.json")
	if err := runRestore(backupFile, dstConfig, dstProfiles, dstTemplates); err != nil {
		t.Fatalf("runRestore returned error: %v", err)
	}

	restored, err := project.LoadAppConfig(dstConfig)
	if err != nil {
		t.Fatalf("failed to load restored config: %v", err)
	}
	if restored.DefaultTurnRadius != 150 {
		t.Errorf("expected restored turn radius 150, got %g", restored.DefaultTurnRadius)
	}
	if len(restored.RecentRoutes) != 1 || restored.RecentRoutes[0] != "feedline.json" {
		t.Errorf("recent routes not restored: %v", restored.RecentRoutes)
	}

	profiles, err := project.LoadCustomProfiles(dstProfiles)
	if err != nil {
		t.Fatalf("failed to load restored profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "Lab special" {
		t.Errorf("profiles not restored: %+v", profiles)
	}

	templates, err := project.LoadTemplates(dstTemplates)
	if err != nil {
		t.Fatalf("failed to load restored templates: %v", err)
	}
	if tpl := templates.FindByName("U feedline"); tpl == nil {
		t.Error("template 'U feedline' not restored")
	}
}

func TestRunBackupEmptyInstallation(t *testing.T) {
	dir := t.TempDir()

	// Missing profile and template files behave as empty, not as errors
	out := filepath.Join(dir, "backup.json")
	err := runBackup(out, model.DefaultAppConfig(),
		filepath.Join(dir, "profiles.json"), filepath.Join(dir, "templates.json"))
	if err != nil {
		t.Fatalf("runBackup returned error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("backup file was not created: %v", err)
	}
}

func TestRunRestoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := runRestore(filepath.Join(dir, "missing.json"),
		filepath.Join(dir, "c.json"), filepath.Join(dir, "p.json"), filepath.Join(dir, "t.json"))
	if err == nil {
		t.Fatal("expected error for missing backup file, got nil")
	}
}
