package telemetry

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const testDir = "/home/tester/.seiton"

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	oldFs, oldDir := Fs, Dir
	Fs = afero.NewMemMapFs()
	Dir = func() (string, error) { return testDir, nil }
	t.Cleanup(func() { Fs, Dir = oldFs, oldDir })
	return Fs
}

func TestLoad_NewConfig(t *testing.T) {
	useMemFs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled || !cfg.NeedsConsent() {
		t.Errorf("new config should be disabled and unasked, got %+v", cfg)
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be a UUID, got %q", cfg.AnonymousID)
	}
}

func TestSaveAndLoad(t *testing.T) {
	fs := useMemFs(t)

	cfg := &Config{AnonymousID: "fixed-id"}
	cfg.Enable()
	if cfg.AnsweredAt.IsZero() {
		t.Error("Enable() should stamp AnsweredAt")
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := fs.Stat(testDir + "/" + ConfigFileName)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.IsEnabled() || loaded.NeedsConsent() || loaded.AnonymousID != "fixed-id" {
		t.Errorf("round trip lost state: %+v", loaded)
	}

	loaded.Disable()
	if loaded.IsEnabled() || loaded.NeedsConsent() {
		t.Errorf("Disable() should keep the answer recorded: %+v", loaded)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	fs := useMemFs(t)
	if err := afero.WriteFile(fs, testDir+"/"+ConfigFileName, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on invalid JSON")
	}
}

func TestPromptForConsent(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"\n", false},
		{"n\n", false},
		{"", false},
	}
	for _, tt := range tests {
		useMemFs(t)
		cfg := &Config{AnonymousID: "id"}
		var out strings.Builder

		got, err := PromptForConsent(cfg, strings.NewReader(tt.input), &out)
		if err != nil {
			t.Fatalf("PromptForConsent(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("PromptForConsent(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if cfg.NeedsConsent() {
			t.Errorf("PromptForConsent(%q) should record the answer", tt.input)
		}
		if !strings.Contains(out.String(), "Enable anonymous telemetry?") {
			t.Errorf("prompt not written: %q", out.String())
		}
	}
}
