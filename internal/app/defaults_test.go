package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SHELF_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("SHELF_HOME", "/custom/shelf")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		want := Defaults{
			ConfigPath: "/custom/config.toml",
			BaseDir:    "/custom/shelf",
			LogDir:     "/custom/shelf/log",
		}
		if defaults != want {
			t.Errorf("GetDefaults() = %+v, want %+v", defaults, want)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("SHELF_CONFIG_PATH", "")
		t.Setenv("SHELF_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()
		want := Defaults{
			ConfigPath: filepath.Join(homeDir, ".config", "shelf.toml"),
			BaseDir:    filepath.Join(homeDir, ".local", "share", "shelf"),
			LogDir:     filepath.Join(homeDir, ".local", "share", "shelf", "log"),
		}
		if defaults != want {
			t.Errorf("GetDefaults() = %+v, want %+v", defaults, want)
		}
	})
}
