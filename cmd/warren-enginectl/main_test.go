package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nimbusctl/stormengine/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	for _, c := range []string{"config", "registry", "log-level"} {
		_ = rootCmd.PersistentFlags().Set(c, "")
	}
	_ = rootCmd.PersistentFlags().Set("log-json", "false")
	if f := registerCmd.Flags().Lookup("provider"); f != nil {
		_ = f.Value.Set("")
		f.Changed = false
	}
}

func TestRegisterOfferDismissRoundTrip(t *testing.T) {
	dir := t.TempDir()
	registryPath := filepath.Join(dir, "state.storm")

	resetFlags(t)
	cfg = config.Config{RegistryPath: registryPath, PoolSize: 2, LogLevel: "error"}

	rootCmd.SetArgs([]string{"register", "web", "--provider", "echo", "--registry", registryPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := os.Stat(registryPath); err != nil {
		t.Fatalf("expected registry file to be stored: %v", err)
	}

	imageFile := filepath.Join(dir, "image.yaml")
	if err := os.WriteFile(imageFile, []byte("name: app\ntag: v1\n"), 0600); err != nil {
		t.Fatalf("write image file: %v", err)
	}

	rootCmd.SetArgs([]string{"offer", "web", "--image-file", imageFile, "--registry", registryPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("offer: %v", err)
	}

	rootCmd.SetArgs([]string{"dismiss", "web", "--registry", registryPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
}

func TestRegisterRequiresProviderFlag(t *testing.T) {
	dir := t.TempDir()
	resetFlags(t)
	cfg = config.Config{RegistryPath: filepath.Join(dir, "state.storm"), LogLevel: "error"}

	rootCmd.SetArgs([]string{"register", "web"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error when --provider is omitted")
	}
}

func TestLoadImageFileRequiresName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.yaml")
	if err := os.WriteFile(path, []byte("tag: v1\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadImageFile(path); err == nil {
		t.Fatal("expected an error when name is missing")
	}
}
