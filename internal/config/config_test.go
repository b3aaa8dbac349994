package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, err := read("")
	if err != nil {
		t.Fatalf("read(\"\") error = %v, want nil", err)
	}
	if c.Server.Port != 8000 || c.Import.DuplicatePolicy != "reject" || c.Dashboard.BalancePolicy != "month" {
		t.Errorf("defaults = %+v", c)
	}
	if !c.Dashboard.SalesAuthoritative {
		t.Error("sales should be authoritative by default")
	}
	if len(c.Server.CORSOrigins) != 1 || c.Server.CORSOrigins[0] != "*" {
		t.Errorf("cors origins = %v, want [*]", c.Server.CORSOrigins)
	}
}

func TestReadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 9100\ndashboard:\n  balance_policy: carry_forward\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ERP_IMPORT_DUPLICATE_POLICY", "allow")

	c, err := read(path)
	if err != nil {
		t.Fatalf("read(%q) error = %v, want nil", path, err)
	}
	if c.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", c.Server.Port)
	}
	if c.Dashboard.BalancePolicy != "carry_forward" {
		t.Errorf("balance policy = %q, want carry_forward", c.Dashboard.BalancePolicy)
	}
	if c.Import.DuplicatePolicy != "allow" {
		t.Errorf("duplicate policy = %q, want allow from env", c.Import.DuplicatePolicy)
	}
}

func TestReadMissingExplicitFile(t *testing.T) {
	if _, err := read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("read of a missing explicit file should fail")
	}
}

func TestValidate(t *testing.T) {
	c := Config{
		Server:    ServerConfig{Port: 0},
		Import:    ImportConfig{DuplicatePolicy: "maybe", MaxUploadMB: 0},
		Dashboard: DashboardConfig{BalancePolicy: "weekly"},
		Log:       LogConfig{Format: "xml"},
	}
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want problems")
	}
	for _, want := range []string{"server port", "database path", "duplicate policy", "max upload", "balance policy", "log format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q:\n%v", want, err)
		}
	}
}

func TestValidatePolicyCase(t *testing.T) {
	c := Config{
		Server:    ServerConfig{Port: 8000},
		Database:  DatabaseConfig{Path: "x.db"},
		Import:    ImportConfig{DuplicatePolicy: "Reject", MaxUploadMB: 10},
		Dashboard: DashboardConfig{BalancePolicy: "Register_Cash"},
		Log:       LogConfig{Format: "text"},
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
