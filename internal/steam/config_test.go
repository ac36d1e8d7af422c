package steam

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const configWithMapping = `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"CompatToolMapping"
				{
					"0"
					{
						"name"		"GE-Proton7-8"
						"config"		""
						"priority"		"75"
					}
				}
				"OtherBlock"
				{
					"name"		"untouched"
				}
			}
		}
	}
}
`

const configWithoutMapping = `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
			}
		}
	}
}
`

func writeConfig(t *testing.T, contents string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.vdf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return NewConfig(path)
}

func TestDefaultCompatTool(t *testing.T) {
	cfg := writeConfig(t, configWithMapping)

	name, err := cfg.DefaultCompatTool()
	if err != nil {
		t.Fatalf("DefaultCompatTool failed: %v", err)
	}
	if name != "GE-Proton7-8" {
		t.Errorf("name = %q, want GE-Proton7-8", name)
	}
}

func TestDefaultCompatToolMissingMapping(t *testing.T) {
	cfg := writeConfig(t, configWithoutMapping)

	_, err := cfg.DefaultCompatTool()
	if !errors.Is(err, ErrNoCompatToolMapping) {
		t.Errorf("error = %v, want ErrNoCompatToolMapping", err)
	}
}

func TestSetDefaultCompatTool(t *testing.T) {
	cfg := writeConfig(t, configWithMapping)

	if err := cfg.SetDefaultCompatTool("GE-Proton8-1"); err != nil {
		t.Fatalf("SetDefaultCompatTool failed: %v", err)
	}

	name, err := cfg.DefaultCompatTool()
	if err != nil {
		t.Fatalf("DefaultCompatTool after set failed: %v", err)
	}
	if name != "GE-Proton8-1" {
		t.Errorf("name = %q, want GE-Proton8-1", name)
	}

	// Everything outside the one value stays byte-identical.
	rewritten, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatalf("read rewritten config: %v", err)
	}
	want := strings.Replace(configWithMapping, "GE-Proton7-8", "GE-Proton8-1", 1)
	if string(rewritten) != want {
		t.Errorf("rewritten config diverged:\n%s", rewritten)
	}
	if !strings.Contains(string(rewritten), `"name"		"untouched"`) {
		t.Error("unrelated block was modified")
	}
}

func TestSetDefaultCompatToolMissingMapping(t *testing.T) {
	cfg := writeConfig(t, configWithoutMapping)

	err := cfg.SetDefaultCompatTool("GE-Proton8-1")
	if !errors.Is(err, ErrNoCompatToolMapping) {
		t.Errorf("error = %v, want ErrNoCompatToolMapping", err)
	}
}

func TestMissingConfigFile(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), "absent.vdf"))

	if _, err := cfg.DefaultCompatTool(); err == nil {
		t.Error("expected error for missing config file")
	}
	if err := cfg.SetDefaultCompatTool("GE-Proton8-1"); err == nil {
		t.Error("expected error for missing config file")
	}
}
