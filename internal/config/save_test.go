package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/scopekit/scopekit/internal/tracing"
)

func TestSaveTypeCodes_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	err := SaveTypeCodes(path, map[string]string{"chart": "ch", "scope": "sc"})
	require.NoError(t, err)

	var got struct {
		TypeCodes map[string]string `yaml:"type_codes"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, map[string]string{"chart": "ch", "scope": "sc"}, got.TypeCodes)
}

func TestSaveTypeCodes_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	initial := "# my settings\ndebug: true\ntype_codes:\n  old: \"xx\"\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0644))

	err := SaveTypeCodes(path, map[string]string{"chart": "ch"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# my settings")
	require.Contains(t, content, "debug: true")
	require.Contains(t, content, "chart: ch")
	require.NotContains(t, content, "old:")
}

func TestSaveTracing_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	want := tracing.DefaultConfig()
	want.Enabled = true
	want.Exporter = "stdout"
	want.SampleRate = 0.25

	require.NoError(t, SaveTracing(path, want))

	var got struct {
		Tracing tracing.Config `yaml:"tracing"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, want, got.Tracing)
}

func TestSaveSection_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	require.NoError(t, SaveTypeCodes(path, map[string]string{"chart": "ch"}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
