package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, Validate(cfg))
	require.Equal(t, 16, cfg.Registry.EventBuffer)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "ch", cfg.TypeCodes["chart"])
}

func TestValidateTypeCodes(t *testing.T) {
	tests := []struct {
		name    string
		codes   map[string]string
		wantErr string
	}{
		{
			name:  "valid codes",
			codes: map[string]string{"chart": "ch", "scope": "sc"},
		},
		{
			name:  "empty table",
			codes: nil,
		},
		{
			name:    "empty code",
			codes:   map[string]string{"chart": ""},
			wantErr: "code is required",
		},
		{
			name:    "separator in code",
			codes:   map[string]string{"chart": "c:h"},
			wantErr: "must not contain",
		},
		{
			name:    "observable tag reserved",
			codes:   map[string]string{"chart": "obs"},
			wantErr: "reserved for observables",
		},
		{
			name:    "null field reserved",
			codes:   map[string]string{"chart": "0"},
			wantErr: "reserved as the null field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTypeCodes(tt.codes)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRegistry(t *testing.T) {
	require.NoError(t, ValidateRegistry(RegistryConfig{EventBuffer: 0}))
	require.Error(t, ValidateRegistry(RegistryConfig{EventBuffer: -1}))
}

func TestValidateTracing(t *testing.T) {
	cfg := DefaultConfig().Tracing
	require.NoError(t, ValidateTracing(cfg))

	cfg.SampleRate = 1.5
	require.ErrorContains(t, ValidateTracing(cfg), "sample_rate")

	cfg = DefaultConfig().Tracing
	cfg.Exporter = "carrier-pigeon"
	require.ErrorContains(t, ValidateTracing(cfg), "exporter")
}
