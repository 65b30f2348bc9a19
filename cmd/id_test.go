package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestIDEncodeCommand(t *testing.T) {
	out := execute(t, "id:encode", "999999")
	require.Equal(t, "4C91", strings.TrimSpace(out))
}

func TestIDDecodeCommand(t *testing.T) {
	out := execute(t, "id:decode", "4C91")
	require.Equal(t, "999999", strings.TrimSpace(out))
}

func TestIDDecodeCommand_RejectsBadInput(t *testing.T) {
	rootCmd.SetArgs([]string{"id:decode", "not-base62!"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	require.Error(t, rootCmd.Execute())
}

func TestDescribeID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want idDescription
	}{
		{
			name: "widget",
			id:   "ch:4:1:dock.left",
			want: idDescription{
				ID:        "ch:4:1:dock.left",
				Kind:      "widget",
				TypeCode:  "ch",
				Unique:    "4",
				Container: "1",
				Location:  "dock.left",
			},
		},
		{
			name: "observable",
			id:   "obs:7:4:volts",
			want: idDescription{
				ID:       "obs:7:4:volts",
				Kind:     "observable",
				Unique:   "7",
				Widget:   "4",
				Property: "volts",
			},
		},
		{
			name: "property",
			id:   "obs:7:4:volts:scale",
			want: idDescription{
				ID:       "obs:7:4:volts:scale",
				Kind:     "property",
				Unique:   "7",
				Widget:   "4",
				Property: "scale",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := describeID(tt.id)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeID_Unrecognized(t *testing.T) {
	_, err := describeID("just-a-string")
	require.Error(t, err)
}
