package ident

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseWidgetID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    WidgetID
		wantErr error
	}{
		{
			name:  "root widget",
			input: "c:1:0:0",
			want:  WidgetID{TypeCode: "c", Unique: "1", Container: "0", Location: "0"},
		},
		{
			name:  "nested widget with location",
			input: "plot:3f:1:grid.0",
			want:  WidgetID{TypeCode: "plot", Unique: "3f", Container: "1", Location: "grid.0"},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "three parts",
			input:   "c:1:0",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "five parts",
			input:   "c:1:0:0:extra",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "empty field",
			input:   "c:1::0",
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWidgetID(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseObservableID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ObservableID
		wantErr error
	}{
		{
			name:  "bound with property",
			input: "obs:2:1:frequency",
			want:  ObservableID{Unique: "2", Widget: "1", Property: "frequency"},
		},
		{
			name:  "standalone without property",
			input: "obs:2:0:",
			want:  ObservableID{Unique: "2", Widget: "0", Property: ""},
		},
		{
			name:    "missing obs tag",
			input:   "c:2:1:frequency",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "empty widget field",
			input:   "obs:2::frequency",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "three parts",
			input:   "obs:2:1",
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObservableID(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWidgetID_BuildParseRoundTrip(t *testing.T) {
	colonFree := rapid.StringMatching(`[0-9A-Za-z._-]{1,8}`)
	rapid.Check(t, func(t *rapid.T) {
		want := WidgetID{
			TypeCode:  colonFree.Draw(t, "typeCode"),
			Unique:    colonFree.Draw(t, "unique"),
			Container: colonFree.Draw(t, "container"),
			Location:  colonFree.Draw(t, "location"),
		}
		got, err := ParseWidgetID(want.String())
		if err != nil {
			t.Fatalf("parse(%q): %v", want.String(), err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: %+v != %+v", got, want)
		}
	})
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantWidget     bool
		wantObservable bool
		wantProperty   bool
	}{
		{name: "widget id", input: "c:1:0:0", wantWidget: true},
		{name: "observable id", input: "obs:2:1:frequency", wantObservable: true},
		{name: "standalone observable id", input: "obs:2:0:", wantObservable: true},
		{name: "property id", input: "obs:2:1:frequency:unit", wantProperty: true},
		{name: "property id on standalone observable", input: "obs:2:0::unit", wantProperty: true},
		{name: "obs tag is not a widget type code", input: "obs:2:1:frequency", wantWidget: false, wantObservable: true},
		{name: "garbage", input: "not-an-id"},
		{name: "empty", input: ""},
		{name: "property id with empty name", input: "obs:2:1:frequency:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantWidget, IsWidgetID(tt.input), "IsWidgetID")
			require.Equal(t, tt.wantObservable, IsObservableID(tt.input), "IsObservableID")
			require.Equal(t, tt.wantProperty, IsPropertyID(tt.input), "IsPropertyID")
		})
	}
}

func TestProjections_Lenient(t *testing.T) {
	// Projections never fail; malformed input yields the sentinel.
	require.Equal(t, "plot", TypeCodeOf("plot:3f:1:grid.0"))
	require.Equal(t, "", TypeCodeOf("garbage"))

	require.Equal(t, "3f", UniqueIDOf("plot:3f:1:grid.0"))
	require.Equal(t, "2", UniqueIDOf("obs:2:1:frequency"))
	require.Equal(t, "0", UniqueIDOf("garbage"))

	require.Equal(t, "1", ContainerIDOf("plot:3f:1:grid.0"))
	require.Equal(t, "0", ContainerIDOf("too:few:parts"))

	require.Equal(t, "grid.0", LocationOf("plot:3f:1:grid.0"))
	require.Equal(t, "0", LocationOf(""))

	require.Equal(t, "1", WidgetIDOf("obs:2:1:frequency"))
	require.Equal(t, "0", WidgetIDOf("plot:3f:1:grid.0"))

	require.Equal(t, "frequency", PropertyNameOf("obs:2:1:frequency"))
	require.Equal(t, "unit", PropertyNameOf("obs:2:1:frequency:unit"))
	require.Equal(t, "", PropertyNameOf("garbage"))
}

func TestSplitPropertyID(t *testing.T) {
	obsID, name, ok := SplitPropertyID(BuildPropertyID("obs:2:1:frequency", "unit"))
	require.True(t, ok)
	require.Equal(t, "obs:2:1:frequency", obsID)
	require.Equal(t, "unit", name)

	_, _, ok = SplitPropertyID("obs:2:1:frequency")
	require.False(t, ok, "a bare observable id is not a property id")

	_, _, ok = SplitPropertyID("nocolons")
	require.False(t, ok)
}
