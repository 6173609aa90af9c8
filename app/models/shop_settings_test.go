package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCornerFromLegacyPosition(t *testing.T) {
	tests := []struct {
		in     string
		want   Corner
		wantOK bool
	}{
		{in: "top-left", want: CornerTopLeft, wantOK: true},
		{in: "top-right", want: CornerTopRight, wantOK: true},
		{in: "bottom-left", want: CornerBottomLeft, wantOK: true},
		{in: "bottom-right", want: CornerBottomRight, wantOK: true},
		{in: "TOP_LEFT", want: CornerTopLeft, wantOK: true},
		{in: "BOTTOM_RIGHT", want: CornerBottomRight, wantOK: true},
		{in: "middle", wantOK: false},
		{in: "", wantOK: false},
		{in: "bottom_right", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := CornerFromLegacyPosition(tt.in)
		if ok != tt.wantOK {
			t.Fatalf("CornerFromLegacyPosition(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
		}
		if ok && got != tt.want {
			t.Fatalf("CornerFromLegacyPosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCornerLegacyPositionRoundTrip(t *testing.T) {
	for _, corner := range []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight} {
		got, ok := CornerFromLegacyPosition(corner.LegacyPosition())
		require.True(t, ok)
		assert.Equal(t, corner, got)
	}
}

func TestIsValidCorner(t *testing.T) {
	assert.True(t, IsValidCorner("TOP_LEFT"))
	assert.True(t, IsValidCorner("BOTTOM_RIGHT"))
	assert.False(t, IsValidCorner("bottom-right"))
	assert.False(t, IsValidCorner(""))
	assert.False(t, IsValidCorner("CENTER"))
}

func TestDefaultShopSettings(t *testing.T) {
	s := DefaultShopSettings("demo.myshopify.com")

	assert.Equal(t, "demo.myshopify.com", s.Shop)
	assert.Equal(t, CornerBottomRight, s.Corner)
	assert.Equal(t, DefaultPadding, s.PaddingX)
	assert.Equal(t, DefaultPadding, s.PaddingY)
	assert.True(t, s.IsEnabled)
	assert.Equal(t, DefaultButtonText, s.ButtonText)

	require.NoError(t, s.Validate())
}

func TestShopSettingsValidate(t *testing.T) {
	s := DefaultShopSettings("demo.myshopify.com")
	s.PaddingX = -1
	assert.Error(t, s.Validate())

	s = DefaultShopSettings("")
	assert.Error(t, s.Validate())
}
