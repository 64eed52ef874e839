package theme

import "testing"

func TestCatppuccinMocha_ColorPalette(t *testing.T) {
	th := NewCatppuccinMocha()

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Primary (Mauve)", th.Primary, "#cba6f7"},
		{"Secondary (Blue)", th.Secondary, "#89b4fa"},
		{"BgBase", th.BgBase, "#1e1e2e"},
		{"FgMuted (Subtext0)", th.FgMuted, "#a6adc8"},
		{"FgBase (Text)", th.FgBase, "#cdd6f4"},
		{"Success (Green)", th.Success, "#a6e3a1"},
		{"Warning (Yellow)", th.Warning, "#f9e2af"},
		{"Error (Red)", th.Error, "#f38ba8"},
		{"BorderDefault (Surface2)", th.BorderDefault, "#585b70"},
		{"BorderFocused (Mauve)", th.BorderFocused, "#cba6f7"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.expected)
		}
	}
}

func TestCurrent_DefaultsAndOverride(t *testing.T) {
	if got := Current().Name; got != "catppuccin-mocha" {
		t.Fatalf("Current().Name = %q, want catppuccin-mocha", got)
	}

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	SetCurrent(custom)
	defer SetCurrent(nil)

	if Current() != custom {
		t.Error("Current() did not return the theme passed to SetCurrent")
	}
	if Current().S() != custom.S() {
		t.Error("S() should build styles once per theme")
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		pos  float64
		want string
	}{
		{0, "#000000"},
		{1, "#ffffff"},
		{0.5, "#7f7f7f"},
	}
	for _, tt := range tests {
		if got := InterpolateColor("#000000", "#ffffff", tt.pos); got != tt.want {
			t.Errorf("InterpolateColor(%v) = %s, want %s", tt.pos, got, tt.want)
		}
	}

	r, g, b := ParseHexColor("cba6f7")
	if FormatHexColor(r, g, b) != "#cba6f7" {
		t.Errorf("ParseHexColor without # prefix = %d,%d,%d", r, g, b)
	}
}
