package main

import "testing"

func TestParseThemeMode(t *testing.T) {
	cases := []struct {
		in   string
		want ThemeMode
	}{
		{"dark", ThemeDark},
		{" DARK ", ThemeDark},
		{"light", ThemeLight},
		{"", ThemeAuto},
		{"bogus", ThemeAuto},
	}
	for _, tc := range cases {
		if got := parseThemeMode(tc.in); got != tc.want {
			t.Errorf("parseThemeMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseSurfaceMode(t *testing.T) {
	if got := parseSurfaceMode("solid"); got != SurfaceSolid {
		t.Errorf("solid parsed as %v", got)
	}
	if got := parseSurfaceMode("anything else"); got != SurfaceTransparent {
		t.Errorf("default parsed as %v", got)
	}
}

func TestThemeErrorSurfaceIsStable(t *testing.T) {
	// The error chrome color does not vary by palette or mode.
	for _, p := range []Palette{PaletteClassic, PaletteDraculaSoft} {
		th := newTheme(ThemeDark, SurfaceSolid, p)
		if th.ErrorSurface != newTheme(ThemeLight, SurfaceTransparent, p).ErrorSurface {
			t.Errorf("palette %v: error surface varies by mode", p)
		}
	}
}
