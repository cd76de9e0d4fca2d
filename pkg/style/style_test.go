package style

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"", Reset, true},
		{"default", Reset, true},
		{"Black", Black, true},
		{"grey", Gray, true},
		{"#BD93F9", Color("#bd93f9"), true},
		{"#fff", Color("#ffffff"), true},
		{"#F80", Color("#ff8800"), true},
		{"212", Color("212"), true},
		{" 7 ", White, true},
		{"256", Reset, false},
		{"-1", Reset, false},
		{"#12345", Reset, false},
		{"#zzzzzz", Reset, false},
		{"chartreuse", Reset, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPatch(t *testing.T) {
	base := Style{Fg: White, Bg: Blue, Mods: Bold}

	got := base.Patch(Style{Fg: Red})
	if got.Fg != Red || got.Bg != Blue {
		t.Errorf("expected fg red on blue, got %+v", got)
	}
	if !got.Mods.Has(Bold) {
		t.Error("expected bold to survive a patch without modifiers")
	}

	got = base.Patch(Style{Mods: Underline})
	if !got.Mods.Has(Bold | Underline) {
		t.Errorf("expected bold|underline, got %b", got.Mods)
	}

	if base.Patch(Style{}) != base {
		t.Error("patching with the zero style must be a no-op")
	}
}

func TestBuilders(t *testing.T) {
	s := New(Red).Background(Black).Add(Reverse)
	if s.Fg != Red || s.Bg != Black || !s.Mods.Has(Reverse) {
		t.Errorf("unexpected style %+v", s)
	}
	if (Style{}).IsZero() != true {
		t.Error("zero style should report IsZero")
	}
	if s.IsZero() {
		t.Error("non-zero style reported IsZero")
	}
}

func TestLipglossConversion(t *testing.T) {
	ls := Style{Fg: Color("#ff0000"), Mods: Bold | Italic}.Lipgloss(nil)
	if !ls.GetBold() {
		t.Error("expected bold")
	}
	if !ls.GetItalic() {
		t.Error("expected italic")
	}
	if ls.GetUnderline() {
		t.Error("did not expect underline")
	}
}
