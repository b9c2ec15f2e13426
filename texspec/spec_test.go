package texspec_test

import (
	"testing"

	"github.com/ByLCY/textex/texspec"
)

func TestParseColorForms(t *testing.T) {
	cases := []struct {
		in   string
		want texspec.RGBA
	}{
		{"#FFF", texspec.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{"#3b82f6", texspec.RGBA{0x3B, 0x82, 0xF6, 0xFF}},
		{"#10b98180", texspec.RGBA{0x10, 0xB9, 0x81, 0x80}},
		{"  #000  ", texspec.RGBA{0, 0, 0, 0xFF}},
	}
	for _, c := range cases {
		got, err := texspec.ParseColor(c.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	if _, err := texspec.ParseColor("#12345"); err == nil {
		t.Fatalf("expected error for 5-digit color")
	}
	if _, err := texspec.ParseColor("blue"); err == nil {
		t.Fatalf("expected error for named color")
	}
	if _, err := texspec.ParseColor("red"); err == nil {
		t.Fatalf("expected error for 3-letter named color")
	}
	if _, err := texspec.ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("expected error for non-hex digits")
	}
}

func TestParseAlignment(t *testing.T) {
	for in, want := range map[string]texspec.Alignment{
		"":       texspec.AlignLeft,
		"Left":   texspec.AlignLeft,
		"center": texspec.AlignCenter,
		"middle": texspec.AlignCenter,
		"RIGHT":  texspec.AlignRight,
	} {
		got, err := texspec.ParseAlignment(in)
		if err != nil {
			t.Fatalf("ParseAlignment(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseAlignment(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := texspec.ParseAlignment("justify"); err == nil {
		t.Fatalf("expected error for unsupported alignment")
	}
}

func TestParseVAlignment(t *testing.T) {
	for in, want := range map[string]texspec.VAlignment{
		"":       texspec.VAlignMiddle,
		"middle": texspec.VAlignMiddle,
		"Center": texspec.VAlignMiddle,
		"centre": texspec.VAlignMiddle,
		"TOP":    texspec.VAlignTop,
		"bottom": texspec.VAlignBottom,
	} {
		got, err := texspec.ParseVAlignment(in)
		if err != nil {
			t.Fatalf("ParseVAlignment(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseVAlignment(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := texspec.ParseVAlignment("baseline"); err == nil {
		t.Fatalf("expected error for unsupported vertical alignment")
	}
}

func TestHex(t *testing.T) {
	if got := texspec.White.Hex(); got != "#FFFFFF" {
		t.Fatalf("White.Hex() = %q", got)
	}
	c := texspec.RGBA{0x10, 0xB9, 0x81, 0x80}
	if got := c.Hex(); got != "#10B98180" {
		t.Fatalf("Hex() = %q, want #10B98180", got)
	}
}

func TestValidate(t *testing.T) {
	spec := texspec.Default()
	if err := spec.Validate(); err != nil {
		t.Fatalf("default spec should validate: %v", err)
	}

	bad := spec
	bad.FontSize = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero font size must be rejected")
	}

	bad = spec
	bad.OutlineWidth = -1
	if err := bad.Validate(); err == nil {
		t.Fatalf("negative outline width must be rejected")
	}

	bad = spec
	bad.Padding = -5
	if err := bad.Validate(); err == nil {
		t.Fatalf("negative padding must be rejected")
	}
}

// WithText 只替换文本，其余字段保持一致。
func TestWithText(t *testing.T) {
	base := texspec.Default()
	derived := base.WithText("7")
	if derived.Text != "7" {
		t.Fatalf("derived text = %q, want 7", derived.Text)
	}
	derived.Text = base.Text
	if derived != base {
		t.Fatalf("WithText must not change other fields: %+v vs %+v", derived, base)
	}
}
