package vmat_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/textex/vmat"
)

func TestParseShader(t *testing.T) {
	cases := map[string]vmat.Shader{
		"csgo_static_overlay":     vmat.ShaderStaticOverlay,
		"csgo_static_overlay.vfx": vmat.ShaderStaticOverlay,
		"CSGO_Complex.VFX":        vmat.ShaderComplex,
		" csgo_complex ":          vmat.ShaderComplex,
	}
	for in, want := range cases {
		got, err := vmat.ParseShader(in)
		if err != nil {
			t.Fatalf("ParseShader(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseShader(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseShaderRejectsUnknown(t *testing.T) {
	if _, err := vmat.ParseShader("foo_shader"); !errors.Is(err, vmat.ErrUnsupportedShader) {
		t.Fatalf("expected ErrUnsupportedShader, got %v", err)
	}
}

func TestEmitSubstitutesPaths(t *testing.T) {
	out, err := vmat.Emit(vmat.Params{
		Shader:   vmat.ShaderStaticOverlay,
		ColorMap: "materials/overlays/counter_0_color.png",
		TransMap: "materials/overlays/counter_0_trans.png",
	})
	if err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	for _, want := range []string{
		`shader "csgo_static_overlay.vfx"`,
		`TextureColor "materials/overlays/counter_0_color.png"`,
		`TextureTranslucency "materials/overlays/counter_0_trans.png"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("material missing %q:\n%s", want, out)
		}
	}
}

func TestEmitComplexShader(t *testing.T) {
	out, err := vmat.Emit(vmat.Params{
		Shader:   vmat.ShaderComplex,
		ColorMap: "materials/a_color.png",
		TransMap: "materials/a_trans.png",
	})
	if err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if !strings.Contains(out, `shader "csgo_complex.vfx"`) {
		t.Fatalf("complex material has wrong shader line:\n%s", out)
	}
}

func TestEmitRejectsUnknownShader(t *testing.T) {
	out, err := vmat.Emit(vmat.Params{Shader: "foo_shader"})
	if !errors.Is(err, vmat.ErrUnsupportedShader) {
		t.Fatalf("expected ErrUnsupportedShader, got %v", err)
	}
	if out != "" {
		t.Fatalf("no material text on error, got %q", out)
	}
}

func TestTexturePath(t *testing.T) {
	cases := map[string]string{
		"/proj/content/materials/overlays/sign_color.png": "materials/overlays/sign_color.png",
		"/tmp/output/sign_color.png":                      "materials/output/sign_color.png",
	}
	for in, want := range cases {
		if got := vmat.TexturePath(in); got != want {
			t.Fatalf("TexturePath(%q) = %q, want %q", in, got, want)
		}
	}
}
