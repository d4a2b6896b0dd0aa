package markup

import (
	"strings"
	"testing"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
)

func testStyle() Style {
	return Style{
		Family:     "Open Sans",
		Weight:     fonts.Weight700,
		FontStyle:  fonts.StyleItalic,
		Size:       120,
		Align:      AlignLeft,
		LineHeight: 1.2,
		Transform:  TransformUppercase,
		Color:      "#000000",
		Background: "transparent",
		Width:      1024,
		Height:     512,
		Padding:    Padding{Top: 10, Right: 20, Bottom: 30, Left: 40},
	}
}

func TestStylesheetURL(t *testing.T) {
	got := StylesheetURL("Open Sans")
	want := "https://fonts.googleapis.com/css2?family=Open+Sans:ital,wght@0,100..900;1,100..900&display=swap"
	if got != want {
		t.Errorf("StylesheetURL() = %q, want %q", got, want)
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<script>", "&lt;script&gt;"},
		{"line1\nline2", "line1<br>line2"},
		{"crlf\r\nend", "crlf<br>end"},
		{"&lt;", "&amp;lt;"},
	}
	for _, tt := range tests {
		if got := EscapeText(tt.in); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderModes(t *testing.T) {
	tests := []struct {
		mode     Mode
		contains []string
		excludes []string
	}{
		{
			mode: ModeCentered,
			contains: []string{
				"width: 1024px;", "height: 512px;",
				"justify-content: flex-start;", "align-items: center;",
				"padding: 20px;",
			},
			excludes: []string{"inline-block", "overflow: hidden"},
		},
		{
			mode: ModeWrap,
			contains: []string{
				"width: 1024px;", "height: 512px;",
				"padding: 10px 20px 30px 40px;",
				"width: 964px;", "height: 472px;",
				"overflow: hidden;",
				"justify-content: flex-start;",
			},
			excludes: []string{"inline-block"},
		},
		{
			mode: ModeAuto,
			contains: []string{
				"display: inline-block;", "white-space: pre;",
				"padding: 10px 20px 30px 40px;",
			},
			excludes: []string{"width: 1024px", "height: 512px"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			doc, err := Render(testStyle(), "Hi <there>\nfriend", tt.mode)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if doc.Mode != tt.mode {
				t.Errorf("Mode = %q, want %q", doc.Mode, tt.mode)
			}
			if doc.Selector != ContentSelector {
				t.Errorf("Selector = %q, want %q", doc.Selector, ContentSelector)
			}

			common := []string{
				StylesheetURL("Open Sans"),
				"font-family: 'Open Sans', sans-serif;",
				"font-size: 120px;",
				"font-weight: 700;",
				"font-style: italic;",
				"line-height: 1.2;",
				"text-transform: uppercase;",
				"background-color: transparent;",
				`<div id="text-content">Hi &lt;there&gt;<br>friend</div>`,
			}
			for _, s := range append(common, tt.contains...) {
				if !strings.Contains(doc.HTML, s) {
					t.Errorf("HTML missing %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(doc.HTML, s) {
					t.Errorf("HTML unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestRenderWrapAutoHeight(t *testing.T) {
	style := testStyle()
	style.Height = 0

	doc, err := Render(style, "text", ModeWrap)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(doc.HTML, "height: auto;") {
		t.Error("wrap mode with zero height should use auto container height")
	}
	if strings.Contains(doc.HTML, "height: 0px") {
		t.Error("wrap mode with zero height must not fix the body height")
	}
}

func TestRenderDefaults(t *testing.T) {
	doc, err := Render(Style{Family: "Roboto", Size: 40, Width: 200, Height: 100}, "x", ModeCentered)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, s := range []string{
		"font-weight: 400;", "font-style: normal;", "justify-content: center;",
		"text-transform: none;", "color: #000000;", "background-color: #FFFFFF;",
		"line-height: normal;",
	} {
		if !strings.Contains(doc.HTML, s) {
			t.Errorf("HTML missing default %q", s)
		}
	}
	if doc.Family != "Roboto" {
		t.Errorf("Family = %q, want Roboto", doc.Family)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Style)
		mode   Mode
		code   errs.Code
	}{
		{"quote in family", func(s *Style) { s.Family = "Evil'; }" }, ModeCentered, errs.ErrCodeInvalidFamily},
		{"empty family", func(s *Style) { s.Family = "" }, ModeCentered, errs.ErrCodeInvalidFamily},
		{"bad color", func(s *Style) { s.Color = "red; background: url(x)" }, ModeCentered, errs.ErrCodeInvalidColor},
		{"bad mode", func(s *Style) {}, Mode("spiral"), errs.ErrCodeInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := testStyle()
			tt.modify(&style)
			_, err := Render(style, "x", tt.mode)
			if !errs.Is(err, tt.code) {
				t.Errorf("Render() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if a, err := ParseAlign("Right"); err != nil || a != AlignRight || a.Justify() != "flex-end" {
		t.Errorf("ParseAlign(Right) = %q, %v", a, err)
	}
	if a, _ := ParseAlign(""); a != AlignCenter {
		t.Errorf("ParseAlign(\"\") = %q, want center", a)
	}
	if _, err := ParseAlign("justify"); !errs.Is(err, errs.ErrCodeInvalidAlign) {
		t.Errorf("ParseAlign(justify) error = %v", err)
	}
	if tr, err := ParseTransform("capitalize"); err != nil || tr != TransformCapitalize {
		t.Errorf("ParseTransform(capitalize) = %q, %v", tr, err)
	}
	if _, err := ParseTransform("small-caps"); !errs.Is(err, errs.ErrCodeInvalidTransform) {
		t.Errorf("ParseTransform(small-caps) error = %v", err)
	}
	if m, err := ParseMode("AUTO"); err != nil || m != ModeAuto {
		t.Errorf("ParseMode(AUTO) = %q, %v", m, err)
	}
	if _, err := ParseMode("spiral"); !errs.Is(err, errs.ErrCodeInvalidGeometry) {
		t.Errorf("ParseMode(spiral) error = %v", err)
	}
}
