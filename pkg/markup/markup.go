package markup

import (
	"bytes"
	"strconv"
	"strings"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
)

// ContentSelector is the CSS selector of the element wrapping the text.
// The rasterizer measures it in auto mode.
const ContentSelector = "#text-content"

// StylesheetBase is the Google Fonts css2 endpoint.
const StylesheetBase = "https://fonts.googleapis.com/css2"

// Document is a rendered HTML page ready to be painted.
type Document struct {
	HTML     string
	Mode     Mode
	Selector string
	Family   string // web font the document requests
}

// StylesheetURL returns the css2 URL for family covering weights 100 to 900
// in both upright and italic.
func StylesheetURL(family string) string {
	return StylesheetBase + "?family=" + strings.ReplaceAll(family, " ", "+") +
		":ital,wght@0,100..900;1,100..900&display=swap"
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", "<br>",
	"\n", "<br>",
)

// EscapeText escapes HTML metacharacters in s and turns newlines into <br>.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// Render builds the HTML document for text in style using the given mode.
func Render(style Style, text string, mode Mode) (Document, error) {
	if err := errs.ValidateFamilyName(style.Family); err != nil {
		return Document{}, err
	}
	if style.Weight == "" {
		style.Weight = fonts.Weight400
	}
	if style.FontStyle == "" {
		style.FontStyle = fonts.StyleNormal
	}
	if style.Align == "" {
		style.Align = AlignCenter
	}
	if style.Transform == "" {
		style.Transform = TransformNone
	}
	if style.Color == "" {
		style.Color = "#000000"
	}
	if style.Background == "" {
		style.Background = "#FFFFFF"
	}
	if err := errs.ValidateColor("text color", style.Color); err != nil {
		return Document{}, err
	}
	if err := errs.ValidateColor("background color", style.Background); err != nil {
		return Document{}, err
	}

	tmpl, ok := templates[mode]
	if !ok {
		return Document{}, errs.New(errs.ErrCodeInvalidGeometry, "unknown geometry mode %q", mode)
	}

	data := pageData{
		Style:      style,
		Stylesheet: StylesheetURL(style.Family),
		Weight:     string(style.Weight),
		Justify:    style.Align.Justify(),
		LineHeight: strconv.FormatFloat(style.LineHeight, 'f', -1, 64),
		Text:       EscapeText(text),
	}
	if style.LineHeight <= 0 {
		data.LineHeight = "normal"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Document{}, errs.Wrap(errs.ErrCodeInternal, err, "render markup")
	}
	return Document{HTML: buf.String(), Mode: mode, Selector: ContentSelector, Family: style.Family}, nil
}

type pageData struct {
	Style
	Stylesheet string
	Weight     string
	Justify    string
	LineHeight string
	Text       string
}
