package markup

import "text/template"

const headTmpl = `{{define "head"}}<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<link href="{{.Stylesheet}}" rel="stylesheet">
{{end}}`

const textRules = `font-family: '{{.Family}}', sans-serif;
	font-size: {{.Size}}px;
	font-weight: {{.Weight}};
	font-style: {{.FontStyle}};
	color: {{.Color}};
	line-height: {{.LineHeight}};
	text-transform: {{.Transform}};`

const centeredTmpl = `{{template "head" .}}<style>
body {
	margin: 0; padding: 20px;
	` + textRules + `
	background-color: {{.Background}};
	box-sizing: border-box;
	display: flex;
	justify-content: {{.Justify}};
	align-items: center;
	width: {{.Width}}px;
	height: {{.Height}}px;
}
#text-content {
	text-align: {{.Align}};
	word-wrap: break-word;
	word-break: break-word;
	max-width: 100%;
}
</style>
</head>
<body><div id="text-content">{{.Text}}</div></body>
</html>
`

const wrapTmpl = `{{template "head" .}}<style>
html, body { margin: 0; padding: 0; background-color: {{.Background}}; }
body {
	` + textRules + `
	box-sizing: border-box;
	display: flex;
	justify-content: {{.Justify}};
	width: {{.Width}}px;
	{{if .Height}}height: {{.Height}}px;{{end}}
	padding: {{.Padding.Top}}px {{.Padding.Right}}px {{.Padding.Bottom}}px {{.Padding.Left}}px;
}
#text-content {
	text-align: {{.Align}};
	width: {{innerWidth .}}px;
	height: {{if .Height}}{{innerHeight .}}px{{else}}auto{{end}};
	overflow: hidden;
	word-wrap: break-word;
	word-break: break-word;
	white-space: pre-wrap;
}
</style>
</head>
<body><div id="text-content">{{.Text}}</div></body>
</html>
`

const autoTmpl = `{{template "head" .}}<style>
html, body { margin: 0; padding: 0; background-color: {{.Background}}; }
body {
	` + textRules + `
	padding: {{.Padding.Top}}px {{.Padding.Right}}px {{.Padding.Bottom}}px {{.Padding.Left}}px;
}
#text-content {
	display: inline-block;
	text-align: {{.Align}};
	white-space: pre;
}
</style>
</head>
<body><div id="text-content">{{.Text}}</div></body>
</html>
`

var funcs = template.FuncMap{
	"innerWidth": func(d pageData) int {
		return max(d.Width-d.Padding.Horizontal(), 0)
	},
	"innerHeight": func(d pageData) int {
		return max(d.Height-d.Padding.Vertical(), 0)
	},
}

func mustTemplate(name, body string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).Parse(headTmpl))
	return template.Must(t.Parse(body))
}

var templates = map[Mode]*template.Template{
	ModeCentered: mustTemplate("centered", centeredTmpl),
	ModeWrap:     mustTemplate("wrap", wrapTmpl),
	ModeAuto:     mustTemplate("auto", autoTmpl),
}
