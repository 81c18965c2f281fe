// Package web embute os templates HTML do assistente.
package web

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"num": func(x float64) string {
		return strconv.FormatFloat(x, 'f', -1, 64)
	},
	"fixed2": func(x float64) string {
		return strconv.FormatFloat(x, 'f', 2, 64)
	},
	"money": func(x float64) string {
		return "₹" + strconv.FormatFloat(x, 'f', -1, 64)
	},
}

// Templates carrega os templates embutidos; os nomes são os arquivos (welcome.html, wizard.html)
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
