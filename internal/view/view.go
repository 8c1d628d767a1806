// Package view holds the server-rendered pages.
package view

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/bankpoc/banking-ui/shared/utils"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page with the shared helper funcs.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html"))
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":     utils.FormatMoney,
		"timestamp": FormatTimestamp,
		"upper":     strings.ToUpper,
		"percent":   utils.FormatPercent,
		"signed": func(txType string, amount float64) string {
			if txType == models.TransactionTopUp {
				return "+" + utils.FormatMoney(amount)
			}
			return "-" + utils.FormatMoney(amount)
		},
	}
}

// Core banking sends local date-times without a zone; some deployments add one.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders a backend timestamp for display, or returns it
// unchanged when it matches no known layout.
func FormatTimestamp(raw string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006 15:04:05")
		}
	}
	return raw
}
