package view

import (
	"testing"

	"github.com/bankpoc/banking-ui/shared/models"
)

func TestTemplatesParse(t *testing.T) {
	tmpl := Templates()
	for _, name := range []string{"login.html", "customer.html", "admin.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("missing template %s", name)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-15T10:30:00", "Jan 15, 2024 10:30:00"},
		{"2024-01-15T10:30:00.123456", "Jan 15, 2024 10:30:00"},
		{"2024-01-15T10:30:00Z", "Jan 15, 2024 10:30:00"},
		{"2024-01-15 10:30:00", "Jan 15, 2024 10:30:00"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.raw); got != tt.want {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	signed := Funcs()["signed"].(func(string, float64) string)
	if got := signed(models.TransactionTopUp, 25); got != "+$25.00" {
		t.Errorf("got %q", got)
	}
	if got := signed(models.TransactionWithdraw, 50); got != "-$50.00" {
		t.Errorf("got %q", got)
	}
}
