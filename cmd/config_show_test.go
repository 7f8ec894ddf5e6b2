package cmd

import (
	"bytes"
	"strings"
	"testing"

	"gopunch/config"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "password hidden", dsn: "punch:secret@tcp(db:3306)/attendance", want: "punch:***@tcp(db:3306)/attendance"},
		{name: "no password", dsn: "punch@tcp(db:3306)/attendance", want: "punch@tcp(db:3306)/attendance"},
		{name: "no credentials", dsn: "tcp(db:3306)/attendance", want: "tcp(db:3306)/attendance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactDSN(tt.dsn); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPrintConfig(t *testing.T) {
	cfg, err := config.ValidateYAMLContent([]byte(`database:
  driver: "mysql"
  dsn: "punch:secret@tcp(db:3306)/attendance"
rules:
  - name: "gate"
    mapper: "punchlog"
    file_template: "gate_*.csv"
    schedule: "plant-night"
`))
	if err != nil {
		t.Fatalf("validate config: %v", err)
	}

	var out bytes.Buffer
	printConfig(&out, cfg)
	text := out.String()

	for _, want := range []string{
		"database.driver: mysql",
		"database.dsn: punch:***@tcp(db:3306)/attendance",
		"arrange.spillover_cutoff: 12:00:00",
		"rules[0].schedule: plant-night",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "secret") {
		t.Fatalf("expected password to be redacted, got:\n%s", text)
	}
}
