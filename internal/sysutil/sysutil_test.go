package sysutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetLogLevel_AllVariants(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel}, // case + trim
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel}, // empty -> info
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel}, // alias
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel}, // default
	}

	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupLogger_JSONAndPretty(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	SetupLogger(false, &buf)
	log.Info().Str("k", "v").Msg("hello")
	out := buf.String()
	if !strings.Contains(out, `"message":"hello"`) || !strings.Contains(out, `"service":"beanlog"`) {
		t.Fatalf("expected JSON line with service field, got %q", out)
	}

	buf.Reset()
	SetupLogger(true, &buf)
	log.Info().Msg("pretty")
	out = buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, "pretty") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestSessionSecret(t *testing.T) {
	got, generated, err := SessionSecret("configured-secret-configured-secret")
	if err != nil || generated || string(got) != "configured-secret-configured-secret" {
		t.Fatalf("configured secret: %q %v %v", got, generated, err)
	}

	a, generated, err := SessionSecret("")
	if err != nil || !generated || len(a) != 64 {
		t.Fatalf("generated secret: len=%d generated=%v err=%v", len(a), generated, err)
	}
	b, _, _ := SessionSecret("")
	if string(a) == string(b) {
		t.Fatalf("generated secrets must differ")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	// no args -> ""
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q; want \"\"", got)
	}
	// only empties -> ""
	if got := FirstNonEmpty(" ", "\t", "\n"); got != "" {
		t.Fatalf("FirstNonEmpty(empties) = %q; want \"\"", got)
	}
	// picks first non-empty (preserves original spacing)
	if got := FirstNonEmpty("   ", "  hello  ", "world"); got != "  hello  " {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "  hello  ")
	}
	// first already non-empty
	if got := FirstNonEmpty("alpha", "beta"); got != "alpha" {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "alpha")
	}
}
