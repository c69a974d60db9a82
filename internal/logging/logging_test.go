package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"":       zapcore.InfoLevel,
		"bogus":  zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewAndOrNop(t *testing.T) {
	l, err := New("debug")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level should be enabled")
	}
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
	if OrNop(l) != l {
		t.Fatalf("OrNop should keep a non-nil logger")
	}
}
