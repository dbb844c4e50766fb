package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"trace": LevelTrace,
		"":      LevelInfo,
		"bogus": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerFiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Debugf("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged at LevelInfo for Debugf, got %q", buf.String())
	}

	l.Infof("hello %d", 1)
	if !strings.Contains(buf.String(), "hello 1") {
		t.Errorf("expected Infof output, got %q", buf.String())
	}
}

func TestLoggerAtTraceLevelPrintsEverything(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelTrace)

	l.Errorf("e")
	l.Infof("i")
	l.Debugf("d")
	l.Tracef("t")

	out := buf.String()
	for _, want := range []string{"ERROR", "INFO", "DEBUG", "TRACE"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q prefix in output, got %q", want, out)
		}
	}
}
