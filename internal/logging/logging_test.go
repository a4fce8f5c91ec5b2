package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
)

func TestSetup(t *testing.T) {
	std := logrus.StandardLogger()
	origLevel, origFormatter, origOut := std.GetLevel(), std.Formatter, std.Out
	t.Cleanup(func() {
		std.SetLevel(origLevel)
		std.SetFormatter(origFormatter)
		std.SetOutput(origOut)
	})

	var buf bytes.Buffer
	if err := Setup(config.LogConfig{Level: "debug", Format: "json"}, &buf); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if std.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", std.GetLevel())
	}

	Zone("extract").WithField("track_id", "abc").Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["zone"] != "extract" {
		t.Errorf("zone = %v, want extract", entry["zone"])
	}
	if entry["track_id"] != "abc" {
		t.Errorf("track_id = %v, want abc", entry["track_id"])
	}
}

func TestSetup_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"bad level", config.LogConfig{Level: "loud", Format: "text"}},
		{"bad format", config.LogConfig{Level: "info", Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Setup(tt.cfg, nil); err == nil {
				t.Error("Setup() error = nil, want error")
			}
		})
	}
}
