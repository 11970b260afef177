package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Level = "debug"
	cfg.Output = &buf
	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := WithComponent("codec")
	log.Info().Str("uri", "/body.access/1/door").Msg("decoded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "codec" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["message"] != "decoded" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "chatty"
	if err := Init(cfg); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Level = "warn"
	cfg.Output = &buf
	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}

	log := WithComponent("client")
	log.Debug().Msg("suppressed")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("debug line should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn line should pass")
	}
}
