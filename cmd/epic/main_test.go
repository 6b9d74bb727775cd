// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/config"
)

func TestSetupAuditLogger_IgnoresDiagnosticsLevel(t *testing.T) {
	var stderr bytes.Buffer
	cfg := config.LogConfig{Level: "warn", Format: "text", AuditLevel: "info"}

	logger, closeAudit, err := setupAuditLogger(cfg, &stderr)
	if err != nil {
		t.Fatalf("setupAuditLogger: %v", err)
	}
	defer closeAudit()

	audit.NewSink(logger).ContractSigned(context.Background(), audit.ContractSigned{
		ContractID: 3,
		ClientName: "Kevin Casey",
		Amount:     1000,
		SignedBy:   "kate",
	})

	if !strings.Contains(stderr.String(), "contract_signature") {
		t.Errorf("audit output = %q", stderr.String())
	}
}

func TestSetupAuditLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	cfg := config.LogConfig{Level: "error", AuditLevel: "info", AuditFile: path}

	var stderr bytes.Buffer
	logger, closeAudit, err := setupAuditLogger(cfg, &stderr)
	if err != nil {
		t.Fatalf("setupAuditLogger: %v", err)
	}

	audit.NewSink(logger).UserCreated(context.Background(), audit.UserCreated{
		UserID:     9,
		Username:   "kate",
		Department: "Support",
		CreatedBy:  "manager",
	})
	closeAudit()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"user_creation"`) {
		t.Errorf("audit file = %q", data)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.name, slog.LevelWarn); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExtractConfigFlag(t *testing.T) {
	t.Setenv("EPIC_CONFIG", "")

	path, rest := extractConfigFlag([]string{"--config", "/etc/epic.yaml", "client", "list"})
	if path != "/etc/epic.yaml" || len(rest) != 2 || rest[0] != "client" {
		t.Errorf("got (%q, %v)", path, rest)
	}

	path, rest = extractConfigFlag([]string{"client", "list"})
	if path != defaultConfigPath || len(rest) != 2 {
		t.Errorf("got (%q, %v)", path, rest)
	}
}
