package notifier

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"api/internal/models"
)

func newTestFilesystemNotifier(t *testing.T) (*FilesystemNotifier, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "notifications")
	config := models.FilesystemNotifierConfiguration{
		Directory: dir,
	}
	n := NewFilesystemNotifier(config)
	return n, dir
}

func TestFilesystemNotifyFromTemplate_WritesFile(t *testing.T) {
	n, dir := newTestFilesystemNotifier(t)

	data := map[string]any{
		"WebURL":    "http://localhost:3000",
		"Remaining": 2,
	}

	err := n.NotifyFromTemplate("rep@dealdesk.example", "Backup codes running low - dealdesk", "mfa_backup_codes_low", data)
	if err != nil {
		t.Fatalf("NotifyFromTemplate failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var result map[string]any
	if err = json.Unmarshal(content, &result); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	if result["to"] != "rep@dealdesk.example" {
		t.Errorf("expected to=rep@dealdesk.example, got %v", result["to"])
	}
	if result["template_name"] != "mfa_backup_codes_low" {
		t.Errorf("expected template_name=mfa_backup_codes_low, got %v", result["template_name"])
	}
	if result["args"] == nil {
		t.Error("expected non-nil args")
	}
	if result["timestamp"] == nil || result["timestamp"] == "" {
		t.Error("expected non-empty timestamp")
	}
}

func TestFilesystemNotifyFromTemplate_MultipleNotifications(t *testing.T) {
	n, dir := newTestFilesystemNotifier(t)

	data := map[string]any{"WebURL": "http://localhost:3000"}

	for _, template := range []string{"mfa_enabled", "mfa_disabled", "password_changed"} {
		if err := n.NotifyFromTemplate("rep@dealdesk.example", "Security update", template, data); err != nil {
			t.Fatalf("NotifyFromTemplate failed for %s: %v", template, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read directory: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}
}
