package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ridi/hms/internal/config"
	"github.com/ridi/hms/internal/platform/blobstore"
	"github.com/ridi/hms/internal/platform/db"
	"github.com/ridi/hms/internal/platform/events"
	"github.com/ridi/hms/internal/platform/websocket"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		cmd      *cobra.Command
		children []string
	}{
		{migrateCmd(), []string{"up", "status"}},
		{exportCmd(), []string{"patient", "inventory", "payments"}},
	}
	for _, tt := range tests {
		for _, name := range tt.children {
			sub, _, err := tt.cmd.Find([]string{name})
			if err != nil || sub.Name() != name {
				t.Errorf("expected %s %s subcommand", tt.cmd.Name(), name)
			}
		}
	}
}

func TestExportPatient_RequiresUUID(t *testing.T) {
	cmd := exportCmd()
	cmd.SetArgs([]string{"patient", "--id", "42"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--id") {
		t.Errorf("expected --id parse error, got %v", err)
	}
}

func TestNewBlobStore(t *testing.T) {
	if _, ok := newBlobStore(&config.Config{StorageBackend: "memory"}, nil).(*blobstore.InMemoryStore); !ok {
		t.Error("expected in-memory store for STORAGE_BACKEND=memory")
	}
	if _, ok := newBlobStore(&config.Config{StorageBackend: "postgres"}, nil).(*blobstore.PGStore); !ok {
		t.Error("expected postgres store for STORAGE_BACKEND=postgres")
	}
}

func TestNewPublisher(t *testing.T) {
	hub := websocket.NewHub()
	fan, ok := newPublisher(&config.Config{}, hub).(events.Fanout)
	if !ok || len(fan) != 1 {
		t.Fatalf("expected live hub only without brokers, got %#v", fan)
	}

	fan, ok = newPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "hms.events"}, hub).(events.Fanout)
	if !ok || len(fan) != 2 {
		t.Fatalf("expected kafka and live hub, got %#v", fan)
	}
	if _, ok := fan[0].(*events.KafkaPublisher); !ok {
		t.Errorf("expected kafka publisher first, got %T", fan[0])
	}
	if err := fan[0].Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestPrintMigrationStatus(t *testing.T) {
	applied := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	printMigrationStatus(&buf, []db.MigrationStatus{
		{Version: 1, Name: "people", Applied: true, AppliedAt: &applied},
		{Version: 2, Name: "clinical", Applied: true, AppliedAt: &applied, Modified: true},
		{Version: 3, Name: "billing", Applied: false},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[2], "applied") || !strings.Contains(lines[2], "2024-03-01 09:30:00") {
		t.Errorf("unexpected applied row: %q", lines[2])
	}
	if !strings.Contains(lines[3], "modified") {
		t.Errorf("unexpected modified row: %q", lines[3])
	}
	if !strings.Contains(lines[4], "pending") {
		t.Errorf("unexpected pending row: %q", lines[4])
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.xlsx")

	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("workbook"))
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "workbook" {
		t.Errorf("expected file contents, got %q (%v)", got, err)
	}
}

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payments.xlsx")

	err := writeFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("query failed")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestNewEcho_PublicAndProtectedRoutes(t *testing.T) {
	cfg := &config.Config{Env: "development", StorageBackend: "memory"}
	store := blobstore.NewInMemoryStore()
	app := newServices(cfg, nil, store, events.NopPublisher{})
	e := newEcho(cfg, zerolog.Nop(), app, store, websocket.NewHub(), nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), version) {
		t.Errorf("expected version in health body, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/lab-reports/missing.pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing object, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid id, got %d", rec.Code)
	}

	routes := map[string]bool{}
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{"GET /api/v1/me/profile", "PUT /api/v1/me/profile", "GET /api/v1/live"} {
		if !routes[want] {
			t.Errorf("expected route %s to be registered", want)
		}
	}
}
