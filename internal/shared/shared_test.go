package shared

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func mustMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLogger(t *testing.T) {
	t.Run("writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "test").Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("unexpected log output %q", out)
		}
	})

	t.Run("ParseLevel", func(t *testing.T) {
		tc := []struct {
			in   string
			want log.Level
		}{
			{"debug", log.DebugLevel},
			{" WARN ", log.WarnLevel},
			{"error", log.ErrorLevel},
			{"nonsense", log.InfoLevel},
			{"", log.InfoLevel},
		}
		for _, tt := range tc {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "hymn.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("to file")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("expected log line in file, got %q", string(data))
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected pretty output %q", string(data))
	}

	if _, err := MarshalJSON(make(chan int), false); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestVerifyAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if data, err := VerifyAndReadFile(path); err != nil || string(data) != "{}" {
		t.Errorf("VerifyAndReadFile() = %q, %v", string(data), err)
	}
	if _, err := VerifyAndReadFile(""); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
	if _, err := VerifyAndReadFile(dir); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for directory, got %v", err)
	}
}

func TestOpenBrowserRejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "::"} {
		if err := OpenBrowser(u); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("OpenBrowser(%q) = %v, want ErrInvalidInput", u, err)
		}
	}
}

func TestOpenDatabase(t *testing.T) {
	db, err := OpenDatabase(DatabaseConfig{Path: filepath.Join(t.TempDir(), "hymn.db"), MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("SELECT 1 FROM catalog_cache LIMIT 1"); err != nil {
		t.Errorf("expected migrated schema: %v", err)
	}
}
