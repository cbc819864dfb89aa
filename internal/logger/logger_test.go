package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"messagebox-test/internal/config"
)

func TestLogWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	l := New(&config.Config{InstallDir: dir})
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Logf("Pressed button: %d, %s", 0, "OK")

	if !strings.Contains(buf.String(), "] Pressed button: 0, OK") {
		t.Errorf("console = %q", buf.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "testmessage.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.HasSuffix(string(data), "Pressed button: 0, OK\n") {
		t.Errorf("file = %q", data)
	}
}

func TestLogFileDisabled(t *testing.T) {
	l := New(&config.Config{InstallDir: t.TempDir(), LogFile: "-"})
	if l.Path() != "" {
		t.Errorf("Path() = %q, want empty", l.Path())
	}
}

func TestLogFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "custom.log")
	l := New(&config.Config{InstallDir: t.TempDir(), LogFile: path})
	l.SetOutput(&bytes.Buffer{})
	l.Log("hello")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("custom log not written: %v", err)
	}
}

func TestLevelsAndObserver(t *testing.T) {
	l := Discard()
	var mu sync.Mutex
	var seen []string
	l.SetObserver(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, line)
	})

	l.Debugf("hidden %d", 1)
	l.Errorf("Error Presenting MessageBox: %s", "boom")
	l.SetVerbose(true)
	l.Debugf("shown %d", 2)
	l.Log("   ")

	want := []string{"ERROR: Error Presenting MessageBox: boom", "DEBUG: shown 2"}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %q, want %q", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Log("ignored")
	l.Debugf("ignored")
	l.SetObserver(nil)
}
