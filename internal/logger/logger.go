package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"messagebox-test/internal/config"
	"messagebox-test/internal/core"
)

// Logger writes timestamped lines to stdout and, optionally, a log file.
type Logger struct {
	mu         sync.Mutex
	out        io.Writer
	path       string
	verbose    bool
	observerMu sync.RWMutex
	observer   func(string)
}

// New creates a logger bound to the configured log file. An empty LogFile
// selects testmessage.log inside the install directory; "-" disables the file.
func New(cfg *config.Config) *Logger {
	l := &Logger{out: os.Stdout}
	if cfg == nil {
		return l
	}
	l.verbose = cfg.Verbose
	switch path := strings.TrimSpace(cfg.LogFile); path {
	case "-":
	case "":
		if err := config.EnsureDir(cfg.InstallDir); err == nil {
			l.path = filepath.Join(cfg.InstallDir, core.AppLogName)
		}
	default:
		path = config.ExpandPath(path)
		if err := config.EnsureDir(filepath.Dir(path)); err == nil {
			l.path = path
		}
	}
	return l
}

// Discard returns a logger that only feeds its observer.
func Discard() *Logger {
	return &Logger{out: io.Discard}
}

// SetOutput replaces the console writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetVerbose toggles Debugf output.
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// Path returns the log file path, or "" when file logging is off.
func (l *Logger) Path() string {
	return l.path
}

// Log writes a line to the console and the log file.
func (l *Logger) Log(message string) {
	if l == nil || strings.TrimSpace(message) == "" {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s", timestamp, message)
	l.notify(message)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out != nil {
		fmt.Fprintln(l.out, line)
	}
	if l.path == "" {
		return
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line + "\n")
}

// Logf formats according to a format specifier and logs the result.
func (l *Logger) Logf(format string, args ...interface{}) {
	l.Log(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message tagged as an error.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Log("ERROR: " + fmt.Sprintf(format, args...))
}

// Debugf logs only when verbose output is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	verbose := l.verbose
	l.mu.Unlock()
	if !verbose {
		return
	}
	l.Log("DEBUG: " + fmt.Sprintf(format, args...))
}

// SetObserver registers a callback that receives every message, without
// the timestamp, as it is written.
func (l *Logger) SetObserver(fn func(string)) {
	if l == nil {
		return
	}
	l.observerMu.Lock()
	defer l.observerMu.Unlock()
	l.observer = fn
}

func (l *Logger) notify(line string) {
	l.observerMu.RLock()
	observer := l.observer
	l.observerMu.RUnlock()
	if observer != nil {
		observer(line)
	}
}
