// Package logger configures slog and records crash logs for seiton.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the crash log directory under the base path.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is how many crash logs are kept.
	MaxCrashLogs = 10
)

// CrashContext is what a crash log reports besides the panic itself.
type CrashContext struct {
	mu         sync.RWMutex
	fs         afero.Fs
	command    string
	version    string
	mode       string
	lastAction string
	basePath   string
}

var globalContext = &CrashContext{fs: afero.NewOsFs()}

// SetBasePath sets the directory that holds crash_logs (normally ~/.seiton).
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// SetMode records the context being ranked.
func SetMode(mode string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.mode = mode
}

// SetLastAction records the last user action in the comparison screen.
// Task content is never recorded, only the action and ids.
func SetLastAction(action string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.lastAction = truncateForLog(strings.TrimSpace(action), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog is one recorded panic.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Mode       string    `json:"mode,omitempty"`
	LastAction string    `json:"last_action,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers a panic, writes a crash log and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	log := createCrashLog(r)
	path, err := writeCrashLog(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, log.StackTrace)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nseiton stopped unexpectedly.\n")
	fmt.Fprintf(os.Stderr, "A crash log has been saved to:\n  %s\n\n", path)
	fmt.Fprintf(os.Stderr, "Your ranking progress up to the last comparison is saved.\n")
	os.Exit(1)
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		Mode:       globalContext.mode,
		LastAction: globalContext.lastAction,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashLog saves log and returns its path.
func writeCrashLog(log CrashLog) (string, error) {
	fsys := crashFs()
	dir := getCrashLogDir()

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	if err := cleanOldCrashLogs(fsys, dir, MaxCrashLogs-1); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	path := getCrashLogPath(log.Timestamp)
	if err := afero.WriteFile(fsys, path, []byte(formatCrashLog(log)), 0644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

func crashFs() afero.Fs {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	return globalContext.fs
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		basePath = ".seiton"
	}
	return filepath.Join(basePath, CrashLogDir)
}

func getCrashLogPath(t time.Time) string {
	return filepath.Join(getCrashLogDir(), fmt.Sprintf("crash_%s.log", t.Format("20060102_150405")))
}

func formatCrashLog(log CrashLog) string {
	rule := strings.Repeat("-", 80)
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 80) + "\nSEITON CRASH LOG\n" + strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&sb, "Timestamp: %s\n", log.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", log.Version)
	fmt.Fprintf(&sb, "Command:   %s\n", log.Command)
	if log.Mode != "" {
		fmt.Fprintf(&sb, "Mode:      %s\n", log.Mode)
	}
	fmt.Fprintf(&sb, "Go:        %s\n", log.GoVersion)
	fmt.Fprintf(&sb, "OS/Arch:   %s/%s\n", log.OS, log.Arch)

	section := func(title, body string) {
		sb.WriteString("\n" + rule + "\n" + title + "\n" + rule + "\n")
		sb.WriteString(strings.TrimRight(body, "\n") + "\n")
	}
	section("PANIC VALUE", log.PanicValue)
	section("STACK TRACE", log.StackTrace)
	if log.LastAction != "" {
		section("LAST ACTION", log.LastAction)
	}

	sb.WriteString("\n" + strings.Repeat("=", 80) + "\nEND OF CRASH LOG\n")
	return sb.String()
}

// cleanOldCrashLogs removes the oldest crash logs until at most keep remain.
func cleanOldCrashLogs(fsys afero.Fs, dir string, keep int) error {
	names, err := crashLogNames(fsys, dir)
	if err != nil || len(names) <= keep {
		return err
	}
	for _, name := range names[:len(names)-keep] {
		if err := fsys.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}

// crashLogNames lists crash log file names, oldest first.
func crashLogNames(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListCrashLogs returns the paths of saved crash logs, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := getCrashLogDir()
	names, err := crashLogNames(crashFs(), dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// ReadCrashLog returns the content of one crash log.
func ReadCrashLog(path string) (string, error) {
	content, err := afero.ReadFile(crashFs(), path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
