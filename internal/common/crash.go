package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// crashDir receives crash reports; set by InstallCrashHandler
var crashDir = "./logs"

// InstallCrashHandler sets the crash report directory and creates it.
// Pair it with a deferred RecoverWithCrashFile at the top of main.
func InstallCrashHandler(logDir string) {
	if logDir != "" {
		crashDir = logDir
	}
	if err := os.MkdirAll(crashDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: failed to create log directory: %v\n", err)
	}
}

// WriteCrashFile writes the panic value, its stack and every goroutine's
// stack to crash-<time>.log and returns the file path, or "" when the report
// could only be written to stderr.
func WriteCrashFile(panicVal interface{}, stackTrace string) string {
	now := time.Now()
	crashPath := filepath.Join(crashDir, fmt.Sprintf("crash-%s.log", now.Format("2006-01-02T15-04-05")))

	var report bytes.Buffer
	fmt.Fprintf(&report, "=== SECRETARY CRASH REPORT ===\nTime: %s\nVersion: %s\n\n", now.Format(time.RFC3339), GetFullVersion())
	fmt.Fprintf(&report, "=== PANIC VALUE ===\n%v\n\n", panicVal)
	fmt.Fprintf(&report, "=== STACK TRACE ===\n%s\n", stackTrace)
	fmt.Fprintf(&report, "=== ALL GOROUTINES ===\n%s\n", allGoroutineStacks())
	fmt.Fprintf(&report, "=== SYSTEM INFO ===\nNumGoroutine: %d\nGOOS: %s\nGOARCH: %s\n", runtime.NumGoroutine(), runtime.GOOS, runtime.GOARCH)

	if err := os.WriteFile(crashPath, report.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: failed to write crash file: %v\n%s", err, report.String())
		return ""
	}

	fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH - report saved to: %s !!!\nPanic: %v\n", crashPath, panicVal)
	return crashPath
}

// allGoroutineStacks grows its buffer until every stack fits, up to 64MB
func allGoroutineStacks() string {
	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) || len(buf) >= 64*1024*1024 {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

// GetStackTrace returns the current goroutine's stack trace
func GetStackTrace() string {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// RecoverWithCrashFile writes a crash report and exits on panic.
// Usage: defer common.RecoverWithCrashFile()
func RecoverWithCrashFile() {
	if r := recover(); r != nil {
		WriteCrashFile(r, GetStackTrace())
		os.Exit(1)
	}
}
