package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/On-Jun9/dngprobe/pkg/types"
)

type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	logJSON bool
	logText bool
}

// New opens logFilePath for appending. An empty path gives a logger that
// writes only to the console.
func New(logFilePath string, logJSON, logText bool) (*Logger, error) {
	if logFilePath == "" {
		return &Logger{console: os.Stderr}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{
		console: os.Stderr,
		file:    file,
		logJSON: logJSON,
		logText: logText,
	}, nil
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type LogEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Path      string          `json:"path,omitempty"`
	Step      types.LoadStep  `json:"step,omitempty"`
	Kind      types.ErrorKind `json:"kind,omitempty"`
	Code      int             `json:"code,omitempty"`
	Error     string          `json:"error,omitempty"`
	Duration  time.Duration   `json:"duration,omitempty"`
}

// LogEvent records one load step event.
func (l *Logger) LogEvent(event types.LoadEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "DEBUG",
		Message:   fmt.Sprintf("%s %s", event.Type, event.Step),
		Path:      event.Path,
		Step:      event.Step,
	}
	switch event.Type {
	case "error":
		entry.Level = "ERROR"
		entry.Error = event.Error
	case "done":
		entry.Level = "INFO"
		entry.Message = "loaded " + event.Message
	}

	l.writeEntry(entry)
}

// LogResult records the outcome of one load.
func (l *Logger) LogResult(path string, result types.LoadResult, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   fmt.Sprintf("inspected %s: %s %s", filepath.Base(path), result.Record.Make, result.Record.Model),
		Path:      path,
		Duration:  duration,
	}

	if result.Err != nil {
		entry.Level = "ERROR"
		entry.Message = fmt.Sprintf("inspect failed: %s", filepath.Base(path))
		entry.Kind = result.Err.Kind
		entry.Code = result.Err.Code
		entry.Error = result.Err.Error()
	}

	l.writeEntry(entry)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   msg,
	}
	l.writeEntry(entry)
}

func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "ERROR",
		Message:   msg,
		Error:     err.Error(),
	}
	l.writeEntry(entry)
}

func (l *Logger) writeEntry(entry LogEntry) {
	if l.logJSON && l.file != nil {
		data, _ := json.Marshal(entry)
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}

	if l.logText && l.file != nil {
		line := fmt.Sprintf("[%s] %s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message,
		)
		if entry.Error != "" {
			line = fmt.Sprintf("[%s] %s %s - Error: %s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.Level,
				entry.Message,
				entry.Error,
			)
		}
		l.file.WriteString(line)
	}
}

// Summary prints a short status box for one load to the console.
func (l *Logger) Summary(path string, result types.LoadResult, duration time.Duration) {
	fmt.Fprintln(l.console, "\n=== dngprobe Summary ===")
	fmt.Fprintf(l.console, "File:       %s\n", path)
	if result.Err != nil {
		fmt.Fprintf(l.console, "Status:     failed (%s)\n", result.Err.Kind)
		fmt.Fprintf(l.console, "Code:       %d (%s)\n", result.Err.Code, result.Err.CodeName)
	} else {
		fmt.Fprintln(l.console, "Status:     ok")
	}
	fmt.Fprintf(l.console, "Duration:   %s\n", duration.Round(time.Millisecond))
	fmt.Fprintln(l.console, "========================")
}

// Progress prints one step event to the console.
func (l *Logger) Progress(event types.LoadEvent) {
	if event.Type != "step" {
		return
	}
	fmt.Fprintf(l.console, "[%s] %s\n", event.Step, filepath.Base(event.Path))
}
