package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/On-Jun9/dngprobe/pkg/types"
)

// TestLogger_WritesTextEntriesToFile는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLogger_WritesTextEntriesToFile(t *testing.T) {
	// 텍스트 로깅 모드에서 Info/Error/LogEvent/LogResult가 파일에 기록되어야 한다.
	logPath := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := New(logPath, false, true)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Info("hello")
	logger.Error("failed op", errors.New("boom"))
	logger.LogEvent(types.LoadEvent{Type: "step", Step: types.LoadStepParse, Path: "/raw/a.dng"})
	logger.LogResult("/raw/a.dng", types.LoadResult{
		Record: types.MetadataRecord{Make: "Ricoh", Model: "GR III"},
	}, 10*time.Millisecond)
	logger.LogResult("/raw/b.dng", types.LoadResult{
		Err: &types.LoadError{Kind: types.ErrorKindBadFormat, Code: 100006, Message: "missing DNGVersion"},
	}, time.Millisecond)

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"INFO hello",
		"ERROR failed op - Error: boom",
		"DEBUG step parse",
		"INFO inspected a.dng: Ricoh GR III",
		"ERROR inspect failed: b.dng - Error: failed to read DNG file: error code 100006 (bad-format): missing DNGVersion",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing log line %q in: %s", want, text)
		}
	}
}

// TestLogger_JSONModeWritesJSONLine는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLogger_JSONModeWritesJSONLine(t *testing.T) {
	// JSON 로깅 모드에서는 한 줄 JSON 레코드가 출력되어야 한다.
	logPath := filepath.Join(t.TempDir(), "logs", "app.jsonl")
	logger, err := New(logPath, true, false)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Info("json-message")
	logger.LogEvent(types.LoadEvent{Type: "error", Step: types.LoadStepDigest, Path: "/raw/c.dng", Error: "digest mismatch"})
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read json log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"json-message"`) {
		t.Fatalf("unexpected json log content: %s", out)
	}
	if !strings.Contains(out, `"step":"digest"`) || !strings.Contains(out, `"error":"digest mismatch"`) {
		t.Fatalf("missing event fields: %s", out)
	}
	if lines := strings.Count(out, "\n"); lines != 2 {
		t.Fatalf("expected 2 json lines, got %d", lines)
	}
}

// TestLogger_SummaryAndProgress_WriteToConsole는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLogger_SummaryAndProgress_WriteToConsole(t *testing.T) {
	// Summary/Progress 출력은 console writer로 전달되어야 한다.
	var buf bytes.Buffer
	logger := &Logger{console: &buf}

	logger.Progress(types.LoadEvent{Type: "step", Step: types.LoadStepStage1, Path: "/raw/a.dng"})
	logger.Progress(types.LoadEvent{Type: "done", Path: "/raw/a.dng"})
	logger.Summary("/raw/a.dng", types.LoadResult{
		Err: &types.LoadError{Kind: types.ErrorKindIO, Code: 100008, CodeName: "open_file"},
	}, 1500*time.Microsecond)

	out := buf.String()
	if !strings.Contains(out, "[stage1] a.dng") {
		t.Fatalf("missing progress output: %s", out)
	}
	if strings.Count(out, "a.dng\n") != 2 {
		t.Fatalf("only step events should print progress: %s", out)
	}
	if !strings.Contains(out, "dngprobe Summary") || !strings.Contains(out, "failed (io)") || !strings.Contains(out, "100008 (open_file)") {
		t.Fatalf("missing summary content: %s", out)
	}
}

// TestLogger_EmptyPathWritesNoFile는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLogger_EmptyPathWritesNoFile(t *testing.T) {
	// 경로가 비어 있으면 파일 없이 동작하고 기록 호출도 안전해야 한다.
	logger, err := New("", true, true)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	logger.Info("ignored")
	logger.LogResult("x.dng", types.LoadResult{}, 0)
	if err := logger.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

// TestLogger_CloseWithNilFile는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLogger_CloseWithNilFile(t *testing.T) {
	// 파일 핸들이 없는 로거는 Close 시 에러 없이 종료되어야 한다.
	logger := &Logger{}
	if err := logger.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
