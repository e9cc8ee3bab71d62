package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

// TestScanner_Scan는 테스트 코드 동작을 검증하거나 보조합니다.
func TestScanner_Scan(t *testing.T) {
	// 하위 디렉터리와 DNG 파일만 나열하고, 디렉터리가 먼저 이름순으로 와야 한다.
	tmpDir := t.TempDir()

	testFiles := []struct {
		name    string
		content string
	}{
		{"b.DNG", "fake dng"},
		{"a.dng", "fake dng"},
		{"photo.jpg", "should be ignored"},
		{".hidden.dng", "hidden"},
		{"roll/nested.dng", "nested, not listed"},
	}

	for _, tf := range testFiles {
		path := filepath.Join(tmpDir, tf.name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(tf.content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s := New(DefaultExtensions)
	entries, err := s.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []string{"roll", "a.dng", "b.DNG"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entry %d: expected %s, got %s", i, name, entries[i].Name)
		}
	}
	if !entries[0].IsDir {
		t.Error("expected roll to be a directory")
	}
	if entries[1].Size != int64(len("fake dng")) || entries[1].Extension != "dng" {
		t.Errorf("unexpected file entry: %+v", entries[1])
	}
}

// TestScanner_ScanMissingDir는 테스트 코드 동작을 검증하거나 보조합니다.
func TestScanner_ScanMissingDir(t *testing.T) {
	// 존재하지 않는 디렉터리는 not-exist 에러를 반환해야 한다.
	_, err := New([]string{".dng"}).Scan(filepath.Join(t.TempDir(), "missing"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
