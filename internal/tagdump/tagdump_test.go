package tagdump

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/On-Jun9/dngprobe/internal/dng/dngtest"
)

// TestDump_ListsSortedTags는 테스트 코드 동작을 검증하거나 보조합니다.
func TestDump_ListsSortedTags(t *testing.T) {
	// IFD0과 Exif IFD의 태그가 IFD 경로와 ID 순서로 나열되어야 한다.
	b := dngtest.New()
	b.Artist = "Choi"
	path := b.WriteFile(t, "tags.dng")

	tags, err := Dump(path)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if len(tags) == 0 {
		t.Fatal("expected tags")
	}

	for i := 1; i < len(tags); i++ {
		a, b := tags[i-1], tags[i]
		if a.IFD > b.IFD || (a.IFD == b.IFD && a.ID > b.ID) {
			t.Fatalf("tags not sorted at %d: %+v then %+v", i, a, b)
		}
	}

	found := map[string]string{}
	for _, tag := range tags {
		found[tag.Name] = tag.Value
	}
	if found["Make"] != "Leica Camera AG" || found["Artist"] != "Choi" {
		t.Fatalf("missing IFD0 strings: %v", found)
	}
	if _, ok := found["ExposureTime"]; !ok {
		t.Fatalf("missing Exif IFD tag: %v", found)
	}
}

// TestDump_NoExif는 테스트 코드 동작을 검증하거나 보조합니다.
func TestDump_NoExif(t *testing.T) {
	// TIFF 블록이 없는 파일은 ErrNoExif를 돌려줘야 한다.
	path := filepath.Join(t.TempDir(), "plain.bin")
	if err := os.WriteFile(path, []byte("no tiff header anywhere in here"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Dump(path); !errors.Is(err, ErrNoExif) {
		t.Fatalf("expected ErrNoExif, got %v", err)
	}
	if _, err := Dump(filepath.Join(t.TempDir(), "missing.dng")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

// TestCleanValue는 테스트 코드 동작을 검증하거나 보조합니다.
func TestCleanValue(t *testing.T) {
	// NUL 문자를 지우고 긴 값은 잘라야 한다.
	if got := cleanValue("Leica\x00\x00 "); got != "Leica" {
		t.Fatalf("unexpected value: %q", got)
	}
	long := cleanValue("0123456789012345678901234567890123456789012345678901234567890123456789")
	if len(long) != maxValueLen+3 {
		t.Fatalf("unexpected truncated length: %d", len(long))
	}
}
