package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/On-Jun9/dngprobe/pkg/types"
)

var DefaultExtensions = []string{"dng"}

type Scanner struct {
	includeExt map[string]bool
}

func New(extensions []string) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Scanner{includeExt: extMap}
}

// Scan lists the subdirectories and matching files directly inside dir.
// Hidden entries are skipped. Directories come first, then files, each
// sorted by name.
func (s *Scanner) Scan(dir string) ([]types.FileEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []types.FileEntry
	for _, d := range dirEntries {
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, d.Name())
		if d.IsDir() {
			entries = append(entries, types.FileEntry{Path: path, Name: d.Name(), IsDir: true})
			continue
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name())), ".")
		if !s.includeExt[ext] {
			continue
		}

		info, err := d.Info()
		if err != nil {
			continue
		}

		entries = append(entries, types.FileEntry{
			Path:      path,
			Name:      d.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Extension: ext,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
