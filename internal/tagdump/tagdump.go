// Package tagdump lists every TIFF/EXIF tag of a file.
package tagdump

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/On-Jun9/dngprobe/pkg/types"
)

const maxValueLen = 64

var ErrNoExif = errors.New("no TIFF/EXIF data found")

// Dump reads path and returns its tags sorted by IFD path, then tag ID.
func Dump(path string) ([]types.TagEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := exif.SearchAndExtractExifWithReader(f)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, ErrNoExif
		}
		return nil, fmt.Errorf("search exif: %w", err)
	}

	flat, _, err := exif.GetFlatExifData(data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse exif: %w", err)
	}

	entries := make([]types.TagEntry, 0, len(flat))
	for _, tag := range flat {
		entries = append(entries, types.TagEntry{
			IFD:   tag.IfdPath,
			ID:    tag.TagId,
			Name:  tag.TagName,
			Type:  tag.TagTypeName,
			Value: cleanValue(tag.FormattedFirst),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IFD != entries[j].IFD {
			return entries[i].IFD < entries[j].IFD
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func cleanValue(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
	if len(s) > maxValueLen {
		s = s[:maxValueLen] + "..."
	}
	return s
}
