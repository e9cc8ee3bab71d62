// Package report renders metadata records for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/On-Jun9/dngprobe/pkg/types"
)

const unknown = "Unknown"

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

// Write prints rec in fixed groups. Empty text and zero exposure time,
// f-number, focal length and ISO print as "Unknown".
func Write(w io.Writer, rec types.MetadataRecord) error {
	ew := &errWriter{w: w}

	ew.printf("=== DNG File Information ===\n")
	ew.printf("Make: %s\n", orUnknown(rec.Make))
	ew.printf("Model: %s\n", orUnknown(rec.Model))
	ew.printf("Software: %s\n", orUnknown(rec.Software))
	ew.printf("Artist: %s\n", orUnknown(rec.Artist))
	ew.printf("Copyright: %s\n", orUnknown(rec.Copyright))
	ew.printf("\n")

	ew.printf("Image Size: %d x %d\n", rec.Width, rec.Height)
	ew.printf("RAW Size: %d x %d\n", rec.RawWidth, rec.RawHeight)
	ew.printf("\n")

	ew.printf("Camera Settings:\n")
	if rec.ExposureTime > 0 {
		ew.printf("  Exposure Time: %f sec\n", rec.ExposureTime)
	} else {
		ew.printf("  Exposure Time: %s\n", unknown)
	}
	if rec.FNumber > 0 {
		ew.printf("  F-Number: f/%f\n", rec.FNumber)
	} else {
		ew.printf("  F-Number: %s\n", unknown)
	}
	if rec.FocalLength > 0 {
		ew.printf("  Focal Length: %f mm\n", rec.FocalLength)
	} else {
		ew.printf("  Focal Length: %s\n", unknown)
	}
	if rec.FocalLength35mm > 0 {
		ew.printf("  35mm Equivalent: %d mm\n", rec.FocalLength35mm)
	}
	if rec.ISO > 0 {
		ew.printf("  ISO: %d\n", rec.ISO)
	} else {
		ew.printf("  ISO: %s\n", unknown)
	}
	ew.printf("\n")

	ew.printf("Date/Time:\n")
	ew.printf("  DateTime: %s\n", orUnknown(rec.DateTime))
	ew.printf("  DateTimeOriginal: %s\n", orUnknown(rec.DateTimeOriginal))
	ew.printf("\n")

	monochrome := "No"
	if rec.IsMonochrome {
		monochrome = "Yes"
	}
	ew.printf("Other Information:\n")
	ew.printf("  Monochrome: %s\n", monochrome)
	ew.printf("  Color Planes: %d\n", rec.ColorPlanes)
	ew.printf("  Color Space: %s\n", rec.ColorSpace)
	ew.printf("===================\n")

	return ew.err
}

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result types.LoadResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteTags prints the tag dump as an aligned table.
func WriteTags(w io.Writer, tags []types.TagEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IFD\tID\tNAME\tTYPE\tVALUE")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t0x%04X\t%s\t%s\t%s\n", t.IFD, t.ID, t.Name, t.Type, t.Value)
	}
	return tw.Flush()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
