package dng

import (
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// EXIF 2.3 fields goexif has no names for.
const (
	SensitivityType           exif.FieldName = "SensitivityType"
	StandardOutputSensitivity exif.FieldName = "StandardOutputSensitivity"
	RecommendedExposureIndex  exif.FieldName = "RecommendedExposureIndex"
	ISOSpeed                  exif.FieldName = "ISOSpeed"
	OffsetTime                exif.FieldName = "OffsetTime"
	OffsetTimeOriginal        exif.FieldName = "OffsetTimeOriginal"
)

var extraExifFields = map[uint16]exif.FieldName{
	tagSensitivityType:           SensitivityType,
	tagStandardOutputSensitivity: StandardOutputSensitivity,
	tagRecommendedExposureIndex:  RecommendedExposureIndex,
	tagISOSpeed:                  ISOSpeed,
	tagOffsetTime:                OffsetTime,
	tagOffsetTimeOriginal:        OffsetTimeOriginal,
}

// Exif is the canonical metadata view of a negative.
type Exif struct {
	Make      string
	Model     string
	Software  string
	Artist    string
	Copyright string

	ExposureTime URational
	FNumber      URational
	FocalLength  URational

	ISOSpeedRatings           [3]uint32
	ISOSpeed                  uint32
	StandardOutputSensitivity uint32
	RecommendedExposureIndex  uint32
	SensitivityType           uint32
	FocalLengthIn35mmFilm     uint32

	DateTime         DateTimeInfo
	DateTimeOriginal DateTimeInfo
}

// loadExtraExifTags decodes the Exif IFD again and registers the fields in
// extraExifFields on x, so x.Get finds them like any built-in field.
func loadExtraExifTags(s *Stream, x *exif.Exif) error {
	ptr, err := x.Get(exif.ExifIFDPointer)
	if err != nil {
		return nil
	}
	off, err := ptr.Int64(0)
	if err != nil {
		return newError(CodeBadFormat, err, "ExifIFDPointer")
	}
	if err := s.SetReadPosition(off); err != nil {
		return err
	}
	dir, _, err := tiff.DecodeDir(s, x.Tiff.Order)
	if err != nil {
		return newError(CodeBadFormat, err, "Exif IFD at offset %d", off)
	}
	x.LoadTags(dir, extraExifFields, false)
	return nil
}

func exifFromTags(x *exif.Exif) *Exif {
	e := &Exif{
		Make:      exifString(x, exif.Make),
		Model:     exifString(x, exif.Model),
		Software:  exifString(x, exif.Software),
		Artist:    exifString(x, exif.Artist),
		Copyright: exifString(x, exif.Copyright),

		ExposureTime: exifRational(x, exif.ExposureTime),
		FNumber:      exifRational(x, exif.FNumber),
		FocalLength:  exifRational(x, exif.FocalLength),

		ISOSpeed:                  exifUint(x, ISOSpeed),
		StandardOutputSensitivity: exifUint(x, StandardOutputSensitivity),
		RecommendedExposureIndex:  exifUint(x, RecommendedExposureIndex),
		SensitivityType:           exifUint(x, SensitivityType),
		FocalLengthIn35mmFilm:     exifUint(x, exif.FocalLengthIn35mmFilm),
	}

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		for i := 0; i < len(e.ISOSpeedRatings) && i < int(tag.Count); i++ {
			if v, err := tag.Int64(i); err == nil && v > 0 {
				e.ISOSpeedRatings[i] = uint32(v)
			}
		}
	}

	e.DateTime = ParseEXIFDateTime(exifString(x, exif.DateTime))
	if e.DateTime.IsValid() {
		e.DateTime.SetSubseconds(exifString(x, exif.SubSecTime))
		e.DateTime.SetOffset(exifString(x, OffsetTime))
	}
	e.DateTimeOriginal = ParseEXIFDateTime(exifString(x, exif.DateTimeOriginal))
	if e.DateTimeOriginal.IsValid() {
		e.DateTimeOriginal.SetSubseconds(exifString(x, exif.SubSecTimeOriginal))
		e.DateTimeOriginal.SetOffset(exifString(x, OffsetTimeOriginal))
	}

	return e
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func exifRational(x *exif.Exif, name exif.FieldName) URational {
	tag, err := x.Get(name)
	if err != nil {
		return URational{}
	}
	num, den, err := tag.Rat2(0)
	if err != nil || num < 0 || den < 0 {
		return URational{}
	}
	return URational{N: uint32(num), D: uint32(den)}
}

func exifUint(x *exif.Exif, name exif.FieldName) uint32 {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	v, err := tag.Int64(0)
	if err != nil || v < 0 {
		return 0
	}
	return uint32(v)
}
