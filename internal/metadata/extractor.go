package metadata

import (
	"github.com/On-Jun9/dngprobe/internal/dng"
	"github.com/On-Jun9/dngprobe/pkg/types"
)

// Negative is the part of a loaded image the extractor reads.
// *dng.Negative satisfies it.
type Negative interface {
	SynchronizeMetadata()
	Exif() *dng.Exif
	DefaultCropSizeH() dng.URational
	DefaultCropSizeV() dng.URational
	Stage1Image() *dng.Image
	IsMonochrome() bool
}

// Extract copies the known fields of neg into a flat record. Missing values
// fall back to the field's sentinel; Extract never fails.
func Extract(neg Negative) types.MetadataRecord {
	var rec types.MetadataRecord

	neg.SynchronizeMetadata()
	e := neg.Exif()
	if e == nil {
		return rec
	}

	rec.Make = e.Make
	rec.Model = e.Model
	rec.Software = e.Software
	rec.Artist = e.Artist
	rec.Copyright = e.Copyright

	stage1 := neg.Stage1Image()
	if stage1 != nil {
		rec.RawWidth, rec.RawHeight = stage1.Size()
		rec.ColorPlanes = stage1.Planes
	}

	rec.Width = uint32(neg.DefaultCropSizeH().AsReal64())
	rec.Height = uint32(neg.DefaultCropSizeV().AsReal64())
	if rec.Width == 0 || rec.Height == 0 {
		rec.Width = rec.RawWidth
		rec.Height = rec.RawHeight
	}

	rec.ExposureTime = e.ExposureTime.AsReal64()
	rec.FNumber = e.FNumber.AsReal64()
	rec.FocalLength = e.FocalLength.AsReal64()
	rec.ISO = resolveISO(e)
	rec.FocalLength35mm = e.FocalLengthIn35mmFilm

	if e.DateTime.IsValid() {
		rec.DateTime = e.DateTime.EncodeISO8601()
	}
	if e.DateTimeOriginal.IsValid() {
		rec.DateTimeOriginal = e.DateTimeOriginal.EncodeISO8601()
	}

	rec.IsMonochrome = neg.IsMonochrome()
	if rec.IsMonochrome {
		rec.ColorSpace = "Grayscale"
	} else {
		rec.ColorSpace = "RGB"
	}

	return rec
}

// resolveISO returns the first nonzero of ISOSpeed, ISOSpeedRatings[0] and
// StandardOutputSensitivity. Later ISOSpeedRatings entries are not consulted.
func resolveISO(e *dng.Exif) uint32 {
	for _, v := range []uint32{e.ISOSpeed, e.ISOSpeedRatings[0], e.StandardOutputSensitivity} {
		if v != 0 {
			return v
		}
	}
	return 0
}
