package dng

import (
	"encoding/binary"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

const maxIFDs = 100

// Shared holds the file-level DNG fields stored in IFD0.
type Shared struct {
	DNGVersion         Version
	DNGBackwardVersion Version
	UniqueCameraModel  string
	ColorMatrix1Count  int
	RawImageDigest     []byte
	NewRawImageDigest  []byte
	XMP                []byte
}

// Info is the parsed directory structure of a DNG container.
type Info struct {
	Order  binary.ByteOrder
	IFDs   []*IFD
	Shared Shared

	// Indexes into IFDs, -1 when absent.
	MainIndex     int
	EnhancedIndex int
	MaskIndex     int

	// Warnings collects non-fatal problems found while parsing.
	Warnings []string

	exif *exif.Exif
}

func NewInfo() *Info {
	return &Info{MainIndex: -1, EnhancedIndex: -1, MaskIndex: -1}
}

// Parse reads the TIFF header, the IFD chain and every SubIFD reachable from it.
// checkIFDChain follows the IFD0 next-pointer chain and rejects loops and
// overlong chains, which the TIFF decoder would follow without end. A
// missing TIFF header or an unreadable directory is left to the decoder.
func checkIFDChain(s *Stream) error {
	head, err := s.ReadBytes(0, 8)
	if err != nil {
		return nil
	}
	var order binary.ByteOrder
	switch string(head[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil
	}

	seen := make(map[int64]bool)
	off := int64(order.Uint32(head[4:]))
	for off != 0 {
		if seen[off] {
			return badFormat("IFD chain loops at offset %d", off)
		}
		if len(seen) >= maxIFDs {
			return badFormat("more than %d image file directories", maxIFDs)
		}
		seen[off] = true

		cnt, err := s.ReadBytes(off, 2)
		if err != nil {
			return nil
		}
		next, err := s.ReadBytes(off+2+int64(order.Uint16(cnt))*12, 4)
		if err != nil {
			return nil
		}
		off = int64(order.Uint32(next))
	}
	return nil
}

func (info *Info) Parse(host *Host, s *Stream) error {
	if err := s.SetReadPosition(0); err != nil {
		return err
	}

	if err := checkIFDChain(s); err != nil {
		return err
	}
	if err := s.SetReadPosition(0); err != nil {
		return err
	}

	x, err := exif.Decode(s)
	if err != nil {
		if exif.IsCriticalError(err) {
			return newError(CodeBadFormat, err, "not a TIFF container")
		}
		info.Warnings = append(info.Warnings, err.Error())
	}
	if x == nil || x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return badFormat("no image file directories")
	}

	info.exif = x
	info.Order = x.Tiff.Order
	for _, d := range x.Tiff.Dirs {
		info.IFDs = append(info.IFDs, newIFD(d, -1))
	}

	seen := make(map[int64]bool)
	for i := 0; i < len(info.IFDs); i++ {
		for _, off := range info.IFDs[i].SubIFDs {
			if seen[off] {
				continue
			}
			seen[off] = true

			if len(info.IFDs) >= maxIFDs {
				return badFormat("more than %d image file directories", maxIFDs)
			}
			if err := s.SetReadPosition(off); err != nil {
				return err
			}
			dir, _, err := tiff.DecodeDir(s, info.Order)
			if err != nil {
				return newError(CodeBadFormat, err, "SubIFD at offset %d", off)
			}
			info.IFDs = append(info.IFDs, newIFD(dir, i))
		}
	}

	info.parseShared(info.IFDs[0])
	return nil
}

func (info *Info) parseShared(ifd0 *IFD) {
	sh := &info.Shared
	if v := ifd0.getBytes(tagDNGVersion); len(v) == 4 {
		copy(sh.DNGVersion[:], v)
	}
	if v := ifd0.getBytes(tagDNGBackwardVersion); len(v) == 4 {
		copy(sh.DNGBackwardVersion[:], v)
	}
	sh.UniqueCameraModel = ifd0.getString(tagUniqueCameraModel)
	sh.ColorMatrix1Count = ifd0.count(tagColorMatrix1)
	sh.RawImageDigest = ifd0.getBytes(tagRawImageDigest)
	sh.NewRawImageDigest = ifd0.getBytes(tagNewRawImageDigest)
	sh.XMP = ifd0.getBytes(tagXMP)
}

// PostParse classifies the directories: main raw image, enhanced image and
// transparency mask. Enhanced and mask directories with unreadable rasters
// are ignored rather than failing the file.
func (info *Info) PostParse(host *Host) {
	for i, ifd := range info.IFDs {
		switch ifd.NewSubFileType {
		case sfMainImage:
			if info.MainIndex == -1 {
				info.MainIndex = i
			}
		case sfEnhancedImage:
			if info.EnhancedIndex == -1 {
				if err := ifd.validateRaster(); err != nil {
					info.Warnings = append(info.Warnings, "enhanced image ignored: "+err.Error())
					continue
				}
				info.EnhancedIndex = i
			}
		case sfTransparencyMask:
			if info.MaskIndex == -1 {
				if err := ifd.validateRaster(); err != nil {
					info.Warnings = append(info.Warnings, "transparency mask ignored: "+err.Error())
					continue
				}
				info.MaskIndex = i
			}
		}
	}
}

// IsValidDNG reports whether the container satisfies the DNG validity rules.
func (info *Info) IsValidDNG() bool {
	return info.Validate() == nil
}

// Validate explains why IsValidDNG is false. It returns nil for a valid file.
func (info *Info) Validate() error {
	sh := info.Shared
	if sh.DNGVersion.IsZero() {
		return badFormat("missing DNGVersion")
	}
	if sh.DNGVersion[0] != 1 {
		return badFormat("unsupported DNGVersion %s", sh.DNGVersion)
	}
	backward := sh.DNGBackwardVersion
	if backward.IsZero() {
		backward = Version{1, 0, 0, 0}
	}
	if versionCurrent.Less(backward) {
		return newError(CodeUnsupportedDNG, nil, "file requires a DNG %s reader", backward)
	}
	if info.MainIndex < 0 || info.MainIndex >= len(info.IFDs) {
		return badFormat("no main image")
	}

	main := info.IFDs[info.MainIndex]
	if err := main.validateMain(); err != nil {
		return err
	}
	if strings.TrimSpace(sh.UniqueCameraModel) == "" {
		return badFormat("missing UniqueCameraModel")
	}
	if main.colorChannels() > 1 && sh.ColorMatrix1Count == 0 {
		return badFormat("missing ColorMatrix1")
	}
	return nil
}
