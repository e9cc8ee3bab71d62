package dng

import (
	"strings"

	"github.com/rwcarlsen/goexif/tiff"
)

const maxImageSide = 300000

// IFD is one image file directory with the raster fields this package uses.
type IFD struct {
	dir *tiff.Dir

	// Parent is the index of the IFD whose SubIFDs tag referenced this one,
	// or -1 for directories on the main IFD chain.
	Parent int

	NewSubFileType      uint32
	Width               uint32
	Length              uint32
	BitsPerSample       []uint32
	Compression         uint32
	Photometric         uint32
	SamplesPerPixel     uint32
	PlanarConfiguration uint32
	RowsPerStrip        uint32
	Tiled               bool
	TileWidth           uint32
	TileLength          uint32
	SegmentOffsets      []uint64
	SegmentByteCounts   []uint64
	SubIFDs             []int64

	CFARepeatRows uint32
	CFARepeatCols uint32
	CFAPattern    []byte
	CFAPlaneColor []byte
}

func newIFD(dir *tiff.Dir, parent int) *IFD {
	ifd := &IFD{dir: dir, Parent: parent}

	ifd.NewSubFileType = ifd.getUint(tagNewSubFileType, sfMainImage)
	ifd.Width = ifd.getUint(tagImageWidth, 0)
	ifd.Length = ifd.getUint(tagImageLength, 0)
	ifd.BitsPerSample = ifd.getUints(tagBitsPerSample)
	if len(ifd.BitsPerSample) == 0 {
		ifd.BitsPerSample = []uint32{1}
	}
	ifd.Compression = ifd.getUint(tagCompression, ccUncompressed)
	ifd.Photometric = ifd.getUint(tagPhotometricInterpretation, ^uint32(0))
	ifd.SamplesPerPixel = ifd.getUint(tagSamplesPerPixel, 1)
	ifd.PlanarConfiguration = ifd.getUint(tagPlanarConfiguration, 1)
	ifd.RowsPerStrip = ifd.getUint(tagRowsPerStrip, ifd.Length)
	if ifd.RowsPerStrip == 0 || ifd.RowsPerStrip > ifd.Length {
		ifd.RowsPerStrip = ifd.Length
	}

	if ifd.tag(tagTileOffsets) != nil {
		ifd.Tiled = true
		ifd.TileWidth = ifd.getUint(tagTileWidth, 0)
		ifd.TileLength = ifd.getUint(tagTileLength, 0)
		ifd.SegmentOffsets = ifd.getUints64(tagTileOffsets)
		ifd.SegmentByteCounts = ifd.getUints64(tagTileByteCounts)
	} else {
		ifd.SegmentOffsets = ifd.getUints64(tagStripOffsets)
		ifd.SegmentByteCounts = ifd.getUints64(tagStripByteCounts)
	}

	for _, off := range ifd.getUints64(tagSubIFDs) {
		ifd.SubIFDs = append(ifd.SubIFDs, int64(off))
	}

	if dims := ifd.getUints(tagCFARepeatPatternDim); len(dims) == 2 {
		ifd.CFARepeatRows, ifd.CFARepeatCols = dims[0], dims[1]
	}
	ifd.CFAPattern = ifd.getBytes(tagCFAPattern)
	ifd.CFAPlaneColor = ifd.getBytes(tagCFAPlaneColor)

	return ifd
}

func (ifd *IFD) tag(id uint16) *tiff.Tag {
	if ifd.dir == nil {
		return nil
	}
	for _, t := range ifd.dir.Tags {
		if t.Id == id {
			return t
		}
	}
	return nil
}

func (ifd *IFD) getUint(id uint16, def uint32) uint32 {
	t := ifd.tag(id)
	if t == nil || t.Count == 0 {
		return def
	}
	v, err := t.Int64(0)
	if err != nil || v < 0 {
		return def
	}
	return uint32(v)
}

func (ifd *IFD) getUints(id uint16) []uint32 {
	vals := ifd.getUints64(id)
	if vals == nil {
		return nil
	}
	out := make([]uint32, len(vals))
	for i, v := range vals {
		out[i] = uint32(v)
	}
	return out
}

func (ifd *IFD) getUints64(id uint16) []uint64 {
	t := ifd.tag(id)
	if t == nil {
		return nil
	}
	out := make([]uint64, 0, t.Count)
	for i := 0; i < int(t.Count); i++ {
		v, err := t.Int64(i)
		if err != nil || v < 0 {
			return nil
		}
		out = append(out, uint64(v))
	}
	return out
}

// getRational reads element i of a RATIONAL, SHORT or LONG tag.
func (ifd *IFD) getRational(id uint16, i int) (URational, bool) {
	t := ifd.tag(id)
	if t == nil || i >= int(t.Count) {
		return URational{}, false
	}
	if t.Type == tiff.DTRational || t.Type == tiff.DTSRational {
		n, d, err := t.Rat2(i)
		if err != nil || n < 0 || d < 0 {
			return URational{}, false
		}
		return URational{N: uint32(n), D: uint32(d)}, true
	}
	v, err := t.Int64(i)
	if err != nil || v < 0 {
		return URational{}, false
	}
	return URational{N: uint32(v), D: 1}, true
}

func (ifd *IFD) getString(id uint16) string {
	t := ifd.tag(id)
	if t == nil {
		return ""
	}
	s, err := t.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\x00 ")
}

func (ifd *IFD) getBytes(id uint16) []byte {
	t := ifd.tag(id)
	if t == nil || (t.Type != tiff.DTByte && t.Type != tiff.DTUndefined && t.Type != tiff.DTAscii) {
		return nil
	}
	out := make([]byte, len(t.Val))
	copy(out, t.Val)
	return out
}

func (ifd *IFD) count(id uint16) int {
	t := ifd.tag(id)
	if t == nil {
		return 0
	}
	return int(t.Count)
}

// colorChannels is the number of color channels the raster encodes.
func (ifd *IFD) colorChannels() uint32 {
	switch ifd.Photometric {
	case piCFA:
		if n := len(ifd.CFAPlaneColor); n > 0 {
			return uint32(n)
		}
		return 3
	case piBlackIsZero, piWhiteIsZero:
		return 1
	default:
		return ifd.SamplesPerPixel
	}
}

// expectedSegments is the number of strips or tiles the geometry calls for.
func (ifd *IFD) expectedSegments() uint64 {
	var n uint64
	if ifd.Tiled {
		if ifd.TileWidth == 0 || ifd.TileLength == 0 {
			return 0
		}
		across := (uint64(ifd.Width) + uint64(ifd.TileWidth) - 1) / uint64(ifd.TileWidth)
		down := (uint64(ifd.Length) + uint64(ifd.TileLength) - 1) / uint64(ifd.TileLength)
		n = across * down
	} else {
		if ifd.RowsPerStrip == 0 {
			return 0
		}
		n = (uint64(ifd.Length) + uint64(ifd.RowsPerStrip) - 1) / uint64(ifd.RowsPerStrip)
	}
	if ifd.PlanarConfiguration == 2 {
		n *= uint64(ifd.SamplesPerPixel)
	}
	return n
}

// validateRaster checks the geometry and data layout every readable image needs.
func (ifd *IFD) validateRaster() error {
	if ifd.Width == 0 || ifd.Length == 0 {
		return badFormat("image has zero size %dx%d", ifd.Width, ifd.Length)
	}
	if ifd.Width > maxImageSide || ifd.Length > maxImageSide {
		return newError(CodeImageTooBigDNG, nil, "image size %dx%d exceeds %d", ifd.Width, ifd.Length, maxImageSide)
	}
	if ifd.SamplesPerPixel == 0 || ifd.SamplesPerPixel > 4 {
		return badFormat("unsupported SamplesPerPixel %d", ifd.SamplesPerPixel)
	}
	bps := ifd.BitsPerSample[0]
	for _, b := range ifd.BitsPerSample {
		if b != bps {
			return badFormat("mixed BitsPerSample %v", ifd.BitsPerSample)
		}
	}
	if bps == 0 || bps > 32 {
		return badFormat("unsupported BitsPerSample %d", bps)
	}
	switch ifd.Compression {
	case ccUncompressed, ccJPEG, ccDeflate, ccLossyJPEG, ccJPEGXL:
	default:
		return badFormat("unsupported Compression %d", ifd.Compression)
	}
	if ifd.PlanarConfiguration != 1 && ifd.PlanarConfiguration != 2 {
		return badFormat("unsupported PlanarConfiguration %d", ifd.PlanarConfiguration)
	}
	if len(ifd.SegmentOffsets) == 0 || len(ifd.SegmentOffsets) != len(ifd.SegmentByteCounts) {
		return badFormat("missing or mismatched strip/tile offsets")
	}
	if want := ifd.expectedSegments(); uint64(len(ifd.SegmentOffsets)) != want {
		return badFormat("found %d strips/tiles, geometry needs %d", len(ifd.SegmentOffsets), want)
	}
	return nil
}

// validateMain adds the checks specific to the main raw image.
func (ifd *IFD) validateMain() error {
	if err := ifd.validateRaster(); err != nil {
		return err
	}
	switch ifd.Photometric {
	case piCFA:
		if ifd.SamplesPerPixel != 1 {
			return badFormat("CFA image with %d samples per pixel", ifd.SamplesPerPixel)
		}
		if ifd.CFARepeatRows == 0 || ifd.CFARepeatCols == 0 ||
			len(ifd.CFAPattern) != int(ifd.CFARepeatRows*ifd.CFARepeatCols) {
			return badFormat("missing or invalid CFA pattern")
		}
	case piLinearRaw, piBlackIsZero:
	default:
		return badFormat("unsupported PhotometricInterpretation %d for main image", ifd.Photometric)
	}
	return nil
}
