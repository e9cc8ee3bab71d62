package dng

import (
	"encoding/binary"
)

// Decoded sample buffers larger than this fail with CodeMemory.
const maxDecodeBytes = 1 << 30

// Image is a decoded raster plane set. Geometry is always present; sample
// data only when the source was uncompressed chunky data.
type Image struct {
	Width         uint32
	Height        uint32
	Planes        uint32
	BitsPerSample uint32
	Compression   uint32

	pix16 []uint16
	pix32 []uint32
}

// Size returns the image width and height.
func (im *Image) Size() (uint32, uint32) {
	return im.Width, im.Height
}

// HasPixels reports whether sample data was decoded.
func (im *Image) HasPixels() bool {
	return im.pix16 != nil || im.pix32 != nil
}

// Sample returns one sample. It panics when the image has no pixels or the
// coordinates are out of range, like slice indexing.
func (im *Image) Sample(row, col, plane uint32) uint32 {
	i := (uint64(row)*uint64(im.Width)+uint64(col))*uint64(im.Planes) + uint64(plane)
	if im.pix32 != nil {
		return im.pix32[i]
	}
	return uint32(im.pix16[i])
}

func (im *Image) set(i uint64, v uint32) {
	if im.pix32 != nil {
		im.pix32[i] = v
		return
	}
	im.pix16[i] = uint16(v)
}

func (im *Image) sampleCount() uint64 {
	return uint64(im.Width) * uint64(im.Height) * uint64(im.Planes)
}

// readImage validates the raster layout of ifd and, when decode is set and
// the data is uncompressed chunky, unpacks every sample.
func readImage(s *Stream, order binary.ByteOrder, ifd *IFD, decode bool) (*Image, error) {
	if err := ifd.validateRaster(); err != nil {
		return nil, err
	}

	im := &Image{
		Width:         ifd.Width,
		Height:        ifd.Length,
		Planes:        ifd.SamplesPerPixel,
		BitsPerSample: ifd.BitsPerSample[0],
		Compression:   ifd.Compression,
	}

	for i, off := range ifd.SegmentOffsets {
		n := ifd.SegmentByteCounts[i]
		if off > uint64(s.Size()) || n > uint64(s.Size())-off {
			return nil, badFormat("segment %d [%d,+%d) outside stream of %d bytes", i, off, n, s.Size())
		}
	}

	if !decode || ifd.Compression != ccUncompressed || ifd.PlanarConfiguration != 1 {
		return im, nil
	}

	bytesPerSample := uint64(2)
	if im.BitsPerSample > 16 {
		bytesPerSample = 4
	}
	if im.sampleCount()*bytesPerSample > maxDecodeBytes {
		return nil, newError(CodeMemory, nil, "%dx%dx%d image is too large to decode", im.Width, im.Height, im.Planes)
	}
	if bytesPerSample == 4 {
		im.pix32 = make([]uint32, im.sampleCount())
	} else {
		im.pix16 = make([]uint16, im.sampleCount())
	}

	if ifd.Tiled {
		return im, readTiles(s, order, ifd, im)
	}
	return im, readStrips(s, order, ifd, im)
}

func rowBytes(samples uint64, bps uint32) uint64 {
	return (samples*uint64(bps) + 7) / 8
}

func readStrips(s *Stream, order binary.ByteOrder, ifd *IFD, im *Image) error {
	rowSamples := uint64(im.Width) * uint64(im.Planes)
	stride := rowBytes(rowSamples, im.BitsPerSample)

	for i, off := range ifd.SegmentOffsets {
		first := uint64(i) * uint64(ifd.RowsPerStrip)
		rows := min(uint64(ifd.RowsPerStrip), uint64(im.Height)-first)
		if ifd.SegmentByteCounts[i] < rows*stride {
			return badFormat("strip %d holds %d bytes, needs %d", i, ifd.SegmentByteCounts[i], rows*stride)
		}

		buf, err := s.ReadBytes(int64(off), int64(rows*stride))
		if err != nil {
			return err
		}
		for r := uint64(0); r < rows; r++ {
			base := (first + r) * rowSamples
			unpackRow(buf[r*stride:(r+1)*stride], rowSamples, im.BitsPerSample, order, func(j uint64, v uint32) {
				im.set(base+j, v)
			})
		}
	}
	return nil
}

func readTiles(s *Stream, order binary.ByteOrder, ifd *IFD, im *Image) error {
	tileSamples := uint64(ifd.TileWidth) * uint64(im.Planes)
	stride := rowBytes(tileSamples, im.BitsPerSample)
	across := (uint64(im.Width) + uint64(ifd.TileWidth) - 1) / uint64(ifd.TileWidth)
	need := stride * uint64(ifd.TileLength)

	for i, off := range ifd.SegmentOffsets {
		if ifd.SegmentByteCounts[i] < need {
			return badFormat("tile %d holds %d bytes, needs %d", i, ifd.SegmentByteCounts[i], need)
		}
		buf, err := s.ReadBytes(int64(off), int64(need))
		if err != nil {
			return err
		}

		top := uint64(i) / across * uint64(ifd.TileLength)
		left := uint64(i) % across * uint64(ifd.TileWidth)
		cols := min(uint64(ifd.TileWidth), uint64(im.Width)-left)
		for r := uint64(0); r < uint64(ifd.TileLength) && top+r < uint64(im.Height); r++ {
			base := ((top+r)*uint64(im.Width) + left) * uint64(im.Planes)
			limit := cols * uint64(im.Planes)
			unpackRow(buf[r*stride:(r+1)*stride], limit, im.BitsPerSample, order, func(j uint64, v uint32) {
				im.set(base+j, v)
			})
		}
	}
	return nil
}

// unpackRow decodes n samples from src. Whole-byte sizes use the file byte
// order; other depths are packed most significant bit first.
func unpackRow(src []byte, n uint64, bps uint32, order binary.ByteOrder, put func(uint64, uint32)) {
	switch bps {
	case 8:
		for j := uint64(0); j < n; j++ {
			put(j, uint32(src[j]))
		}
	case 16:
		for j := uint64(0); j < n; j++ {
			put(j, uint32(order.Uint16(src[2*j:])))
		}
	case 32:
		for j := uint64(0); j < n; j++ {
			put(j, order.Uint32(src[4*j:]))
		}
	default:
		var bit uint64
		for j := uint64(0); j < n; j++ {
			var v uint32
			for k := uint32(0); k < bps; k++ {
				b := src[bit>>3] >> (7 - bit&7) & 1
				v = v<<1 | uint32(b)
				bit++
			}
			put(j, v)
		}
	}
}
