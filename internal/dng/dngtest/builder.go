// Package dngtest builds small little-endian DNG files for tests.
package dngtest

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TIFF field types.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
	typeSRational = 10
)

// Digest selects which raw image digest the builder writes.
type Digest int

const (
	DigestNone Digest = iota
	DigestLegacy
	DigestCorrupt
	DigestNew
)

// Rational is an unsigned numerator/denominator pair.
type Rational struct {
	N, D uint32
}

// Builder describes the file to write. The zero value is not useful; start
// from New.
type Builder struct {
	Width  uint32
	Height uint32

	// LinearRaw writes a demosaiced main image with SamplesPerPixel planes
	// instead of a 2x2 CFA image.
	LinearRaw       bool
	SamplesPerPixel uint16

	// Tiled stores the main image in 16-column tiles instead of one strip.
	Tiled bool

	Make      string
	Model     string
	Software  string
	Artist    string
	Copyright string

	DateTime           string
	SubSecTime         string
	OffsetTime         string
	DateTimeOriginal   string
	SubSecTimeOriginal string
	OffsetTimeOriginal string

	ExposureTime              *Rational
	FNumber                   *Rational
	FocalLength               *Rational
	ISOSpeedRatings           []uint16
	ISOSpeed                  uint32
	StandardOutputSensitivity uint32
	FocalLengthIn35mmFilm     uint16

	DefaultCrop *[2]Rational

	UniqueCameraModel     string
	BackwardVersion       [4]byte
	OmitDNGVersion        bool
	OmitColorMatrix       bool
	OmitExifIFD           bool
	Digest                Digest
	Enhanced              bool
	Mask                  bool
	XMP                   string
	MainPhotometric       uint16
	TruncateTail          int
	StripByteCountsShrink uint32
}

// New returns a builder for a valid 8x6 16-bit CFA DNG with basic EXIF.
func New() *Builder {
	return &Builder{
		Width:             8,
		Height:            6,
		SamplesPerPixel:   1,
		Make:              "Leica Camera AG",
		Model:             "M11",
		Software:          "dngtest",
		UniqueCameraModel: "Leica M11",
		DateTime:          "2024:05:01 12:30:45",
		DateTimeOriginal:  "2024:05:01 12:30:00",
		ExposureTime:      &Rational{1, 125},
		FNumber:           &Rational{28, 10},
		FocalLength:       &Rational{50, 1},
		ISOSpeedRatings:   []uint16{200},
	}
}

// Sample is the value the builder stores for one raw sample.
func (b *Builder) Sample(row, col, plane uint32) uint16 {
	return uint16((row*b.Width+col)*b.planes()*7+plane*13) & 0x0FFF
}

func (b *Builder) planes() uint32 {
	if b.LinearRaw {
		return uint32(b.SamplesPerPixel)
	}
	return 1
}

// RawDigest is the legacy RawImageDigest of the main image.
func (b *Builder) RawDigest() []byte {
	h := md5.New()
	var two [2]byte
	for r := uint32(0); r < b.Height; r++ {
		for c := uint32(0); c < b.Width; c++ {
			for p := uint32(0); p < b.planes(); p++ {
				binary.LittleEndian.PutUint16(two[:], b.Sample(r, c, p))
				h.Write(two[:])
			}
		}
	}
	return h.Sum(nil)
}

// WriteFile writes the file into a fresh temp directory and returns its path.
func (b *Builder) WriteFile(tb testing.TB, name string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	val   []byte
}

type file struct {
	buf bytes.Buffer
}

func (f *file) pos() uint32 {
	return uint32(f.buf.Len())
}

func (f *file) align() {
	if f.buf.Len()%2 == 1 {
		f.buf.WriteByte(0)
	}
}

func (f *file) blob(p []byte) uint32 {
	f.align()
	off := f.pos()
	f.buf.Write(p)
	return off
}

// ifd writes a directory with its out-of-line values right after it.
func (f *file) ifd(entries []entry) uint32 {
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	f.align()
	off := f.pos()
	data := off + 2 + 12*uint32(len(entries)) + 4

	var dir, extra bytes.Buffer
	le := binary.LittleEndian
	dir.Write(le.AppendUint16(nil, uint16(len(entries))))
	for _, e := range entries {
		dir.Write(le.AppendUint16(nil, e.tag))
		dir.Write(le.AppendUint16(nil, e.typ))
		dir.Write(le.AppendUint32(nil, e.count))
		if len(e.val) <= 4 {
			var v [4]byte
			copy(v[:], e.val)
			dir.Write(v[:])
			continue
		}
		if extra.Len()%2 == 1 {
			extra.WriteByte(0)
		}
		dir.Write(le.AppendUint32(nil, data+uint32(extra.Len())))
		extra.Write(e.val)
	}
	dir.Write(le.AppendUint32(nil, 0))

	f.buf.Write(dir.Bytes())
	f.buf.Write(extra.Bytes())
	return off
}

func shorts(tag uint16, vals ...uint16) entry {
	var p []byte
	for _, v := range vals {
		p = binary.LittleEndian.AppendUint16(p, v)
	}
	return entry{tag, typeShort, uint32(len(vals)), p}
}

func longs(tag uint16, vals ...uint32) entry {
	var p []byte
	for _, v := range vals {
		p = binary.LittleEndian.AppendUint32(p, v)
	}
	return entry{tag, typeLong, uint32(len(vals)), p}
}

func rationals(tag uint16, vals ...Rational) entry {
	var p []byte
	for _, v := range vals {
		p = binary.LittleEndian.AppendUint32(p, v.N)
		p = binary.LittleEndian.AppendUint32(p, v.D)
	}
	return entry{tag, typeRational, uint32(len(vals)), p}
}

func srationals(tag uint16, vals ...int32) entry {
	var p []byte
	for _, v := range vals {
		p = binary.LittleEndian.AppendUint32(p, uint32(v))
		p = binary.LittleEndian.AppendUint32(p, 10000)
	}
	return entry{tag, typeSRational, uint32(len(vals)), p}
}

func ascii(tag uint16, s string) entry {
	p := append([]byte(s), 0)
	return entry{tag, typeASCII, uint32(len(p)), p}
}

func raw(tag, typ uint16, p []byte) entry {
	return entry{tag, typ, uint32(len(p)), p}
}

// Bytes renders the file.
func (b *Builder) Bytes() []byte {
	var f file
	f.buf.Write([]byte{'I', 'I', 42, 0, 0, 0, 0, 0})

	mainIFD := b.mainIFD(&f)
	subIFDs := []uint32{mainIFD}
	if b.Enhanced {
		subIFDs = append(subIFDs, b.enhancedIFD(&f))
	}
	if b.Mask {
		subIFDs = append(subIFDs, b.maskIFD(&f))
	}

	var exifIFD uint32
	if !b.OmitExifIFD {
		exifIFD = f.ifd(b.exifEntries())
	}

	preview := f.blob([]byte{0x80, 0x80, 0x80})
	ifd0 := []entry{
		longs(0x00FE, 1),
		longs(0x0100, 1),
		longs(0x0101, 1),
		shorts(0x0102, 8, 8, 8),
		shorts(0x0103, 1),
		shorts(0x0106, 2),
		longs(0x0111, preview),
		shorts(0x0115, 3),
		longs(0x0116, 1),
		longs(0x0117, 3),
		longs(0x014A, subIFDs...),
	}
	if !b.OmitExifIFD {
		ifd0 = append(ifd0, longs(0x8769, exifIFD))
	}
	for _, s := range []struct {
		tag uint16
		val string
	}{
		{0x010F, b.Make},
		{0x0110, b.Model},
		{0x0131, b.Software},
		{0x0132, b.DateTime},
		{0x013B, b.Artist},
		{0x8298, b.Copyright},
		{0xC614, b.UniqueCameraModel},
	} {
		if s.val != "" {
			ifd0 = append(ifd0, ascii(s.tag, s.val))
		}
	}
	if !b.OmitDNGVersion {
		ifd0 = append(ifd0, raw(0xC612, typeByte, []byte{1, 4, 0, 0}))
	}
	if b.BackwardVersion != [4]byte{} {
		ifd0 = append(ifd0, raw(0xC613, typeByte, b.BackwardVersion[:]))
	}
	if !b.OmitColorMatrix && b.colorChannels() > 1 {
		ifd0 = append(ifd0, srationals(0xC621, 8000, -2000, -500, -4000, 12000, 1500, -800, 1800, 6000))
	}
	if b.XMP != "" {
		ifd0 = append(ifd0, raw(0x02BC, typeByte, []byte(b.XMP)))
	}
	switch b.Digest {
	case DigestLegacy:
		ifd0 = append(ifd0, raw(0xC71C, typeByte, b.RawDigest()))
	case DigestCorrupt:
		d := b.RawDigest()
		d[0] ^= 0xFF
		ifd0 = append(ifd0, raw(0xC71C, typeByte, d))
	case DigestNew:
		ifd0 = append(ifd0, raw(0xC7A7, typeByte, b.RawDigest()))
	}

	off := f.ifd(ifd0)
	out := f.buf.Bytes()
	binary.LittleEndian.PutUint32(out[4:], off)
	if b.TruncateTail > 0 && b.TruncateTail < len(out) {
		out = out[:len(out)-b.TruncateTail]
	}
	return out
}

func (b *Builder) colorChannels() uint32 {
	if b.LinearRaw {
		return uint32(b.SamplesPerPixel)
	}
	return 3
}

func (b *Builder) mainIFD(f *file) uint32 {
	spp := uint16(b.planes())
	photometric := uint16(32803)
	if b.LinearRaw {
		photometric = 34892
	}
	if b.MainPhotometric != 0 {
		photometric = b.MainPhotometric
	}

	bps := make([]uint16, spp)
	for i := range bps {
		bps[i] = 16
	}
	entries := []entry{
		longs(0x00FE, 0),
		longs(0x0100, b.Width),
		longs(0x0101, b.Height),
		shorts(0x0102, bps...),
		shorts(0x0103, 1),
		shorts(0x0106, photometric),
		shorts(0x0115, spp),
		shorts(0x011C, 1),
	}
	if !b.LinearRaw {
		entries = append(entries,
			shorts(0x828D, 2, 2),
			raw(0x828E, typeByte, []byte{0, 1, 1, 2}),
		)
	}
	if b.DefaultCrop != nil {
		entries = append(entries, rationals(0xC620, b.DefaultCrop[0], b.DefaultCrop[1]))
	}

	if b.Tiled {
		tw := uint32(16)
		across := (b.Width + tw - 1) / tw
		var offsets, counts []uint32
		for t := uint32(0); t < across; t++ {
			var p []byte
			for r := uint32(0); r < b.Height; r++ {
				for c := t * tw; c < (t+1)*tw; c++ {
					for pl := uint32(0); pl < b.planes(); pl++ {
						var v uint16
						if c < b.Width {
							v = b.Sample(r, c, pl)
						}
						p = binary.LittleEndian.AppendUint16(p, v)
					}
				}
			}
			offsets = append(offsets, f.blob(p))
			counts = append(counts, uint32(len(p)))
		}
		entries = append(entries,
			longs(0x0142, tw),
			longs(0x0143, b.Height),
			longs(0x0144, offsets...),
			longs(0x0145, counts...),
		)
		return f.ifd(entries)
	}

	var p []byte
	for r := uint32(0); r < b.Height; r++ {
		for c := uint32(0); c < b.Width; c++ {
			for pl := uint32(0); pl < b.planes(); pl++ {
				p = binary.LittleEndian.AppendUint16(p, b.Sample(r, c, pl))
			}
		}
	}
	strip := f.blob(p)
	entries = append(entries,
		longs(0x0111, strip),
		longs(0x0116, b.Height),
		longs(0x0117, uint32(len(p))-b.StripByteCountsShrink),
	)
	return f.ifd(entries)
}

func (b *Builder) enhancedIFD(f *file) uint32 {
	p := make([]byte, b.Width*b.Height*3*2)
	strip := f.blob(p)
	return f.ifd([]entry{
		longs(0x00FE, 16),
		longs(0x0100, b.Width),
		longs(0x0101, b.Height),
		shorts(0x0102, 16, 16, 16),
		shorts(0x0103, 1),
		shorts(0x0106, 34892),
		longs(0x0111, strip),
		shorts(0x0115, 3),
		longs(0x0116, b.Height),
		longs(0x0117, uint32(len(p))),
	})
}

func (b *Builder) maskIFD(f *file) uint32 {
	p := bytes.Repeat([]byte{0xFF}, int(b.Width*b.Height))
	strip := f.blob(p)
	return f.ifd([]entry{
		longs(0x00FE, 4),
		longs(0x0100, b.Width),
		longs(0x0101, b.Height),
		shorts(0x0102, 8),
		shorts(0x0103, 1),
		shorts(0x0106, 4),
		longs(0x0111, strip),
		shorts(0x0115, 1),
		longs(0x0116, b.Height),
		longs(0x0117, uint32(len(p))),
	})
}

func (b *Builder) exifEntries() []entry {
	var entries []entry
	if b.ExposureTime != nil {
		entries = append(entries, rationals(0x829A, *b.ExposureTime))
	}
	if b.FNumber != nil {
		entries = append(entries, rationals(0x829D, *b.FNumber))
	}
	if len(b.ISOSpeedRatings) > 0 {
		entries = append(entries, shorts(0x8827, b.ISOSpeedRatings...))
	}
	if b.StandardOutputSensitivity != 0 {
		entries = append(entries, shorts(0x8830, 2), longs(0x8831, b.StandardOutputSensitivity))
	}
	if b.ISOSpeed != 0 {
		entries = append(entries, longs(0x8833, b.ISOSpeed))
	}
	if b.FocalLength != nil {
		entries = append(entries, rationals(0x920A, *b.FocalLength))
	}
	if b.FocalLengthIn35mmFilm != 0 {
		entries = append(entries, shorts(0xA405, b.FocalLengthIn35mmFilm))
	}
	for _, s := range []struct {
		tag uint16
		val string
	}{
		{0x9003, b.DateTimeOriginal},
		{0x9010, b.OffsetTime},
		{0x9011, b.OffsetTimeOriginal},
		{0x9290, b.SubSecTime},
		{0x9291, b.SubSecTimeOriginal},
	} {
		if s.val != "" {
			entries = append(entries, ascii(s.tag, s.val))
		}
	}
	entries = append(entries, raw(0x9000, typeUndefined, []byte("0230")))
	return entries
}
