package dng

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
)

// DigestStatus records the outcome of ValidateRawImageDigest.
type DigestStatus string

const (
	DigestAbsent     DigestStatus = "absent"
	DigestVerified   DigestStatus = "verified"
	DigestUnverified DigestStatus = "unverified"
)

// legacyRawDigest is the RawImageDigest of a decoded image: MD5 over every
// sample in row-scan order, written little-endian as 16-bit values, or
// 32-bit values for depths above 16.
func legacyRawDigest(im *Image) []byte {
	h := md5.New()
	rowSamples := uint64(im.Width) * uint64(im.Planes)

	wide := im.BitsPerSample > 16
	size := uint64(2)
	if wide {
		size = 4
	}
	buf := make([]byte, rowSamples*size)

	for row := uint32(0); row < im.Height; row++ {
		base := uint64(row) * rowSamples
		for j := uint64(0); j < rowSamples; j++ {
			if wide {
				binary.LittleEndian.PutUint32(buf[j*4:], im.pix32[base+j])
			} else {
				binary.LittleEndian.PutUint16(buf[j*2:], im.pix16[base+j])
			}
		}
		h.Write(buf)
	}
	return h.Sum(nil)
}

func checkDigest(want []byte, im *Image) error {
	got := legacyRawDigest(im)
	if !bytes.Equal(got, want) {
		return newError(CodeFileIsDamaged, nil, "RawImageDigest mismatch: file %s, computed %s",
			hex.EncodeToString(want), hex.EncodeToString(got))
	}
	return nil
}
