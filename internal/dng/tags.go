package dng

import "fmt"

// TIFF baseline and extension tags.
const (
	tagNewSubFileType            uint16 = 0x00FE
	tagImageWidth                uint16 = 0x0100
	tagImageLength               uint16 = 0x0101
	tagBitsPerSample             uint16 = 0x0102
	tagCompression               uint16 = 0x0103
	tagPhotometricInterpretation uint16 = 0x0106
	tagMake                      uint16 = 0x010F
	tagModel                     uint16 = 0x0110
	tagStripOffsets              uint16 = 0x0111
	tagSamplesPerPixel           uint16 = 0x0115
	tagRowsPerStrip              uint16 = 0x0116
	tagStripByteCounts           uint16 = 0x0117
	tagPlanarConfiguration       uint16 = 0x011C
	tagSoftware                  uint16 = 0x0131
	tagDateTime                  uint16 = 0x0132
	tagArtist                    uint16 = 0x013B
	tagTileWidth                 uint16 = 0x0142
	tagTileLength                uint16 = 0x0143
	tagTileOffsets               uint16 = 0x0144
	tagTileByteCounts            uint16 = 0x0145
	tagSubIFDs                   uint16 = 0x014A
	tagXMP                       uint16 = 0x02BC
	tagCFARepeatPatternDim       uint16 = 0x828D
	tagCFAPattern                uint16 = 0x828E
	tagCopyright                 uint16 = 0x8298
	tagExifIFD                   uint16 = 0x8769
)

// EXIF tags that goexif does not map by name.
const (
	tagSensitivityType           uint16 = 0x8830
	tagStandardOutputSensitivity uint16 = 0x8831
	tagRecommendedExposureIndex  uint16 = 0x8832
	tagISOSpeed                  uint16 = 0x8833
	tagOffsetTime                uint16 = 0x9010
	tagOffsetTimeOriginal        uint16 = 0x9011
)

// DNG tags.
const (
	tagDNGVersion         uint16 = 0xC612
	tagDNGBackwardVersion uint16 = 0xC613
	tagUniqueCameraModel  uint16 = 0xC614
	tagCFAPlaneColor      uint16 = 0xC616
	tagDefaultCropSize    uint16 = 0xC620
	tagColorMatrix1       uint16 = 0xC621
	tagRawImageDigest     uint16 = 0xC71C
	tagNewRawImageDigest  uint16 = 0xC7A7
)

// NewSubFileType values.
const (
	sfMainImage        uint32 = 0
	sfPreviewImage     uint32 = 1
	sfTransparencyMask uint32 = 4
	sfDepthMap         uint32 = 8
	sfEnhancedImage    uint32 = 16
)

// PhotometricInterpretation values.
const (
	piWhiteIsZero uint32 = 0
	piBlackIsZero uint32 = 1
	piRGB         uint32 = 2
	piCFA         uint32 = 32803
	piLinearRaw   uint32 = 34892
)

// Compression values.
const (
	ccUncompressed uint32 = 1
	ccJPEG         uint32 = 7
	ccDeflate      uint32 = 8
	ccLossyJPEG    uint32 = 34892
	ccJPEGXL       uint32 = 52546
)

// Version is a four-byte DNG version such as 1.4.0.0.
type Version [4]byte

func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) Less(o Version) bool {
	for i := range v {
		if v[i] != o[i] {
			return v[i] < o[i]
		}
	}
	return false
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v[0], v[1], v[2], v[3])
}

// Newest DNG version this package reads.
var versionCurrent = Version{1, 7, 1, 0}
