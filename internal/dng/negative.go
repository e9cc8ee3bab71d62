package dng

import (
	"fmt"
)

// Negative is the primary image object built from a parsed Info.
type Negative struct {
	host *Host

	exif       *Exif
	xmp        []byte
	xmpSynced  bool
	monochrome bool
	channels   uint32

	cropH URational
	cropV URational

	rawDigest    []byte
	newRawDigest []byte
	digestStatus DigestStatus

	stage1   *Image
	enhanced *Image
	mask     *Image

	warnings []string
}

func newNegative(host *Host) *Negative {
	return &Negative{host: host, digestStatus: DigestAbsent}
}

// ReadEnhancedImage reads the geometry of the enhanced image directory.
func (n *Negative) ReadEnhancedImage(host *Host, s *Stream, info *Info) error {
	if info.EnhancedIndex < 0 {
		return nil
	}
	im, err := readImage(s, info.Order, info.IFDs[info.EnhancedIndex], false)
	if err != nil {
		return fmt.Errorf("enhanced image: %w", err)
	}
	n.enhanced = im
	return nil
}

// ReadTransparencyMask reads and unpacks the transparency mask.
func (n *Negative) ReadTransparencyMask(host *Host, s *Stream, info *Info) error {
	if info.MaskIndex < 0 {
		return nil
	}
	im, err := readImage(s, info.Order, info.IFDs[info.MaskIndex], true)
	if err != nil {
		return fmt.Errorf("transparency mask: %w", err)
	}
	n.mask = im
	return nil
}

// Parse builds the canonical metadata view and reads the per-image DNG
// fields of the main IFD and IFD0.
func (n *Negative) Parse(host *Host, s *Stream, info *Info) error {
	if info.MainIndex < 0 {
		return badFormat("no main image")
	}

	if info.exif != nil {
		if err := loadExtraExifTags(s, info.exif); err != nil {
			n.warnings = append(n.warnings, err.Error())
		}
		n.exif = exifFromTags(info.exif)
	}
	n.xmp = info.Shared.XMP

	main := info.IFDs[info.MainIndex]
	n.channels = main.colorChannels()
	n.monochrome = n.channels == 1

	// DefaultCropSize may sit on the raw IFD or, in older writers, on IFD0.
	for _, ifd := range []*IFD{main, info.IFDs[0]} {
		if ifd.count(tagDefaultCropSize) == 2 {
			n.cropH, _ = ifd.getRational(tagDefaultCropSize, 0)
			n.cropV, _ = ifd.getRational(tagDefaultCropSize, 1)
			break
		}
	}

	n.rawDigest = info.Shared.RawImageDigest
	n.newRawDigest = info.Shared.NewRawImageDigest
	if n.rawDigest != nil && len(n.rawDigest) != 16 {
		return badFormat("RawImageDigest has %d bytes", len(n.rawDigest))
	}
	return nil
}

// PostParse fills defaults that depend on the main image geometry.
func (n *Negative) PostParse(host *Host, s *Stream, info *Info) error {
	main := info.IFDs[info.MainIndex]
	if !n.cropH.IsValid() || n.cropH.N == 0 {
		n.cropH = URational{N: main.Width, D: 1}
	}
	if !n.cropV.IsValid() || n.cropV.N == 0 {
		n.cropV = URational{N: main.Length, D: 1}
	}
	return nil
}

// ReadStage1Image reads the main raw image. Samples are unpacked only when
// they are needed to check a legacy digest.
func (n *Negative) ReadStage1Image(host *Host, s *Stream, info *Info) error {
	decode := n.rawDigest != nil && !host.ForPreview()
	im, err := readImage(s, info.Order, info.IFDs[info.MainIndex], decode)
	if err != nil {
		return fmt.Errorf("stage 1 image: %w", err)
	}
	n.stage1 = im
	return nil
}

// ValidateRawImageDigest checks the legacy RawImageDigest against the decoded
// stage-1 samples. A mismatch fails with CodeFileIsDamaged. Digests that cannot
// be recomputed here are recorded as unverified.
func (n *Negative) ValidateRawImageDigest(host *Host) error {
	switch {
	case n.rawDigest == nil && n.newRawDigest == nil:
		n.digestStatus = DigestAbsent
	case n.rawDigest != nil && n.stage1 != nil && n.stage1.HasPixels():
		if err := checkDigest(n.rawDigest, n.stage1); err != nil {
			return err
		}
		n.digestStatus = DigestVerified
	default:
		n.digestStatus = DigestUnverified
	}
	return nil
}

// SynchronizeMetadata reconciles the XMP packet into the EXIF view. Values
// already present in EXIF are kept. It is safe to call more than once.
func (n *Negative) SynchronizeMetadata() {
	if n.xmpSynced {
		return
	}
	n.xmpSynced = true
	if len(n.xmp) == 0 {
		return
	}
	props, err := parseXMP(n.xmp)
	if err != nil {
		n.warnings = append(n.warnings, "xmp: "+err.Error())
	}
	if n.exif == nil {
		n.exif = &Exif{}
	}
	mergeXMP(n.exif, props)
}

// Exif returns the canonical metadata view, or nil when the file had none.
func (n *Negative) Exif() *Exif {
	return n.exif
}

func (n *Negative) DefaultCropSizeH() URational { return n.cropH }
func (n *Negative) DefaultCropSizeV() URational { return n.cropV }

func (n *Negative) Stage1Image() *Image        { return n.stage1 }
func (n *Negative) EnhancedImage() *Image      { return n.enhanced }
func (n *Negative) TransparencyMask() *Image   { return n.mask }
func (n *Negative) IsMonochrome() bool         { return n.monochrome }
func (n *Negative) ColorChannels() uint32      { return n.channels }
func (n *Negative) DigestStatus() DigestStatus { return n.digestStatus }

// Warnings lists non-fatal problems met while loading.
func (n *Negative) Warnings() []string {
	return n.warnings
}
