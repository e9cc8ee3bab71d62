package types

import (
	"fmt"
	"time"
)

// MetadataRecord is the flat camera/exposure summary extracted from a DNG file.
// Every field has an "absent" sentinel (empty string or zero) instead of a nil state.
type MetadataRecord struct {
	// Make is the camera manufacturer.
	Make string `json:"make"`
	// Model is the camera model name.
	Model string `json:"model"`
	// Software is the software that wrote the file.
	Software string `json:"software"`
	// Artist is the photographer or creator.
	Artist string `json:"artist"`
	// Copyright is the copyright notice.
	Copyright string `json:"copyright"`

	// Width is the rendered (default crop) width, falling back to RawWidth.
	Width uint32 `json:"width"`
	// Height is the rendered (default crop) height, falling back to RawHeight.
	Height uint32 `json:"height"`
	// RawWidth is the width of the stage-1 raw plane.
	RawWidth uint32 `json:"raw_width"`
	// RawHeight is the height of the stage-1 raw plane.
	RawHeight uint32 `json:"raw_height"`

	// ExposureTime is in seconds. Zero means unknown.
	ExposureTime float64 `json:"exposure_time"`
	// FNumber is the aperture f-number. Zero means unknown.
	FNumber float64 `json:"f_number"`
	// FocalLength is in millimeters. Zero means unknown.
	FocalLength float64 `json:"focal_length"`
	// ISO is the first nonzero of ISOSpeed, ISOSpeedRatings[0] and StandardOutputSensitivity.
	ISO uint32 `json:"iso"`
	// FocalLength35mm is the 35mm-equivalent focal length in millimeters.
	FocalLength35mm uint32 `json:"focal_length_35mm"`

	// DateTime is the ISO 8601 modification time. Empty means unknown.
	DateTime string `json:"date_time"`
	// DateTimeOriginal is the ISO 8601 capture time. Empty means unknown.
	DateTimeOriginal string `json:"date_time_original"`

	// IsMonochrome reports a single color channel.
	IsMonochrome bool `json:"is_monochrome"`
	// ColorPlanes is the plane count of the stage-1 image.
	ColorPlanes uint32 `json:"color_planes"`
	// ColorSpace is "Grayscale" for monochrome images and "RGB" otherwise.
	ColorSpace string `json:"color_space"`
}

// ErrorKind classifies why a load failed.
type ErrorKind string

const (
	ErrorKindPathEncoding ErrorKind = "path-encoding"
	ErrorKindIO           ErrorKind = "io"
	ErrorKindBadFormat    ErrorKind = "bad-format"
	ErrorKindSDK          ErrorKind = "sdk"
	ErrorKindUnknown      ErrorKind = "unknown"
)

// LoadError describes a failed load. Code is the numeric DNG error code.
type LoadError struct {
	Kind     ErrorKind `json:"kind"`
	Code     int       `json:"code"`
	CodeName string    `json:"code_name"`
	Path     string    `json:"path,omitempty"`
	Message  string    `json:"message"`
	Err      error     `json:"-"`
}

func (e *LoadError) Error() string {
	line := fmt.Sprintf("failed to read DNG file: error code %d (%s)", e.Code, e.Kind)
	if e.Message != "" {
		line += ": " + e.Message
	}
	return line
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadResult pairs an error classification with the extracted record.
// When Err is non-nil, Record is the zero value and must not be interpreted.
type LoadResult struct {
	Err    *LoadError     `json:"error,omitempty"`
	Record MetadataRecord `json:"record"`
}

// OK reports whether the load succeeded.
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// LoadStep names one stage of the DNG load sequence.
type LoadStep string

const (
	LoadStepOpen      LoadStep = "open"
	LoadStepParse     LoadStep = "parse"
	LoadStepValidate  LoadStep = "validate"
	LoadStepEnhanced  LoadStep = "enhanced"
	LoadStepMask      LoadStep = "mask"
	LoadStepMetadata  LoadStep = "metadata"
	LoadStepPostParse LoadStep = "post-parse"
	LoadStepStage1    LoadStep = "stage1"
	LoadStepDigest    LoadStep = "digest"
	LoadStepExtract   LoadStep = "extract"
)

// LoadEvent reports progress through the load sequence.
type LoadEvent struct {
	// Type is "step", "done" or "error".
	Type    string   `json:"type"`
	Step    LoadStep `json:"step,omitempty"`
	Path    string   `json:"path,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// TagEntry is one TIFF/EXIF tag as listed by the tag dump.
type TagEntry struct {
	IFD   string `json:"ifd"`
	ID    uint16 `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// InspectHistoryEntry is one inspection made through the web inspector.
type InspectHistoryEntry struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	OK        bool      `json:"ok"`
	Kind      ErrorKind `json:"kind,omitempty"`
	Make      string    `json:"make,omitempty"`
	Model     string    `json:"model,omitempty"`
}

// InspectHistory is the persisted list of recent inspections, newest first.
type InspectHistory struct {
	Entries   []InspectHistoryEntry `json:"entries"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FileEntry is one item of a directory listing in the web inspector.
type FileEntry struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	IsDir     bool      `json:"is_dir"`
	Size      int64     `json:"size,omitempty"`
	ModTime   time.Time `json:"mod_time,omitempty"`
	Extension string    `json:"extension,omitempty"`
}
