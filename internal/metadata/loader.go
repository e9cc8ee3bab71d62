package metadata

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/On-Jun9/dngprobe/internal/dng"
	"github.com/On-Jun9/dngprobe/pkg/types"
)

var errInvalidPath = errors.New("path is empty, not valid UTF-8, or contains NUL")

// openStream is replaced in tests.
var openStream = dng.OpenFileStream

type Loader struct {
	onProgress ProgressCallback
}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) SetProgressCallback(cb ProgressCallback) {
	l.onProgress = cb
}

// Load reads the DNG file at path and extracts its metadata record. Every
// failure, including a panic inside the DNG layer, is returned as a classified
// LoadError with an empty record.
func Load(path string, ignoreEnhanced bool) types.LoadResult {
	return NewLoader().Load(path, ignoreEnhanced)
}

func (l *Loader) Load(path string, ignoreEnhanced bool) (result types.LoadResult) {
	step := types.LoadStepOpen
	defer func() {
		if r := recover(); r != nil {
			result = l.fail(path, step, fmt.Errorf("panic: %v", r))
		}
	}()

	if !validPath(path) {
		return l.fail(path, step, errInvalidPath)
	}

	l.emit(types.LoadEvent{Type: "step", Step: step, Path: path})
	s, err := openStream(path)
	if err != nil {
		return l.fail(path, step, err)
	}
	defer s.Close()

	neg, err := l.read(path, s, ignoreEnhanced, &step)
	if err != nil {
		return l.fail(path, step, err)
	}

	step = types.LoadStepExtract
	l.emit(types.LoadEvent{Type: "step", Step: step, Path: path})
	rec := Extract(neg)

	l.emit(types.LoadEvent{Type: "done", Path: path, Message: fmt.Sprintf("%s %s", rec.Make, rec.Model)})
	return types.LoadResult{Record: rec}
}

// read runs the load sequence. The order of the steps is fixed: metadata is
// parsed only after the enhanced image and mask are consumed, and the digest
// is checked only after the stage-1 image is read.
func (l *Loader) read(path string, s *dng.Stream, ignoreEnhanced bool, step *types.LoadStep) (*dng.Negative, error) {
	enter := func(st types.LoadStep) {
		*step = st
		l.emit(types.LoadEvent{Type: "step", Step: st, Path: path})
	}

	host := dng.NewHost()
	host.SetPreferredSize(0)
	host.SetMinimumSize(0)
	host.SetMaximumSize(0)
	host.ValidateSizes()
	host.SetSaveDNGVersion(dng.VersionSaveDefault)
	host.SetIgnoreEnhanced(ignoreEnhanced)
	if host.MinimumSize() != 0 {
		host.SetForPreview(true)
	}

	enter(types.LoadStepParse)
	info := dng.NewInfo()
	if err := info.Parse(host, s); err != nil {
		return nil, err
	}
	info.PostParse(host)

	enter(types.LoadStepValidate)
	if !info.IsValidDNG() {
		return nil, &dng.Error{Code: dng.CodeBadFormat, Message: "not a valid DNG file", Err: info.Validate()}
	}

	neg := host.MakeNegative()

	if !host.IgnoreEnhanced() && info.EnhancedIndex != -1 {
		enter(types.LoadStepEnhanced)
		if err := neg.ReadEnhancedImage(host, s, info); err != nil {
			return nil, err
		}
	}
	if info.MaskIndex != -1 {
		enter(types.LoadStepMask)
		if err := neg.ReadTransparencyMask(host, s, info); err != nil {
			return nil, err
		}
	}

	enter(types.LoadStepMetadata)
	if err := neg.Parse(host, s, info); err != nil {
		return nil, err
	}
	enter(types.LoadStepPostParse)
	if err := neg.PostParse(host, s, info); err != nil {
		return nil, err
	}
	enter(types.LoadStepStage1)
	if err := neg.ReadStage1Image(host, s, info); err != nil {
		return nil, err
	}
	enter(types.LoadStepDigest)
	if err := neg.ValidateRawImageDigest(host); err != nil {
		return nil, err
	}

	return neg, nil
}

func validPath(path string) bool {
	return path != "" && utf8.ValidString(path) && !strings.ContainsRune(path, 0)
}

func (l *Loader) fail(path string, step types.LoadStep, err error) types.LoadResult {
	le := classify(err)
	le.Path = path
	l.emit(types.LoadEvent{Type: "error", Step: step, Path: path, Error: le.Error()})
	return types.LoadResult{Err: le}
}

// classify maps an error from the load sequence to its LoadError.
func classify(err error) *types.LoadError {
	le := &types.LoadError{Message: err.Error(), Err: err}

	if errors.Is(err, errInvalidPath) {
		le.Kind = types.ErrorKindPathEncoding
		le.Code = int(dng.CodeReadFile)
		le.CodeName = dng.CodeReadFile.String()
		return le
	}

	var de *dng.Error
	code := dng.CodeUnknown
	if errors.As(err, &de) {
		code = de.Code
	}
	le.Code = int(code)
	le.CodeName = code.String()

	switch code {
	case dng.CodeOpenFile, dng.CodeReadFile, dng.CodeEndOfFile:
		le.Kind = types.ErrorKindIO
	case dng.CodeBadFormat:
		le.Kind = types.ErrorKindBadFormat
	case dng.CodeUnknown:
		le.Kind = types.ErrorKindUnknown
	default:
		le.Kind = types.ErrorKindSDK
	}
	return le
}

func (l *Loader) emit(event types.LoadEvent) {
	if l.onProgress != nil {
		l.onProgress(event)
	}
}
