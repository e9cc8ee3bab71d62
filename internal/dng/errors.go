package dng

import (
	"errors"
	"fmt"
)

// Code is a numeric DNG error code. Values match the reference SDK's dng_error_code.
type Code int

const (
	CodeNone              Code = 0
	CodeUnknown           Code = 100000
	CodeNotYetImplemented Code = 100001
	CodeSilent            Code = 100002
	CodeUserCanceled      Code = 100003
	CodeHostInsufficient  Code = 100004
	CodeMemory            Code = 100005
	CodeBadFormat         Code = 100006
	CodeMatrixMath        Code = 100007
	CodeOpenFile          Code = 100008
	CodeReadFile          Code = 100009
	CodeWriteFile         Code = 100010
	CodeEndOfFile         Code = 100011
	CodeFileIsDamaged     Code = 100012
	CodeImageTooBigDNG    Code = 100013
	CodeImageTooBigTIFF   Code = 100014
	CodeUnsupportedDNG    Code = 100015
)

var codeNames = map[Code]string{
	CodeNone:              "none",
	CodeUnknown:           "unknown",
	CodeNotYetImplemented: "not_yet_implemented",
	CodeSilent:            "silent",
	CodeUserCanceled:      "user_canceled",
	CodeHostInsufficient:  "host_insufficient",
	CodeMemory:            "memory",
	CodeBadFormat:         "bad_format",
	CodeMatrixMath:        "matrix_math",
	CodeOpenFile:          "open_file",
	CodeReadFile:          "read_file",
	CodeWriteFile:         "write_file",
	CodeEndOfFile:         "end_of_file",
	CodeFileIsDamaged:     "file_is_damaged",
	CodeImageTooBigDNG:    "image_too_big_dng",
	CodeImageTooBigTIFF:   "image_too_big_tiff",
	CodeUnsupportedDNG:    "unsupported_dng",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code_%d", int(c))
}

// Error is returned by every failing step of the load sequence.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := "dng: " + e.Code.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the Code carried by err, CodeNone for nil and CodeUnknown
// for errors that did not come from this package.
func ErrorCode(err error) Code {
	if err == nil {
		return CodeNone
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnknown
}

func newError(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func badFormat(format string, args ...any) *Error {
	return newError(CodeBadFormat, nil, format, args...)
}
