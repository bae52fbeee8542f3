package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Fepozopo/logostrip/pkg/stdimg"
)

// Kind classifies why a single file failed.
type Kind string

const (
	KindNotFound     Kind = "not-found"
	KindDecode       Kind = "decode"
	KindEmptyContent Kind = "empty-content"
	KindEncode       Kind = "encode"
	KindIO           Kind = "io"
	KindConfig       Kind = "config"
)

// FileError reports a failure for one image. It unwraps to the underlying
// error so errors.Is(err, stdimg.ErrEmptyContent) and
// errors.Is(err, fs.ErrNotExist) keep working.
type FileError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// readError picks the kind for a failure while reading the input.
func readError(path string, err error) *FileError {
	if errors.Is(err, fs.ErrNotExist) {
		return &FileError{Path: path, Kind: KindNotFound, Err: err}
	}
	return &FileError{Path: path, Kind: KindIO, Err: err}
}

// KindOf returns the Kind of err, or "" if err is not a *FileError.
func KindOf(err error) Kind {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, stdimg.ErrEmptyContent) {
		return KindEmptyContent
	}
	return ""
}
