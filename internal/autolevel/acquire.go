package autolevel

import (
	"io"

	"github.com/pkg/errors"
)

// SampleSource opens the raw capture stream.
// Each Open must return a fresh handle so that data reflects the level written just before.
type SampleSource interface {
	Open() (io.ReadCloser, error)
}

// ParameterWriter persists a named integer parameter on the capture device
type ParameterWriter interface {
	WriteParam(name string, value int) error
}

// Acquirer reads one fixed-size buffer per iteration into memory it owns.
// The slice returned by Acquire is only valid until the next call.
type Acquirer struct {
	src SampleSource
	buf []byte
}

// NewAcquirer allocates a reusable buffer of budget bytes
func NewAcquirer(src SampleSource, budget int) *Acquirer {
	return &Acquirer{
		src: src,
		buf: make([]byte, budget),
	}
}

// Acquire opens the source, fills the buffer completely and closes the source again.
// Any open failure, read error or short read is reported as ErrDeviceUnavailable.
func (a *Acquirer) Acquire() ([]byte, error) {
	rc, err := a.src.Open()
	if err != nil {
		return nil, errors.WithMessagef(ErrDeviceUnavailable, "open: %v", err)
	}
	defer rc.Close()

	n, err := io.ReadFull(rc, a.buf)
	if err != nil {
		return nil, errors.WithMessagef(ErrDeviceUnavailable, "read %d of %d bytes: %v", n, len(a.buf), err)
	}

	return a.buf, nil
}
