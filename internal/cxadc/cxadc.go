// Package cxadc talks to the cxadc capture driver through its character
// device and its module parameters in sysfs.
package cxadc

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/linuxmatters/leveladj/internal/autolevel"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Default locations used by the driver
const (
	DefaultDevice = "/dev/cxadc0"
	DefaultParams = "/sys/module/cxadc/parameters"
)

// ErrNoParameters is returned when the module parameters cannot be read,
// which usually means the driver is not loaded.
var ErrNoParameters = errors.New("no sysfs parameters")

// Device is the raw sample stream of one capture card
type Device struct {
	Path string
}

// Probe checks that the device node exists and is readable without
// holding it open.
func (d Device) Probe() error {
	if err := unix.Access(d.Path, unix.R_OK); err != nil {
		return errors.WithMessagef(autolevel.ErrDeviceUnavailable, "%s not found: %v", d.Path, err)
	}
	return nil
}

// Open returns a fresh read handle on the device
func (d Device) Open() (io.ReadCloser, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open sample device")
	}
	return f, nil
}

// Params reads and writes the driver's module parameters
type Params struct {
	Dir string
}

// WriteParam stores value as decimal text in the named parameter file
func (p Params) WriteParam(name string, value int) error {
	path := filepath.Join(p.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errors.WithMessagef(autolevel.ErrParameterWriteFailed, "open %s: %v", path, err)
	}

	if _, err := f.WriteString(strconv.Itoa(value)); err != nil {
		f.Close()
		return errors.WithMessagef(autolevel.ErrParameterWriteFailed, "write %s=%d: %v", name, value, err)
	}
	if err := f.Close(); err != nil {
		return errors.WithMessagef(autolevel.ErrParameterWriteFailed, "close %s: %v", path, err)
	}
	return nil
}

// ReadParam returns the current integer value of the named parameter
func (p Params) ReadParam(name string) (int, error) {
	path := filepath.Join(p.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.WithMessagef(ErrNoParameters, "read %s: %v", path, err)
	}

	// Boolean parameters read back as Y/N
	text := strings.TrimSpace(string(data))
	switch text {
	case "Y":
		return 1, nil
	case "N":
		return 0, nil
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.WithMessagef(ErrNoParameters, "parse %s %q: %v", name, text, err)
	}
	return value, nil
}
