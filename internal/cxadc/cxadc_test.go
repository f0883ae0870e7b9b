package cxadc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/leveladj/internal/autolevel"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParamsWriteParam(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level"), "16\n")

	p := Params{Dir: dir}
	if err := p.WriteParam("level", 27); err != nil {
		t.Fatalf("WriteParam: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "level"))
	if err != nil {
		t.Fatal(err)
	}
	// sysfs replaces the whole value; a regular file keeps the tail, so only check the prefix
	if !bytes.HasPrefix(data, []byte("27")) {
		t.Errorf("level file = %q, want prefix %q", data, "27")
	}
}

func TestParamsWriteParamMissing(t *testing.T) {
	p := Params{Dir: t.TempDir()}
	err := p.WriteParam("level", 3)
	if !errors.Is(err, autolevel.ErrParameterWriteFailed) {
		t.Errorf("err = %v, want ErrParameterWriteFailed", err)
	}
}

func TestParamsReadParam(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tenbit"), "1\n")
	writeFile(t, filepath.Join(dir, "tenxfsc"), "2")
	writeFile(t, filepath.Join(dir, "flag"), "Y\n")
	writeFile(t, filepath.Join(dir, "garbage"), "abc\n")

	p := Params{Dir: dir}

	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"tenbit", 1, false},
		{"tenxfsc", 2, false},
		{"flag", 1, false},
		{"garbage", 0, true},
		{"missing", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ReadParam(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrNoParameters) {
					t.Errorf("err = %v, want ErrNoParameters", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadParam: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadParam(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestDeviceOpenAndProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cxadc0")
	writeFile(t, path, "\x80\x81\x82")

	d := Device{Path: path}
	if err := d.Probe(); err != nil {
		t.Fatalf("Probe: %v", err)
	}

	rc, err := d.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\x80\x81\x82" {
		t.Errorf("read %q", data)
	}
}

func TestDeviceProbeMissing(t *testing.T) {
	d := Device{Path: filepath.Join(t.TempDir(), "cxadc9")}
	if err := d.Probe(); !errors.Is(err, autolevel.ErrDeviceUnavailable) {
		t.Errorf("Probe err = %v, want ErrDeviceUnavailable", err)
	}
	if _, err := d.Open(); err == nil {
		t.Error("Open of missing device succeeded")
	}
}

func TestSearchAgainstFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level"), "0")
	dev := filepath.Join(dir, "cxadc0")
	writeFile(t, dev, string(bytes.Repeat([]byte{0x80}, autolevel.MinSampleBudget)))

	cfg := autolevel.DefaultConfig()
	cfg.Budget = autolevel.MinSampleBudget
	cfg.Start = 29

	res, err := autolevel.Run(context.Background(), cfg, Params{Dir: dir}, Device{Path: dev}, autolevel.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Level != autolevel.MaxLevel {
		t.Errorf("final level = %d, want %d", res.Level, autolevel.MaxLevel)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "level"))
	if !bytes.HasPrefix(data, []byte("31")) {
		t.Errorf("level file = %q, want 31", data)
	}
}
