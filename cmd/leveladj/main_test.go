package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/linuxmatters/leveladj/internal/autolevel"
	"github.com/linuxmatters/leveladj/internal/cxadc"
)

func parse(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	c := &CLI{}
	parser, err := newParser(c, kong.Exit(func(int) {}), kong.Writers(&bytes.Buffer{}, &bytes.Buffer{}))
	if err != nil {
		t.Fatalf("newParser: %v", err)
	}
	_, err = parser.Parse(args)
	return c, err
}

func TestParseDefaults(t *testing.T) {
	c, err := parse(t)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if c.Device != cxadc.DefaultDevice {
		t.Errorf("Device = %q, want %q", c.Device, cxadc.DefaultDevice)
	}
	if c.Sysfs != cxadc.DefaultParams {
		t.Errorf("Sysfs = %q, want %q", c.Sysfs, cxadc.DefaultParams)
	}
	if got := c.searchConfig(); got != autolevel.DefaultConfig() {
		t.Errorf("searchConfig() = %+v, want %+v", got, autolevel.DefaultConfig())
	}
	if c.Pace != 100*time.Millisecond {
		t.Errorf("Pace = %v, want 100ms", c.Pace)
	}
	if c.Level != nil {
		t.Errorf("Level = %d, want unset", *c.Level)
	}
}

func TestParseFlags(t *testing.T) {
	c, err := parse(t, "-b", "-x", "2", "-g", "--start", "5", "--samples", "400000", "17")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if c.depth() != autolevel.TenBit {
		t.Errorf("depth = %v, want 10-bit", c.depth())
	}
	if c.Tenxfsc != 2 || !c.Graph || c.Start != 5 || c.Samples != 400000 {
		t.Errorf("parsed %+v", c)
	}
	if c.Level == nil || *c.Level != 17 {
		t.Errorf("Level = %v, want 17", c.Level)
	}
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("LEVELADJ_DEVICE", "/dev/cxadc1")
	t.Setenv("LEVELADJ_TENBIT", "true")

	c, err := parse(t)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.Device != "/dev/cxadc1" {
		t.Errorf("Device = %q, want /dev/cxadc1", c.Device)
	}
	if !c.TenBit {
		t.Error("TenBit not taken from environment")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"level too high", []string{"32"}},
		{"negative level", []string{"--", "-1"}},
		{"tenxfsc out of range", []string{"-x", "3"}},
		{"start out of range", []string{"--start", "40"}},
		{"sample budget too small", []string{"--samples", "1000"}},
		{"odd budget in 10-bit mode", []string{"-b", "--samples", "200001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(t, tt.args...); err == nil {
				t.Errorf("Parse(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestInheritParams(t *testing.T) {
	dir := t.TempDir()
	for name, value := range map[string]string{"tenbit": "1\n", "tenxfsc": "2\n"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := &CLI{}
	if err := c.inheritParams(cxadc.Params{Dir: dir}); err != nil {
		t.Fatalf("inheritParams() error: %v", err)
	}
	if !c.TenBit || c.Tenxfsc != 2 {
		t.Errorf("inherited tenbit=%v tenxfsc=%d, want true 2", c.TenBit, c.Tenxfsc)
	}

	if err := (&CLI{}).inheritParams(cxadc.Params{Dir: filepath.Join(dir, "missing")}); err == nil {
		t.Error("inheritParams() on missing directory succeeded")
	}
}

func TestHelpOutput(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{}
	parser, err := newParser(c, kong.Exit(func(int) {}), kong.Writers(&out, &out))
	if err != nil {
		t.Fatalf("newParser: %v", err)
	}
	_, _ = parser.Parse([]string{"--help"})

	help := out.String()
	for _, want := range []string{"leveladj", "--tenxfsc=N", "--device=PATH", "/dev/cxadc0", "LEVELADJ_DEVICE", "Sample rates:", "native * 1.4"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}
