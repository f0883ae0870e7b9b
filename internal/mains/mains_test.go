package mains

import "testing"

func TestRegionForTimezone(t *testing.T) {
	tests := []struct {
		timezone     string
		wantHz       int
		wantStandard string
	}{
		// 50Hz PAL countries
		{"Europe/London", 50, "PAL"},
		{"Europe/Berlin", 50, "PAL"},
		{"Australia/Sydney", 50, "PAL"},
		{"Asia/Shanghai", 50, "PAL"},

		// 60Hz NTSC countries
		{"America/New_York", 60, "NTSC"},
		{"America/Los_Angeles", 60, "NTSC"},
		{"America/Toronto", 60, "NTSC"},
		{"America/Mexico_City", 60, "NTSC"},
		{"Asia/Seoul", 60, "NTSC"},

		// Standard does not follow mains frequency
		{"Asia/Tokyo", 50, "NTSC-J"},
		{"America/Sao_Paulo", 60, "PAL-M"},
		{"Europe/Paris", 50, "SECAM"},

		// Edge cases
		{"UTC", 50, "PAL"},
		{"GMT", 50, "PAL"},
		{"Etc/UTC", 50, "PAL"},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			got := RegionForTimezone(tt.timezone)
			if got.Frequency != tt.wantHz || got.Standard != tt.wantStandard {
				t.Errorf("RegionForTimezone(%q) = %+v, want %d Hz %s", tt.timezone, got, tt.wantHz, tt.wantStandard)
			}
		})
	}
}

func TestRegionString(t *testing.T) {
	r := Region{Frequency: 60, Standard: "NTSC"}
	if got, want := r.String(), "NTSC (60 Hz mains)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLocal(t *testing.T) {
	// Just verify it returns a valid value without panicking
	r := Local()
	if r.Frequency != 50 && r.Frequency != 60 {
		t.Errorf("Local().Frequency = %d, want 50 or 60", r.Frequency)
	}
	if r.Standard == "" {
		t.Error("Local().Standard is empty")
	}
}
