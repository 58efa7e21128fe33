package options

import (
	"flag"
	"testing"
)

func parse(t *testing.T, args ...string) *Options {
	t.Helper()
	fs := flag.NewFlagSet("noisebox", flag.ContinueOnError)
	o := Register(fs, "https://example.com/noise3D.glsl")
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestDefaults(t *testing.T) {
	o := parse(t)
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if *o.Width != 1280 || *o.Height != 720 || *o.Layers != 32 || *o.Record {
		t.Fatalf("unexpected defaults: %dx%d layers=%d record=%v", *o.Width, *o.Height, *o.Layers, *o.Record)
	}
	if *o.NoiseURL != "https://example.com/noise3D.glsl" {
		t.Fatalf("noise url = %q", *o.NoiseURL)
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		ok   bool
	}{
		{"zero width", []string{"-width", "0"}, false},
		{"no layers", []string{"-layers", "0"}, false},
		{"empty url", []string{"-noise-url", ""}, false},
		{"record ok", []string{"-record", "-duration", "2", "-fps", "30"}, true},
		{"record zero fps", []string{"-record", "-fps", "0"}, false},
		{"record no output", []string{"-record", "-output", ""}, false},
		{"zero fps without record", []string{"-fps", "0"}, true},
	} {
		err := parse(t, tc.args...).Validate()
		if (err == nil) != tc.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestFrameCount(t *testing.T) {
	o := parse(t, "-duration", "2.5", "-fps", "24")
	if n := o.FrameCount(); n != 60 {
		t.Fatalf("FrameCount = %d, want 60", n)
	}
}
