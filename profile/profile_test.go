package profile

import "testing"

func TestNew_Options(t *testing.T) {
	cfg := New(
		WithMode("cpu"),
		WithPath("/tmp/vxs"),
		WithQuiet(true),
	)

	want := Config{Mode: "cpu", Path: "/tmp/vxs", Quiet: true}
	if cfg != want {
		t.Errorf("New() = %+v, want %+v", cfg, want)
	}

	// Later options win.
	if got := New(WithMode("cpu"), WithMode("heap")).Mode; got != "heap" {
		t.Errorf("Mode = %q, want heap", got)
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty mode", Config{Quiet: true}},
		{"unknown mode", Config{Mode: "bogus", Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.cfg.Start()
			if _, ok := p.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", p)
			}

			p.Stop()
		})
	}
}

func TestSupported(t *testing.T) {
	for _, m := range Modes() {
		if !Supported(m) {
			t.Errorf("Supported(%q) = false for a listed mode", m)
		}
	}

	if Supported("") {
		t.Error("empty mode reported as supported")
	}
}
