package cpp

import (
	"testing"

	"github.com/waylandkit/scribe/ir"
)

func TestCamelCase(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		capitalize bool
		want       string
	}{
		{"plain lower", "greeter", false, "greeter"},
		{"plain capitalized", "greeter", true, "Greeter"},
		{"snake lower", "say_hello", false, "sayHello"},
		{"snake capitalized", "say_hello", true, "SayHello"},
		{"multiple underscores", "wl_data_device_manager", true, "WlDataDeviceManager"},
		{"leading underscore", "_private", false, "Private"},
		{"trailing underscore", "name_", false, "name"},
		{"empty", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CamelCase(tt.in, tt.capitalize)
			if got != tt.want {
				t.Errorf("CamelCase(%q, %v) = %q, want %q", tt.in, tt.capitalize, got, tt.want)
			}
		})
	}
}

func TestStripInterfaceName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		in     string
		want   string
	}{
		{"reserved wl prefix", "", "wl_output", "output"},
		{"reserved qt prefix", "", "qt_surface", "surface"},
		{"no prefix match", "", "xdg_surface", "xdgSurface"},
		{"configured prefix", "zwp_", "zwp_text_input", "textInput"},
		{"configured prefix no match falls back to reserved", "zwp_", "wl_output", "output"},
		{"configured prefix no match at all", "zwp_", "xdg_surface", "xdgSurface"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&ir.Protocol{}, Config{Prefix: tt.prefix})
			got := e.stripInterfaceName(tt.in, false)
			if got != tt.want {
				t.Errorf("stripInterfaceName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Stripping is non-recursive: a second application is the identity.
func TestStripInterfaceNameIdempotent(t *testing.T) {
	names := []string{"wl_output", "qt_surface", "zwp_text_input", "xdg_surface", "greeter"}
	for _, prefix := range []string{"", "zwp_"} {
		e := New(&ir.Protocol{}, Config{Prefix: prefix})
		for _, name := range names {
			once := e.stripInterfaceName(name, false)
			twice := e.stripInterfaceName(once, false)
			if once != twice {
				t.Errorf("prefix %q: strip(strip(%q)) = %q, want %q", prefix, name, twice, once)
			}
		}
	}
}
