package ir

import "testing"

func TestFindInterface(t *testing.T) {
	p := &Protocol{
		Name: "wayland",
		Interfaces: []Interface{
			{Name: "wl_output"},
			{Name: "wl_seat"},
		},
	}

	if got := p.FindInterface("wl_seat"); got == nil || got.Name != "wl_seat" {
		t.Errorf("FindInterface(wl_seat) = %+v", got)
	}
	if got := p.FindInterface("wl_touch"); got != nil {
		t.Errorf("FindInterface(wl_touch) = %+v, want nil", got)
	}

	// The returned pointer aliases the stored interface.
	p.FindInterface("wl_output").Version = 4
	if p.Interfaces[0].Version != 4 {
		t.Error("FindInterface returned a copy")
	}
}

func TestIsDestructor(t *testing.T) {
	if (&Event{Name: "destroy", Kind: "destructor"}).IsDestructor() != true {
		t.Error("destructor kind not recognized")
	}
	if (&Event{Name: "release"}).IsDestructor() {
		t.Error("plain event treated as destructor")
	}
}

func TestNewIDArg(t *testing.T) {
	ev := &Event{Name: "get_pointer", Request: true, Args: []Argument{
		{Name: "serial", Type: TypeUint},
		{Name: "id", Type: TypeNewID, Interface: "wl_pointer"},
	}}

	got := ev.NewIDArg()
	if got == nil || got.Name != "id" {
		t.Fatalf("NewIDArg = %+v, want the id argument", got)
	}
	if got != &ev.Args[1] {
		t.Error("NewIDArg returned a copy")
	}

	if (&Event{Name: "ping"}).NewIDArg() != nil {
		t.Error("NewIDArg on argless event != nil")
	}
}
