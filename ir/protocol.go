// Package ir defines the in-memory protocol model built from a wayland
// protocol description. The model is immutable once the provider returns
// it; every emitter reads from the same tree.
package ir

// WireType is a wire-level argument type as it appears in the protocol
// description.
type WireType string

const (
	TypeInt    WireType = "int"
	TypeUint   WireType = "uint"
	TypeFixed  WireType = "fixed"
	TypeFd     WireType = "fd"
	TypeString WireType = "string"
	TypeArray  WireType = "array"
	TypeObject WireType = "object"
	TypeNewID  WireType = "new_id"
)

// Protocol is the root of the model: a named, ordered collection of
// interfaces.
type Protocol struct {
	Name       string
	Interfaces []Interface
}

// FindInterface looks up an interface by its wire name. Returns nil if
// not found.
func (p *Protocol) FindInterface(name string) *Interface {
	for i := range p.Interfaces {
		if p.Interfaces[i].Name == name {
			return &p.Interfaces[i]
		}
	}
	return nil
}

// Interface is the unit of binding: a named, versioned group of enums,
// events, and requests.
type Interface struct {
	Name    string
	Version int

	Enums    []Enum
	Events   []Event
	Requests []Event
}

// Enum is a named group of integer constants. Entry names are namespaced
// by the enum name when rendered.
type Enum struct {
	Name    string
	Entries []EnumEntry
}

// EnumEntry is a single enum constant. Value is kept as the literal text
// from the description and passed through verbatim.
type EnumEntry struct {
	Name    string
	Value   string
	Summary string
}

// Event describes both requests and events; Request distinguishes the
// two. Kind carries the optional "type" tag from the description; the
// only recognized value is "destructor".
type Event struct {
	Name    string
	Kind    string
	Request bool
	Args    []Argument
}

// IsDestructor reports whether this is a request that ends the object's
// lifetime.
func (e *Event) IsDestructor() bool {
	return e.Kind == "destructor"
}

// NewIDArg returns the event's new_id argument, or nil if it has none.
// A well-formed event carries at most one.
func (e *Event) NewIDArg() *Argument {
	for i := range e.Args {
		if e.Args[i].Type == TypeNewID {
			return &e.Args[i]
		}
	}
	return nil
}

// Argument is a single request/event argument. Interface names the
// concrete interface a new_id/object argument is bound to; empty means
// generic/dynamic. Cross-interface references are not validated here.
type Argument struct {
	Name      string
	Type      WireType
	Interface string
	Summary   string
	AllowNull bool
}
