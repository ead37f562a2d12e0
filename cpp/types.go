package cpp

import "github.com/waylandkit/scribe/ir"

// Role selects the generation mode. It changes type mapping and the
// shape of the emitted classes.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}

// Config carries the generation options shared by all four emitters.
type Config struct {
	Role Role

	// HeaderPath, when set, switches the C-layer includes from a bare
	// quoted include to <HeaderPath/file> form.
	HeaderPath string

	// Prefix is an interface-name prefix to strip, overriding the
	// reserved namespace prefixes.
	Prefix string

	// ExtraIncludes are emitted verbatim as include directives at the
	// top of every artifact.
	ExtraIncludes []string

	// ScannerName, ScannerVersion, and SourcePath feed the provenance
	// comment on the first lines of each artifact.
	ScannerName    string
	ScannerVersion string
	SourcePath     string
}

// cType maps a wire type to the C-ABI-compatible host type for the
// configured role. new_id request arguments get further special casing
// at signature-construction time, not here.
func (e *Emitter) cType(t ir.WireType, iface string) string {
	switch t {
	case ir.TypeString:
		return "const char *"
	case ir.TypeInt:
		return "int32_t"
	case ir.TypeUint:
		return "uint32_t"
	case ir.TypeFixed:
		return "wl_fixed_t"
	case ir.TypeFd:
		return "int32_t"
	case ir.TypeArray:
		return "wl_array *"
	case ir.TypeObject, ir.TypeNewID:
		if e.cfg.Role == RoleServer {
			return "struct ::wl_resource *"
		}
		if iface == "" {
			return "struct ::wl_object *"
		}
		return "struct ::" + iface + " *"
	}
	return string(t)
}

// hostType is cType with strings widened to the ergonomic host string
// reference. Everything else passes through unchanged, fixed values in
// particular stay in their 24.8 wire representation.
func (e *Emitter) hostType(t ir.WireType, iface string) string {
	if t == ir.TypeString {
		return "const std::string &"
	}
	return e.cType(t, iface)
}
