// Package cpp emits the C++ wrapper classes for a protocol model. Four
// structurally related artifacts are produced from the same immutable
// model: a header/source pair per role. The emitters share the
// signature-printing helpers in this file and differ in class shape and
// dispatch strategy.
package cpp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/waylandkit/scribe/ir"
)

// Interfaces intrinsic to the transport. The display interface is always
// supplied by the transport library; the registry is as well, but only
// on the server side.
const (
	displayInterface  = "wl_display"
	registryInterface = "wl_registry"
)

// Emitter renders generation artifacts for one protocol and one role.
// It holds no mutable state across artifacts; the same Emitter may
// render header and source in any order.
type Emitter struct {
	proto *ir.Protocol
	cfg   Config
}

// New returns an emitter for proto with the given options.
func New(proto *ir.Protocol, cfg Config) *Emitter {
	return &Emitter{proto: proto, cfg: cfg}
}

// Header renders the header artifact for the configured role.
func (e *Emitter) Header() []byte {
	var buf bytes.Buffer
	e.writeFileHeader(&buf, true)
	if e.cfg.Role == RoleServer {
		e.serverHeader(&buf)
	} else {
		e.clientHeader(&buf)
	}
	return buf.Bytes()
}

// Source renders the source artifact for the configured role.
func (e *Emitter) Source() []byte {
	var buf bytes.Buffer
	e.writeFileHeader(&buf, false)
	if e.cfg.Role == RoleServer {
		e.serverSource(&buf)
	} else {
		e.clientSource(&buf)
	}
	return buf.Bytes()
}

// shouldEmit applies the interface filter: the display interface is
// never emitted, the registry interface only for client generation.
func (e *Emitter) shouldEmit(name string) bool {
	if name == displayInterface {
		return false
	}
	if name == registryInterface && e.cfg.Role == RoleServer {
		return false
	}
	return true
}

// includeBase is the protocol name as it appears in C-layer include
// paths, with underscores dashed so the preprocessor is never exposed
// to them.
func (e *Emitter) includeBase() string {
	return strings.ReplaceAll(e.proto.Name, "_", "-")
}

// includeLine renders one include directive for a generated C-layer
// file, honoring the configured header search path.
func (e *Emitter) includeLine(file string) string {
	if e.cfg.HeaderPath == "" {
		return fmt.Sprintf("#include %q\n", file)
	}
	return fmt.Sprintf("#include <%s/%s>\n", e.cfg.HeaderPath, file)
}

// writeFileHeader emits the provenance comment, the header guard, and
// the common includes every artifact starts with.
func (e *Emitter) writeFileHeader(buf *bytes.Buffer, isHeader bool) {
	fmt.Fprintf(buf, "// This file was generated by %s %s\n", e.cfg.ScannerName, e.cfg.ScannerVersion)
	fmt.Fprintf(buf, "// Source: %s\n\n", e.cfg.SourcePath)

	if isHeader {
		buf.WriteString("#pragma once\n")
		buf.WriteString("\n")
	}

	for _, inc := range e.cfg.ExtraIncludes {
		fmt.Fprintf(buf, "#include <%s>\n", inc)
	}
	buf.WriteString("#include <string>\n")
}

// eventOpts controls signature printing. omitNames drops parameter
// names (declaration-only contexts), withResource selects the explicit
// send overload taking the raw binding handle, capitalize seeds the
// method-name case.
type eventOpts struct {
	omitNames    bool
	withResource bool
	capitalize   bool
}

// printEvent writes `name( parameters )` for a request or event, with
// the role-dependent new_id treatment applied at this level:
//   - server request: the new_id degrades to a plain uint32_t id;
//   - client request with an unbound new_id: the argument is replaced by
//     synthesized interface/version parameters;
//   - client event: the new_id surfaces as the concrete object pointer.
func (e *Emitter) printEvent(buf *bytes.Buffer, ev *ir.Event, opts eventOpts) {
	fmt.Fprintf(buf, "%s( ", CamelCase(ev.Name, opts.capitalize))
	needsComma := false

	if e.cfg.Role == RoleServer {
		if ev.Request {
			if opts.omitNames {
				buf.WriteString("Resource *")
			} else {
				buf.WriteString("Resource *resource")
			}
			needsComma = true
		} else if opts.withResource {
			if opts.omitNames {
				buf.WriteString("struct ::wl_resource *")
			} else {
				buf.WriteString("struct ::wl_resource *resource")
			}
			needsComma = true
		}
	}

	for i := range ev.Args {
		a := &ev.Args[i]
		isNewID := a.Type == ir.TypeNewID

		// Client side: a bound new_id in a request is the return value,
		// an unbound one in an event never occurs in a signature.
		if isNewID && e.cfg.Role == RoleClient && (a.Interface == "") != ev.Request {
			continue
		}

		if needsComma {
			buf.WriteString(", ")
		}
		needsComma = true

		if isNewID {
			if e.cfg.Role == RoleServer {
				if ev.Request {
					buf.WriteString("uint32_t")
					if !opts.omitNames {
						buf.WriteString(" " + a.Name)
					}
					continue
				}
			} else if ev.Request {
				if opts.omitNames {
					buf.WriteString("const struct ::wl_interface *, uint32_t")
				} else {
					buf.WriteString("const struct ::wl_interface *interface, uint32_t version")
				}
				continue
			}
		}

		t := e.hostType(a.Type, a.Interface)
		sep := " "
		if strings.HasSuffix(t, "&") || strings.HasSuffix(t, "*") {
			sep = ""
		}
		if opts.omitNames {
			fmt.Fprintf(buf, "%s", t)
		} else {
			fmt.Fprintf(buf, "%s%s%s", t, sep, a.Name)
		}
	}
	buf.WriteString(" )")
}

// printEventHandlerSignature writes the static trampoline signature the
// transport invokes: wl_client/wl_resource leading parameters on the
// server, user-data/proxy on the client, then the C-typed arguments.
func (e *Emitter) printEventHandlerSignature(buf *bytes.Buffer, ev *ir.Event, interfaceName string) {
	fmt.Fprintf(buf, "handle%s( ", CamelCase(ev.Name, true))

	if e.cfg.Role == RoleServer {
		buf.WriteString("::wl_client *, ")
		buf.WriteString("struct wl_resource *resource")
	} else {
		buf.WriteString("void *data, ")
		fmt.Fprintf(buf, "struct ::%s *", interfaceName)
	}

	for i := range ev.Args {
		a := &ev.Args[i]
		buf.WriteString(", ")

		argName := CamelCase(a.Name, false)
		if e.cfg.Role == RoleServer && a.Type == ir.TypeNewID {
			fmt.Fprintf(buf, "uint32_t %s", argName)
			continue
		}

		t := e.cType(a.Type, a.Interface)
		sep := " "
		if strings.HasSuffix(t, "*") {
			sep = ""
		}
		fmt.Fprintf(buf, "%s%s%s", t, sep, argName)
	}
	buf.WriteString(" )")
}

// printEnums emits one enum-class declaration per protocol enum, entry
// names namespaced by the enum name, summaries as trailing comments.
func printEnums(buf *bytes.Buffer, enums []ir.Enum) {
	for _, en := range enums {
		buf.WriteString("\n")
		fmt.Fprintf(buf, "        enum class %s {\n", en.Name)
		for _, entry := range en.Entries {
			fmt.Fprintf(buf, "            %s_%s = %s,", en.Name, entry.Name, entry.Value)
			if entry.Summary != "" {
				fmt.Fprintf(buf, " // %s", entry.Summary)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("        };\n")
	}
}

// printArrayDescriptors builds one ephemeral wl_array per array-typed
// argument, in argument order, immediately before a wire-send call.
func printArrayDescriptors(buf *bytes.Buffer, ev *ir.Event) {
	for i := range ev.Args {
		a := &ev.Args[i]
		if a.Type != ir.TypeArray {
			continue
		}
		fmt.Fprintf(buf, "    struct wl_array %s_data;\n", a.Name)
		fmt.Fprintf(buf, "    %s_data.size = %s.size();\n", a.Name, a.Name)
		fmt.Fprintf(buf, "    %s_data.data = static_cast<void *>(const_cast<char *>(%s.constData()));\n", a.Name, a.Name)
		fmt.Fprintf(buf, "    %s_data.alloc = 0;\n", a.Name)
		buf.WriteString("\n")
	}
}
