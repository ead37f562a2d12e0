package cpp

import (
	"bytes"
	"fmt"

	"github.com/waylandkit/scribe/ir"
)

// newIDReturnType is the return type of a request-wrapper method: the
// concrete bound type when the request creates an object, the untyped
// pointer when the type is dynamic, void otherwise.
func newIDReturnType(newID *ir.Argument) string {
	if newID == nil {
		return "void "
	}
	if newID.Interface == "" {
		return "void *"
	}
	return "struct ::" + newID.Interface + " *"
}

// clientHeader declares, per interface, the proxy wrapper class: three
// constructors, init overloads, raw-proxy accessors, the fromObject
// recovery factory, one method per request, and one virtual
// event-handler stub per event.
func (e *Emitter) clientHeader(head *bytes.Buffer) {
	head.WriteString(e.includeLine(e.includeBase() + "-client.h"))
	head.WriteString("struct wl_registry;\n")
	head.WriteString("\n")

	head.WriteString("\n")
	head.WriteString("namespace Wayland {\n")
	head.WriteString("namespace Client {\n")

	needsNewLine := false
	for i := range e.proto.Interfaces {
		iface := &e.proto.Interfaces[i]
		if !e.shouldEmit(iface.Name) {
			continue
		}

		if needsNewLine {
			head.WriteString("\n")
		}
		needsNewLine = true

		ifaceName := CamelCase(iface.Name, true)

		fmt.Fprintf(head, "    class %s\n    {\n", ifaceName)
		head.WriteString("    public:\n")
		fmt.Fprintf(head, "        %s(struct ::wl_registry *registry, uint32_t id, int version);\n", ifaceName)
		fmt.Fprintf(head, "        %s(struct ::%s *object);\n", ifaceName, iface.Name)
		fmt.Fprintf(head, "        %s();\n", ifaceName)
		head.WriteString("\n")
		fmt.Fprintf(head, "        virtual ~%s();\n", ifaceName)
		head.WriteString("\n")
		head.WriteString("        void init(struct ::wl_registry *registry, uint32_t id, int version);\n")
		fmt.Fprintf(head, "        void init(struct ::%s *object);\n", iface.Name)
		head.WriteString("\n")
		fmt.Fprintf(head, "        struct ::%s *object() { return m_%s; }\n", iface.Name, iface.Name)
		fmt.Fprintf(head, "        const struct ::%s *object() const { return m_%s; }\n", iface.Name, iface.Name)
		fmt.Fprintf(head, "        static %s *fromObject(struct ::%s *object);\n", ifaceName, iface.Name)
		head.WriteString("\n")
		head.WriteString("        bool isInitialized() const;\n")
		head.WriteString("\n")
		head.WriteString("        uint32_t version() const;")
		head.WriteString("\n")
		head.WriteString("        static const struct ::wl_interface *interface();\n")

		printEnums(head, iface.Enums)

		if len(iface.Requests) > 0 {
			head.WriteString("\n")
			for j := range iface.Requests {
				req := &iface.Requests[j]
				fmt.Fprintf(head, "        %s", newIDReturnType(req.NewIDArg()))
				e.printEvent(head, req, eventOpts{})
				head.WriteString(";\n")
			}
		}

		hasEvents := len(iface.Events) > 0

		if hasEvents {
			head.WriteString("\n")
			head.WriteString("    protected:\n")
			for j := range iface.Events {
				head.WriteString("        virtual void ")
				e.printEvent(head, &iface.Events[j], eventOpts{})
				head.WriteString(";\n")
			}
		}

		head.WriteString("\n")
		head.WriteString("    private:\n")

		if hasEvents {
			head.WriteString("        void init_listener();\n")
			fmt.Fprintf(head, "        static const struct %s_listener m_%s_listener;\n", iface.Name, iface.Name)
			for j := range iface.Events {
				head.WriteString("        static void ")
				e.printEventHandlerSignature(head, &iface.Events[j], iface.Name)
				head.WriteString(";\n")
			}
		}

		fmt.Fprintf(head, "        struct ::%s *m_%s;\n", iface.Name, iface.Name)
		head.WriteString("    };\n")
	}
	head.WriteString("}\n")
	head.WriteString("}\n")
	head.WriteString("\n")
}

// clientSource implements the proxy wrappers. The registry bind helper
// is the one operation the external C layer does not cover, so it is
// emitted once on top of the low-level marshalling primitive and shared
// by every interface.
func (e *Emitter) clientSource(code *bytes.Buffer) {
	code.WriteString(e.includeLine(e.includeBase() + "-client.h"))
	code.WriteString(e.includeLine(e.includeBase() + "-client.hpp"))

	code.WriteString("\n")

	code.WriteString("static inline void *wlRegistryBind(struct ::wl_registry *registry, uint32_t name, const struct ::wl_interface *interface, uint32_t version) {\n")
	code.WriteString("    const uint32_t bindOpCode = 0;\n")
	code.WriteString("    return (void *) wl_proxy_marshal_constructor_versioned((struct wl_proxy *) registry, ")
	code.WriteString(" bindOpCode, interface, version, name, interface->name, version, nullptr);\n")
	code.WriteString("}\n")
	code.WriteString("\n")

	needsNewLine := false
	for i := range e.proto.Interfaces {
		iface := &e.proto.Interfaces[i]
		if !e.shouldEmit(iface.Name) {
			continue
		}

		if needsNewLine {
			code.WriteString("\n")
		}
		needsNewLine = true

		ifaceName := CamelCase(iface.Name, true)
		hasEvents := len(iface.Events) > 0

		fmt.Fprintf(code, "Wayland::Client::%s::%s(struct ::wl_registry *registry, uint32_t id, int version) {\n", ifaceName, ifaceName)
		code.WriteString("    init(registry, id, version);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Client::%s::%s(struct ::%s *obj)\n", ifaceName, ifaceName, iface.Name)
		fmt.Fprintf(code, "    : m_%s(obj) {\n", iface.Name)
		if hasEvents {
			code.WriteString("    init_listener();\n")
		}
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Client::%s::%s()\n", ifaceName, ifaceName)
		fmt.Fprintf(code, "    : m_%s(nullptr) {\n", iface.Name)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Client::%s::~%s() {\n", ifaceName, ifaceName)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Client::%s::init(struct ::wl_registry *registry, uint32_t id, int version) {\n", ifaceName)
		fmt.Fprintf(code, "    m_%s = static_cast<struct ::%s *>(wlRegistryBind(registry, id, &%s_interface, version));\n", iface.Name, iface.Name, iface.Name)
		if hasEvents {
			code.WriteString("    init_listener();\n")
		}
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Client::%s::init(struct ::%s *obj) {\n", ifaceName, iface.Name)
		fmt.Fprintf(code, "    m_%s = obj;\n", iface.Name)
		if hasEvents {
			code.WriteString("    init_listener();\n")
		}
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Client::%s *Wayland::Client::%s::fromObject(struct ::%s *object) {\n", ifaceName, ifaceName, iface.Name)
		if hasEvents {
			fmt.Fprintf(code, "    if (wl_proxy_get_listener((struct ::wl_proxy *)object) != (void *)&m_%s_listener)\n", iface.Name)
			code.WriteString("        return nullptr;\n")
		}
		fmt.Fprintf(code, "    return static_cast<Wayland::Client::%s *>(%s_get_user_data(object));\n", ifaceName, iface.Name)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "bool Wayland::Client::%s::isInitialized() const {\n", ifaceName)
		fmt.Fprintf(code, "    return m_%s != nullptr;\n", iface.Name)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "uint32_t Wayland::Client::%s::version() const {\n", ifaceName)
		fmt.Fprintf(code, "    return wl_proxy_get_version(reinterpret_cast<wl_proxy*>(m_%s));\n", iface.Name)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "const struct wl_interface *Wayland::Client::%s::interface() {\n", ifaceName)
		fmt.Fprintf(code, "    return &::%s_interface;\n", iface.Name)
		code.WriteString("}\n")

		for j := range iface.Requests {
			req := &iface.Requests[j]
			code.WriteString("\n")
			newID := req.NewIDArg()

			fmt.Fprintf(code, "%sWayland::Client::%s::", newIDReturnType(newID), ifaceName)
			e.printEvent(code, req, eventOpts{})
			code.WriteString(" {\n")

			printArrayDescriptors(code, req)

			ret := ""
			if newID != nil {
				ret = "return "
			}
			fmt.Fprintf(code, "    %s::%s_%s( ", ret, iface.Name, req.Name)

			argCount := len(req.Args)
			if newID != nil {
				argCount--
			}
			fmt.Fprintf(code, "m_%s", iface.Name)
			if argCount > 0 {
				code.WriteString(", ")
			}

			needsComma := false
			for k := range req.Args {
				a := &req.Args[k]
				isNewID := a.Type == ir.TypeNewID

				if isNewID && a.Interface != "" {
					continue
				}

				if needsComma {
					code.WriteString(", ")
				}
				needsComma = true

				if isNewID {
					code.WriteString("interface, version")
					continue
				}

				switch a.Type {
				case ir.TypeString:
					fmt.Fprintf(code, "%s.c_str()", a.Name)
				case ir.TypeArray:
					fmt.Fprintf(code, "&%s_data", a.Name)
				default:
					code.WriteString(a.Name)
				}
			}
			code.WriteString(" );\n")

			if req.IsDestructor() {
				fmt.Fprintf(code, "    m_%s = nullptr;\n", iface.Name)
			}

			code.WriteString("}\n")
		}

		if hasEvents {
			code.WriteString("\n")
			for j := range iface.Events {
				ev := &iface.Events[j]
				fmt.Fprintf(code, "void Wayland::Client::%s::", ifaceName)
				e.printEvent(code, ev, eventOpts{omitNames: true})
				code.WriteString(" {\n")
				code.WriteString("}\n")
				code.WriteString("\n")
				fmt.Fprintf(code, "void Wayland::Client::%s::", ifaceName)
				e.printEventHandlerSignature(code, ev, iface.Name)
				code.WriteString(" {\n")
				fmt.Fprintf(code, "    static_cast<Wayland::Client::%s *>(data)->%s( ", ifaceName, CamelCase(ev.Name, false))
				for k := range ev.Args {
					a := &ev.Args[k]
					if k > 0 {
						code.WriteString(", ")
					}
					argName := CamelCase(a.Name, false)
					if a.Type == ir.TypeString {
						fmt.Fprintf(code, "std::string(%s)", argName)
					} else {
						code.WriteString(argName)
					}
				}
				code.WriteString(" );\n")
				code.WriteString("}\n")
				code.WriteString("\n")
			}

			fmt.Fprintf(code, "const struct %s_listener Wayland::Client::%s::m_%s_listener = {\n", iface.Name, ifaceName, iface.Name)
			for j := range iface.Events {
				fmt.Fprintf(code, "    Wayland::Client::%s::handle%s,\n", ifaceName, CamelCase(iface.Events[j].Name, true))
			}
			code.WriteString("};\n")
			code.WriteString("\n")

			fmt.Fprintf(code, "void Wayland::Client::%s::init_listener() {\n", ifaceName)
			fmt.Fprintf(code, "    %s_add_listener(m_%s, &m_%s_listener, this);\n", iface.Name, iface.Name, iface.Name)
			code.WriteString("}\n")
		}
	}
	code.WriteString("\n")
}
