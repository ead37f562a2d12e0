package cpp

import (
	"bytes"
	"fmt"

	"github.com/waylandkit/scribe/ir"
)

// serverHeader declares, per interface, the wrapper class with its
// nested per-client Resource record, the binding registry, the send
// overloads, and the virtual request stubs.
func (e *Emitter) serverHeader(head *bytes.Buffer) {
	head.WriteString("#include \"wayland-server-core.h\"\n")
	head.WriteString(e.includeLine(e.includeBase() + "-server.h"))
	head.WriteString("\n")

	head.WriteString("#include <iostream>\n")
	head.WriteString("#include <map>\n")
	head.WriteString("#include <string>\n")
	head.WriteString("#include <utility>\n")

	head.WriteString("\n")
	head.WriteString("\n")
	head.WriteString("namespace Wayland {\n")
	head.WriteString("namespace Server {\n")

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
		stripped := e.stripInterfaceName(iface.Name, false)

		fmt.Fprintf(head, "    class %s {\n", ifaceName)
		head.WriteString("    public:\n")
		fmt.Fprintf(head, "        %s(struct ::wl_client *client, uint32_t id, int version);\n", ifaceName)
		fmt.Fprintf(head, "        %s(struct ::wl_display *display, int version);\n", ifaceName)
		fmt.Fprintf(head, "        %s(struct ::wl_resource *resource);\n", ifaceName)
		fmt.Fprintf(head, "        %s();\n", ifaceName)
		head.WriteString("\n")
		fmt.Fprintf(head, "        virtual ~%s();\n", ifaceName)
		head.WriteString("\n")
		head.WriteString("        class Resource {\n")
		head.WriteString("        public:\n")
		fmt.Fprintf(head, "            Resource() : %sObject(nullptr), handle(nullptr) {}\n", stripped)
		head.WriteString("            virtual ~Resource() {}\n")
		head.WriteString("\n")
		fmt.Fprintf(head, "            %s *%sObject;\n", ifaceName, stripped)
		fmt.Fprintf(head, "            %s *object() { return %sObject; } \n", ifaceName, stripped)
		head.WriteString("            struct ::wl_resource *handle;\n")
		head.WriteString("\n")
		head.WriteString("            struct ::wl_client *client() const { return wl_resource_get_client(handle); }\n")
		head.WriteString("            int version() const { return wl_resource_get_version(handle); }\n")
		head.WriteString("\n")
		head.WriteString("            static Resource *fromResource(struct ::wl_resource *resource);\n")
		head.WriteString("        };\n")
		head.WriteString("\n")
		head.WriteString("        void init(struct ::wl_client *client, uint32_t id, int version);\n")
		head.WriteString("        void init(struct ::wl_display *display, int version);\n")
		head.WriteString("        void init(struct ::wl_resource *resource);\n")
		head.WriteString("\n")
		head.WriteString("        Resource *add(struct ::wl_client *client, int version);\n")
		head.WriteString("        Resource *add(struct ::wl_client *client, uint32_t id, int version);\n")
		head.WriteString("\n")
		head.WriteString("        Resource *resource() { return m_resource; }\n")
		head.WriteString("        const Resource *resource() const { return m_resource; }\n")
		head.WriteString("\n")
		head.WriteString("        std::multimap<struct ::wl_client*, Resource*> resourceMap() { return m_resource_map; }\n")
		head.WriteString("        const std::multimap<struct ::wl_client*, Resource*> resourceMap() const { return m_resource_map; }\n")
		head.WriteString("\n")
		head.WriteString("        bool isGlobal() const { return m_global != nullptr; }\n")
		head.WriteString("        bool isResource() const { return m_resource != nullptr; }\n")
		head.WriteString("\n")
		head.WriteString("        static const struct ::wl_interface *interface();\n")
		head.WriteString("        static std::string interfaceName() { return interface()->name; }\n")
		head.WriteString("        static int interfaceVersion() { return interface()->version; }\n")
		head.WriteString("\n")

		printEnums(head, iface.Enums)

		if len(iface.Events) > 0 {
			head.WriteString("\n")
			for j := range iface.Events {
				ev := &iface.Events[j]
				head.WriteString("        void send")
				e.printEvent(head, ev, eventOpts{capitalize: true})
				head.WriteString(";\n")
				head.WriteString("        void send")
				e.printEvent(head, ev, eventOpts{withResource: true, capitalize: true})
				head.WriteString(";\n")
			}
		}

		head.WriteString("\n")
		head.WriteString("    protected:\n")
		head.WriteString("        virtual Resource *allocate();\n")
		head.WriteString("\n")
		head.WriteString("        virtual void bindResource(Resource *resource);\n")
		head.WriteString("        virtual void destroyResource(Resource *resource);\n")

		hasRequests := len(iface.Requests) > 0

		if hasRequests {
			head.WriteString("\n")
			for j := range iface.Requests {
				head.WriteString("        virtual void ")
				e.printEvent(head, &iface.Requests[j], eventOpts{})
				head.WriteString(";\n")
			}
		}

		head.WriteString("\n")
		head.WriteString("    private:\n")
		head.WriteString("        static void bind_func(struct ::wl_client *client, void *data, uint32_t version, uint32_t id);\n")
		head.WriteString("        static void destroy_func(struct ::wl_resource *client_resource);\n")
		head.WriteString("        static void display_destroy_func(struct ::wl_listener *listener, void *data);\n")
		head.WriteString("\n")
		head.WriteString("        Resource *bind(struct ::wl_client *client, uint32_t id, int version);\n")
		head.WriteString("        Resource *bind(struct ::wl_resource *handle);\n")

		if hasRequests {
			head.WriteString("\n")
			fmt.Fprintf(head, "        static const struct ::%s_interface m_%s_interface;\n", iface.Name, iface.Name)

			head.WriteString("\n")
			for j := range iface.Requests {
				head.WriteString("        static void ")
				e.printEventHandlerSignature(head, &iface.Requests[j], ifaceName)
				head.WriteString(";\n")
			}
		}

		head.WriteString("\n")
		head.WriteString("        std::multimap<struct ::wl_client*, Resource*> m_resource_map;\n")
		head.WriteString("        Resource *m_resource = nullptr;\n")
		head.WriteString("        struct ::wl_global *m_global = nullptr;\n")
		head.WriteString("        struct DisplayDestroyedListener : ::wl_listener {\n")
		fmt.Fprintf(head, "            %s *parent;\n", ifaceName)
		head.WriteString("        };\n")
		head.WriteString("        DisplayDestroyedListener m_displayDestroyedListener;\n")
		head.WriteString("    };\n")
	}

	head.WriteString("}\n")
	head.WriteString("}\n")
	head.WriteString("\n")
}

// serverSource implements the wrapper classes: constructors and the two
// init overloads, teardown that detaches every live Resource
// back-reference, bind/destroy/bind-global trampolines, one request
// trampoline per request forwarding to the virtual stub, and the send
// pair per event marshalling into the external wire-send primitive.
func (e *Emitter) serverSource(code *bytes.Buffer) {
	code.WriteString(e.includeLine(e.includeBase() + "-server.h"))
	code.WriteString(e.includeLine(e.includeBase() + "-server.hpp"))

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
		stripped := e.stripInterfaceName(iface.Name, false)

		fmt.Fprintf(code, "Wayland::Server::%s::%s(struct ::wl_client *client, uint32_t id, int version) {\n", ifaceName, ifaceName)
		code.WriteString("    m_resource_map.clear();\n")
		code.WriteString("    init(client, id, version);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::%s(struct ::wl_display *display, int version) {\n", ifaceName, ifaceName)
		code.WriteString("    m_resource_map.clear();\n")
		code.WriteString("    init(display, version);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::%s(struct ::wl_resource *resource) {\n", ifaceName, ifaceName)
		code.WriteString("    m_resource_map.clear();\n")
		code.WriteString("    init(resource);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::%s() {\n", ifaceName, ifaceName)
		code.WriteString("    m_resource_map.clear();\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::~%s() {\n", ifaceName, ifaceName)
		code.WriteString("    for (auto it = m_resource_map.begin(); it != m_resource_map.end(); ++it) {\n")
		code.WriteString("        Resource *resourcePtr = it->second;\n")
		code.WriteString("\n")
		code.WriteString("        // Detach the record; its storage is owned by the transport.\n")
		fmt.Fprintf(code, "        resourcePtr->%sObject = nullptr;\n", stripped)
		code.WriteString("    }\n")
		code.WriteString("\n")
		code.WriteString("    if (m_resource)\n")
		fmt.Fprintf(code, "        m_resource->%sObject = nullptr;\n", stripped)
		code.WriteString("\n")
		code.WriteString("    if (m_global) {\n")
		code.WriteString("        wl_global_destroy(m_global);\n")
		code.WriteString("        wl_list_remove(&m_displayDestroyedListener.link);\n")
		code.WriteString("    }\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::init(struct ::wl_client *client, uint32_t id, int version) {\n", ifaceName)
		code.WriteString("    m_resource = bind(client, id, version);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::init(struct ::wl_resource *resource) {\n", ifaceName)
		code.WriteString("    m_resource = bind(resource);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::Resource *Wayland::Server::%s::add(struct ::wl_client *client, int version) {\n", ifaceName, ifaceName)
		code.WriteString("    Resource *resource = bind(client, 0, version);\n")
		code.WriteString("    m_resource_map.insert(std::pair{client, resource});\n")
		code.WriteString("    return resource;\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::Resource *Wayland::Server::%s::add(struct ::wl_client *client, uint32_t id, int version) {\n", ifaceName, ifaceName)
		code.WriteString("    Resource *resource = bind(client, id, version);\n")
		code.WriteString("    m_resource_map.insert(std::pair{client, resource});\n")
		code.WriteString("    return resource;\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::init(struct ::wl_display *display, int version) {\n", ifaceName)
		fmt.Fprintf(code, "    m_global = wl_global_create(display, &::%s_interface, version, this, bind_func);\n", iface.Name)
		fmt.Fprintf(code, "    m_displayDestroyedListener.notify = %s::display_destroy_func;\n", ifaceName)
		code.WriteString("    m_displayDestroyedListener.parent = this;\n")
		code.WriteString("    wl_display_add_destroy_listener(display, &m_displayDestroyedListener);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "const struct wl_interface *Wayland::Server::%s::interface() {\n", ifaceName)
		fmt.Fprintf(code, "    return &::%s_interface;\n", iface.Name)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::Resource *Wayland::Server::%s::allocate() {\n", ifaceName, ifaceName)
		code.WriteString("    return new Resource;\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::bindResource(Resource *) {\n", ifaceName)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::destroyResource(Resource *) {\n", ifaceName)
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::bind_func(struct ::wl_client *client, void *data, uint32_t version, uint32_t id) {\n", ifaceName)
		fmt.Fprintf(code, "    %s *that = static_cast<%s *>(data);\n", ifaceName, ifaceName)
		code.WriteString("    that->add(client, id, version);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::display_destroy_func(struct ::wl_listener *listener, void *) {\n", ifaceName)
		fmt.Fprintf(code, "    %s *that = static_cast<%s::DisplayDestroyedListener *>(listener)->parent;\n", ifaceName, ifaceName)
		code.WriteString("    that->m_global = nullptr;\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "void Wayland::Server::%s::destroy_func(struct ::wl_resource *client_resource) {\n", ifaceName)
		code.WriteString("    Resource *resource = Resource::fromResource(client_resource);\n")
		fmt.Fprintf(code, "    %s *that = resource->%sObject;\n", ifaceName, stripped)
		code.WriteString("    if (that) {\n")
		code.WriteString("        auto it = that->m_resource_map.begin();\n")
		code.WriteString("        while ( it != that->m_resource_map.end() ) {\n")
		code.WriteString("            if ( it->first == resource->client() ) {\n")
		code.WriteString("                it = that->m_resource_map.erase( it );\n")
		code.WriteString("            }\n")
		code.WriteString("\n")
		code.WriteString("            else {\n")
		code.WriteString("                ++it;\n")
		code.WriteString("            }\n")
		code.WriteString("        }\n")
		code.WriteString("        that->destroyResource(resource);\n")
		code.WriteString("\n")
		fmt.Fprintf(code, "        that = resource->%sObject;\n", stripped)
		code.WriteString("        if (that && that->m_resource == resource)\n")
		code.WriteString("            that->m_resource = nullptr;\n")
		code.WriteString("    }\n")
		code.WriteString("    delete resource;\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		hasRequests := len(iface.Requests) > 0

		interfaceMember := "nullptr"
		if hasRequests {
			interfaceMember = "&m_" + iface.Name + "_interface"
		}

		fmt.Fprintf(code, "Wayland::Server::%s::Resource *Wayland::Server::%s::bind(struct ::wl_client *client, uint32_t id, int version) {\n", ifaceName, ifaceName)
		fmt.Fprintf(code, "    struct ::wl_resource *handle = wl_resource_create(client, &::%s_interface, version, id);\n", iface.Name)
		code.WriteString("    return bind(handle);\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::Resource *Wayland::Server::%s::bind(struct ::wl_resource *handle) {\n", ifaceName, ifaceName)
		code.WriteString("    Resource *resource = allocate();\n")
		fmt.Fprintf(code, "    resource->%sObject = this;\n", stripped)
		code.WriteString("\n")
		fmt.Fprintf(code, "    wl_resource_set_implementation(handle, %s, resource, destroy_func);", interfaceMember)
		code.WriteString("\n")
		code.WriteString("    resource->handle = handle;\n")
		code.WriteString("    bindResource(resource);\n")
		code.WriteString("    return resource;\n")
		code.WriteString("}\n")
		code.WriteString("\n")

		fmt.Fprintf(code, "Wayland::Server::%s::Resource *Wayland::Server::%s::Resource::fromResource(struct ::wl_resource *resource) {\n", ifaceName, ifaceName)
		code.WriteString("    if (!resource)\n")
		code.WriteString("        return nullptr;\n")
		fmt.Fprintf(code, "    if (wl_resource_instance_of(resource, &::%s_interface, %s))\n", iface.Name, interfaceMember)
		code.WriteString("        return static_cast<Resource *>(wl_resource_get_user_data(resource));\n")
		code.WriteString("    return nullptr;\n")
		code.WriteString("}\n")

		if hasRequests {
			code.WriteString("\n")
			fmt.Fprintf(code, "const struct ::%s_interface Wayland::Server::%s::m_%s_interface = {", iface.Name, ifaceName, iface.Name)
			for j := range iface.Requests {
				if j > 0 {
					code.WriteString(",")
				}
				code.WriteString("\n")
				fmt.Fprintf(code, "    Wayland::Server::%s::handle%s", ifaceName, CamelCase(iface.Requests[j].Name, true))
			}
			code.WriteString("\n")
			code.WriteString("};\n")

			for j := range iface.Requests {
				code.WriteString("\n")
				fmt.Fprintf(code, "void Wayland::Server::%s::", ifaceName)
				e.printEvent(code, &iface.Requests[j], eventOpts{omitNames: true})
				code.WriteString(" {\n")
				code.WriteString("}\n")
			}
			code.WriteString("\n")

			for j := range iface.Requests {
				req := &iface.Requests[j]
				code.WriteString("\n")
				fmt.Fprintf(code, "void Wayland::Server::%s::", ifaceName)
				e.printEventHandlerSignature(code, req, ifaceName)
				code.WriteString(" {\n")
				code.WriteString("    Resource *r = Resource::fromResource(resource);\n")
				fmt.Fprintf(code, "    if (!r->%sObject) {\n", stripped)
				if req.IsDestructor() {
					code.WriteString("        wl_resource_destroy(resource);\n")
				}
				code.WriteString("        return;\n")
				code.WriteString("    }\n")
				fmt.Fprintf(code, "    static_cast<%s *>(r->%sObject)->%s(r", ifaceName, stripped, CamelCase(req.Name, false))
				for k := range req.Args {
					a := &req.Args[k]
					code.WriteString(", ")
					argName := CamelCase(a.Name, false)
					if a.Type == ir.TypeString {
						fmt.Fprintf(code, "std::string(%s)", argName)
					} else {
						code.WriteString(argName)
					}
				}
				code.WriteString(" );\n")
				code.WriteString("}\n")
			}
		}

		for j := range iface.Events {
			ev := &iface.Events[j]
			evName := CamelCase(ev.Name, true)

			code.WriteString("\n")
			fmt.Fprintf(code, "void Wayland::Server::%s::send", ifaceName)
			e.printEvent(code, ev, eventOpts{capitalize: true})
			code.WriteString(" {\n")
			code.WriteString("    if ( !m_resource ) {\n")
			code.WriteString("        return;\n")
			code.WriteString("    }\n")
			fmt.Fprintf(code, "    send%s( m_resource->handle", evName)
			for k := range ev.Args {
				code.WriteString(", ")
				code.WriteString(ev.Args[k].Name)
			}
			code.WriteString(" );\n")
			code.WriteString("}\n")
			code.WriteString("\n")

			fmt.Fprintf(code, "void Wayland::Server::%s::send", ifaceName)
			e.printEvent(code, ev, eventOpts{withResource: true, capitalize: true})
			code.WriteString(" {\n")

			printArrayDescriptors(code, ev)

			fmt.Fprintf(code, "    %s_send_%s( ", iface.Name, ev.Name)
			code.WriteString("resource")

			for k := range ev.Args {
				a := &ev.Args[k]
				code.WriteString(", ")
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
			code.WriteString("}\n")
			code.WriteString("\n")
		}
	}
	code.WriteString("\n")
}
