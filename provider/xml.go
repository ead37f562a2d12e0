// Package provider builds the protocol model from its XML description.
// Parsing is a single pass; on any error no partial model is returned.
package provider

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"

	"github.com/waylandkit/scribe/ir"
)

// SchemaError codes.
const (
	CodeNotAProtocol = "not_a_protocol"
	CodeMissingName  = "missing_protocol_name"
	CodeMalformed    = "malformed"
)

// SchemaError reports a structural problem with the protocol description.
type SchemaError struct {
	Code    string
	Message string

	// Line is the 1-based input line for malformed documents, 0 when the
	// position is not known.
	Line int
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return e.Message + " (line " + strconv.Itoa(e.Line) + ")"
	}
	return e.Message
}

// AsSchemaError unwraps err into a *SchemaError, or nil.
func AsSchemaError(err error) *SchemaError {
	var se *SchemaError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// Parse reads a protocol description and returns the model. The root
// element must be <protocol> with a non-empty name attribute. Within an
// interface, <enum>, <event>, and <request> children are collected in
// document order; unrecognized elements are skipped so newer descriptions
// still parse.
func Parse(r io.Reader) (*ir.Protocol, error) {
	d := xml.NewDecoder(r)

	root, err := nextStartElement(d)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "protocol" {
		return nil, &SchemaError{Code: CodeNotAProtocol, Message: "the file is not a wayland protocol file"}
	}

	proto := &ir.Protocol{Name: attrValue(root, "name")}
	if proto.Name == "" {
		return nil, &SchemaError{Code: CodeMissingName, Message: "missing protocol name"}
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return proto, nil
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "interface" {
				iface, err := parseInterface(d, t)
				if err != nil {
					return nil, err
				}
				proto.Interfaces = append(proto.Interfaces, iface)
			} else if err := d.Skip(); err != nil {
				return nil, malformed(err)
			}
		case xml.EndElement:
			// End of the protocol element.
			return proto, nil
		}
	}
}

func parseInterface(d *xml.Decoder, start xml.StartElement) (ir.Interface, error) {
	iface := ir.Interface{
		Name:    attrValue(start, "name"),
		Version: intAttr(start, "version", 1),
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return ir.Interface{}, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "event":
				ev, err := parseEvent(d, t, false)
				if err != nil {
					return ir.Interface{}, err
				}
				iface.Events = append(iface.Events, ev)
			case "request":
				req, err := parseEvent(d, t, true)
				if err != nil {
					return ir.Interface{}, err
				}
				iface.Requests = append(iface.Requests, req)
			case "enum":
				en, err := parseEnum(d, t)
				if err != nil {
					return ir.Interface{}, err
				}
				iface.Enums = append(iface.Enums, en)
			default:
				if err := d.Skip(); err != nil {
					return ir.Interface{}, malformed(err)
				}
			}
		case xml.EndElement:
			return iface, nil
		}
	}
}

func parseEvent(d *xml.Decoder, start xml.StartElement, request bool) (ir.Event, error) {
	ev := ir.Event{
		Name:    attrValue(start, "name"),
		Kind:    attrValue(start, "type"),
		Request: request,
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return ir.Event{}, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "arg" {
				ev.Args = append(ev.Args, ir.Argument{
					Name:      attrValue(t, "name"),
					Type:      ir.WireType(attrValue(t, "type")),
					Interface: attrValue(t, "interface"),
					Summary:   attrValue(t, "summary"),
					AllowNull: boolAttr(t, "allow-null") || boolAttr(t, "allowNull"),
				})
			}
			if err := d.Skip(); err != nil {
				return ir.Event{}, malformed(err)
			}
		case xml.EndElement:
			return ev, nil
		}
	}
}

func parseEnum(d *xml.Decoder, start xml.StartElement) (ir.Enum, error) {
	en := ir.Enum{Name: attrValue(start, "name")}

	for {
		tok, err := d.Token()
		if err != nil {
			return ir.Enum{}, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "entry" {
				en.Entries = append(en.Entries, ir.EnumEntry{
					Name:    attrValue(t, "name"),
					Value:   attrValue(t, "value"),
					Summary: attrValue(t, "summary"),
				})
			}
			if err := d.Skip(); err != nil {
				return ir.Enum{}, malformed(err)
			}
		case xml.EndElement:
			return en, nil
		}
	}
}

// nextStartElement advances to the first start element of the document.
func nextStartElement(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return xml.StartElement{}, &SchemaError{Code: CodeMalformed, Message: "empty document"}
		}
		if err != nil {
			return xml.StartElement{}, malformed(err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

func malformed(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &SchemaError{Code: CodeMalformed, Message: "malformed document: " + syn.Msg, Line: syn.Line}
	}
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SchemaError{Code: CodeMalformed, Message: "malformed document: unexpected end of file"}
	}
	return &SchemaError{Code: CodeMalformed, Message: "malformed document: " + err.Error()}
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(se xml.StartElement, name string, def int) int {
	v, err := strconv.Atoi(attrValue(se, name))
	if err != nil {
		return def
	}
	return v
}

func boolAttr(se xml.StartElement, name string) bool {
	return attrValue(se, name) == "true"
}
