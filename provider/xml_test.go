package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/waylandkit/scribe/ir"
)

const sampleProtocol = `<?xml version="1.0" encoding="UTF-8"?>
<protocol name="hello_world">
  <copyright>
    Free for all.
  </copyright>
  <interface name="greeter" version="3">
    <description summary="greets clients"/>
    <enum name="mood">
      <entry name="cheerful" value="0" summary="all smiles"/>
      <entry name="grumpy" value="1"/>
    </enum>
    <request name="say_hello">
      <description summary="send a greeting"/>
      <arg name="name" type="string" summary="who to greet"/>
      <arg name="target" type="object" interface="wl_surface" allow-null="true"/>
    </request>
    <request name="destroy" type="destructor"/>
    <event name="hello">
      <arg name="greeting" type="string" allowNull="true"/>
      <arg name="mood" type="uint"/>
    </event>
  </interface>
  <interface name="farewell">
    <event name="goodbye"/>
  </interface>
</protocol>
`

func TestParse(t *testing.T) {
	proto, err := Parse(strings.NewReader(sampleProtocol))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if proto.Name != "hello_world" {
		t.Errorf("protocol name = %q, want %q", proto.Name, "hello_world")
	}
	if len(proto.Interfaces) != 2 {
		t.Fatalf("got %d interfaces, want 2", len(proto.Interfaces))
	}

	greeter := proto.FindInterface("greeter")
	if greeter == nil {
		t.Fatal("greeter interface not found")
	}
	if greeter.Version != 3 {
		t.Errorf("greeter version = %d, want 3", greeter.Version)
	}

	if len(greeter.Enums) != 1 || greeter.Enums[0].Name != "mood" {
		t.Fatalf("enums = %+v, want one enum named mood", greeter.Enums)
	}
	entries := greeter.Enums[0].Entries
	if len(entries) != 2 {
		t.Fatalf("got %d enum entries, want 2", len(entries))
	}
	if entries[0].Name != "cheerful" || entries[0].Value != "0" || entries[0].Summary != "all smiles" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
	if entries[1].Summary != "" {
		t.Errorf("entry[1].Summary = %q, want empty", entries[1].Summary)
	}

	if len(greeter.Requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(greeter.Requests))
	}
	say := greeter.Requests[0]
	if say.Name != "say_hello" || !say.Request || say.IsDestructor() {
		t.Errorf("say_hello = %+v", say)
	}
	if len(say.Args) != 2 {
		t.Fatalf("say_hello has %d args, want 2", len(say.Args))
	}
	if say.Args[0].Type != ir.TypeString || say.Args[0].Summary != "who to greet" {
		t.Errorf("arg[0] = %+v", say.Args[0])
	}
	if !say.Args[1].AllowNull || say.Args[1].Interface != "wl_surface" {
		t.Errorf("arg[1] = %+v, want nullable wl_surface object", say.Args[1])
	}
	if dtor := greeter.Requests[1]; !dtor.IsDestructor() {
		t.Errorf("destroy = %+v, want destructor", dtor)
	}

	if len(greeter.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(greeter.Events))
	}
	hello := greeter.Events[0]
	if hello.Request {
		t.Error("event parsed as request")
	}
	if !hello.Args[0].AllowNull {
		t.Error("camelCase allowNull spelling not honored")
	}

	farewell := proto.FindInterface("farewell")
	if farewell == nil {
		t.Fatal("farewell interface not found")
	}
	if farewell.Version != 1 {
		t.Errorf("farewell version = %d, want default 1", farewell.Version)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantLine bool
	}{
		{
			name:     "wrong root element",
			input:    `<manifest name="x"><interface name="y"/></manifest>`,
			wantCode: CodeNotAProtocol,
		},
		{
			name:     "missing protocol name",
			input:    `<protocol><interface name="y"/></protocol>`,
			wantCode: CodeMissingName,
		},
		{
			name:     "empty protocol name",
			input:    `<protocol name=""></protocol>`,
			wantCode: CodeMissingName,
		},
		{
			name:     "empty document",
			input:    "",
			wantCode: CodeMalformed,
		},
		{
			name: "unclosed interface",
			input: `<protocol name="p">
<interface name="broken">
<event name="e">`,
			wantCode: CodeMalformed,
		},
		{
			name: "mismatched tag",
			input: `<protocol name="p">
<interface name="broken"></request>
</protocol>`,
			wantCode: CodeMalformed,
			wantLine: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proto, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Parse succeeded with %+v, want %s error", proto, tt.wantCode)
			}
			se := AsSchemaError(err)
			if se == nil {
				t.Fatalf("error %v is not a SchemaError", err)
			}
			if se.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", se.Code, tt.wantCode)
			}
			if tt.wantLine && se.Line <= 0 {
				t.Errorf("line = %d, want a positive line number", se.Line)
			}
		})
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	withLine := &SchemaError{Code: CodeMalformed, Message: "malformed document: bad token", Line: 7}
	if got := withLine.Error(); got != "malformed document: bad token (line 7)" {
		t.Errorf("Error() = %q", got)
	}

	withoutLine := &SchemaError{Code: CodeMissingName, Message: "missing protocol name"}
	if got := withoutLine.Error(); got != "missing protocol name" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAsSchemaErrorForeignError(t *testing.T) {
	if se := AsSchemaError(errors.New("plain")); se != nil {
		t.Errorf("AsSchemaError(plain) = %+v, want nil", se)
	}
}

// Elements the parser does not know about must not derail it.
func TestParseIgnoresUnknownElements(t *testing.T) {
	input := `<protocol name="p">
  <metadata><author>nobody</author></metadata>
  <interface name="thing">
    <gadget/>
    <request name="poke"/>
  </interface>
</protocol>`

	proto, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	iface := proto.FindInterface("thing")
	if iface == nil || len(iface.Requests) != 1 || iface.Requests[0].Name != "poke" {
		t.Errorf("parsed %+v, want thing with a single poke request", proto)
	}
}
