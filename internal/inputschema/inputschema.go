// Package inputschema derives a JSON Schema from a method's input message
// and validates JSON arguments against it.
package inputschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/centreon/engine-rpc/internal/schema"
)

// ForMethod returns the schema of m's input, titled after the method.
func ForMethod(m *schema.Method) *jsonschema.Schema {
	s := ForMessage(m.Input)
	s.Title = m.Name
	if c := strings.TrimSpace(m.Comments()); c != "" {
		s.Description = joinSentences(c, s.Description)
	}
	return s
}

// ForMessage returns the schema of md. Properties use the .proto field
// names and unknown properties are refused.
func ForMessage(md protoreflect.MessageDescriptor) *jsonschema.Schema {
	return message(md, nil)
}

func message(md protoreflect.MessageDescriptor, open []protoreflect.FullName) *jsonschema.Schema {
	open = append(open[:len(open):len(open)], md.FullName())

	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		s.Properties.Set(string(fd.Name()), field(fd, open))
	}

	var notes []string
	oneofs := md.Oneofs()
	for i := 0; i < oneofs.Len(); i++ {
		od := oneofs.Get(i)
		if od.IsSynthetic() {
			continue
		}
		members := od.Fields()
		names := make([]string, 0, members.Len())
		for j := 0; j < members.Len(); j++ {
			names = append(names, string(members.Get(j).Name()))
		}
		notes = append(notes, fmt.Sprintf("Set at most one of %s (oneof %s).", strings.Join(names, ", "), od.Name()))
	}
	s.Description = strings.Join(notes, " ")
	return s
}

func field(fd protoreflect.FieldDescriptor, open []protoreflect.FullName) *jsonschema.Schema {
	switch {
	case fd.IsMap():
		return &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: value(fd.MapValue(), open),
		}
	case fd.IsList():
		return &jsonschema.Schema{
			Type:  "array",
			Items: value(fd, open),
		}
	default:
		return value(fd, open)
	}
}

func value(fd protoreflect.FieldDescriptor, open []protoreflect.FullName) *jsonschema.Schema {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return &jsonschema.Schema{Type: "boolean"}
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return &jsonschema.Schema{Type: "integer"}
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		// protojson accepts 64-bit integers as numbers or decimal strings.
		return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string", Pattern: `^-?[0-9]+$`},
		}}
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return &jsonschema.Schema{Type: "number"}
	case protoreflect.StringKind:
		return &jsonschema.Schema{Type: "string"}
	case protoreflect.BytesKind:
		return &jsonschema.Schema{Type: "string", ContentEncoding: "base64"}
	case protoreflect.EnumKind:
		return enum(fd.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		md := fd.Message()
		if s := wellKnown(md.FullName()); s != nil {
			return s
		}
		for _, name := range open {
			if name == md.FullName() {
				return &jsonschema.Schema{Type: "object", Description: "recursive " + string(md.Name())}
			}
		}
		return message(md, open)
	default:
		return &jsonschema.Schema{}
	}
}

func enum(ed protoreflect.EnumDescriptor) *jsonschema.Schema {
	values := ed.Values()
	s := &jsonschema.Schema{Type: "string", Enum: make([]any, 0, values.Len())}
	for i := 0; i < values.Len(); i++ {
		s.Enum = append(s.Enum, string(values.Get(i).Name()))
	}
	return s
}

func wellKnown(name protoreflect.FullName) *jsonschema.Schema {
	switch name {
	case "google.protobuf.Timestamp":
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case "google.protobuf.Duration":
		return &jsonschema.Schema{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?s$`}
	case "google.protobuf.FieldMask":
		return &jsonschema.Schema{Type: "string"}
	case "google.protobuf.Struct":
		return &jsonschema.Schema{Type: "object"}
	case "google.protobuf.ListValue":
		return &jsonschema.Schema{Type: "array"}
	case "google.protobuf.Value", "google.protobuf.Any":
		return &jsonschema.Schema{}
	case "google.protobuf.StringValue", "google.protobuf.BytesValue":
		return &jsonschema.Schema{Type: "string"}
	case "google.protobuf.BoolValue":
		return &jsonschema.Schema{Type: "boolean"}
	case "google.protobuf.Int32Value", "google.protobuf.UInt32Value",
		"google.protobuf.Int64Value", "google.protobuf.UInt64Value":
		return &jsonschema.Schema{Type: "integer"}
	case "google.protobuf.FloatValue", "google.protobuf.DoubleValue":
		return &jsonschema.Schema{Type: "number"}
	}
	return nil
}

// JSON returns s encoded as indented JSON.
func JSON(s *jsonschema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func joinSentences(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.Join(strings.Fields(p), " "))
		}
	}
	return strings.Join(out, " ")
}
