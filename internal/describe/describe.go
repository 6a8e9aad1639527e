// Package describe renders a method's input message as a short description
// followed by example JSON layouts a caller can fill in and pass to -a.
//
// Every node of the layout is built by a function that returns a fresh
// string; nothing is accumulated across sibling fields.
package describe

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/centreon/engine-rpc/internal/schema"
)

const indentUnit = "  "

// Options tunes the rendering.
type Options struct {
	// Color wraps section headers and warnings in ANSI escapes.
	Color bool
}

// Method renders m without colors.
func Method(m *schema.Method) string {
	return Render(m, Options{})
}

// Render renders the description of m.
func Render(m *schema.Method, opts Options) string {
	st := style{color: opts.Color}
	in := m.Input

	var b strings.Builder
	b.WriteString(st.header("DESCRIPTION:"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "For method : %s, input parameter is : %s, output parameter is : %s.\n",
		m.Name, in.Name(), m.Output.Name())
	if c := strings.TrimSpace(m.Comments()); c != "" {
		for _, line := range strings.Split(c, "\n") {
			fmt.Fprintf(&b, "  %s\n", strings.TrimSpace(line))
		}
	}

	fields := in.Fields()
	if fields.Len() == 0 {
		fmt.Fprintf(&b, "Input Message %s has no field, no payload is needed.\n", in.Name())
	} else {
		fmt.Fprintf(&b, "Input Message %s contains the main fields:\n", in.Name())
		for i := 0; i < fields.Len(); i++ {
			fmt.Fprintf(&b, " - %s\n", fields.Get(i).Name())
		}
	}

	groups := oneofGroups(in)
	for _, od := range groups {
		b.WriteString(st.warning(oneofWarning(od)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(st.header("JSON LAYOUT:"))
	b.WriteString("\n\n")

	if len(groups) == 0 {
		b.WriteString(message(in, nil, 0, nil))
		b.WriteString("\n")
		return b.String()
	}

	for i, chosen := range exampleMembers(groups) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Example :\n")
		b.WriteString(message(in, chosen, 0, nil))
		b.WriteString("\n")
	}
	return b.String()
}

// exampleMembers returns the oneof member each example is built around:
// every member of the first group, then the remaining members of the
// other groups. A group's first member already appears in the examples of
// the groups before it.
func exampleMembers(groups []protoreflect.OneofDescriptor) []protoreflect.FieldDescriptor {
	var out []protoreflect.FieldDescriptor
	for gi, od := range groups {
		members := od.Fields()
		start := 0
		if gi > 0 {
			start = 1
		}
		for i := start; i < members.Len(); i++ {
			out = append(out, members.Get(i))
		}
	}
	return out
}

// Placeholder returns the fixed placeholder used for a scalar kind.
func Placeholder(k protoreflect.Kind) string {
	if p, ok := placeholders[k]; ok {
		return p
	}
	return "TYPE_UNKNOWN"
}

var placeholders = map[protoreflect.Kind]string{
	protoreflect.DoubleKind:   "TYPE_DOUBLE",
	protoreflect.FloatKind:    "TYPE_FLOAT",
	protoreflect.Int64Kind:    "TYPE_INT64",
	protoreflect.Uint64Kind:   "TYPE_UINT64",
	protoreflect.Int32Kind:    "TYPE_INT32",
	protoreflect.Fixed64Kind:  "TYPE_FIXED64",
	protoreflect.Fixed32Kind:  "TYPE_FIXED32",
	protoreflect.BoolKind:     "TYPE_BOOL",
	protoreflect.StringKind:   "TYPE_STRING",
	protoreflect.GroupKind:    "TYPE_GROUP",
	protoreflect.MessageKind:  "TYPE_MESSAGE",
	protoreflect.BytesKind:    "TYPE_BYTES",
	protoreflect.Uint32Kind:   "TYPE_UINT32",
	protoreflect.EnumKind:     "TYPE_ENUM",
	protoreflect.Sfixed32Kind: "TYPE_SFIXED32",
	protoreflect.Sfixed64Kind: "TYPE_SFIXED64",
	protoreflect.Sint32Kind:   "TYPE_SINT32",
	protoreflect.Sint64Kind:   "TYPE_SINT64",
}

// Well known types are shown in their JSON form.
var wellKnown = map[protoreflect.FullName]string{
	"google.protobuf.Timestamp":   "RFC3339_TIMESTAMP",
	"google.protobuf.Duration":    "DURATION",
	"google.protobuf.FieldMask":   "FIELD_MASK",
	"google.protobuf.Struct":      "JSON_OBJECT",
	"google.protobuf.Value":       "JSON_VALUE",
	"google.protobuf.ListValue":   "JSON_ARRAY",
	"google.protobuf.Any":         "ANY",
	"google.protobuf.StringValue": "TYPE_STRING",
	"google.protobuf.BytesValue":  "TYPE_BYTES",
	"google.protobuf.BoolValue":   "TYPE_BOOL",
	"google.protobuf.Int32Value":  "TYPE_INT32",
	"google.protobuf.Int64Value":  "TYPE_INT64",
	"google.protobuf.UInt32Value": "TYPE_UINT32",
	"google.protobuf.UInt64Value": "TYPE_UINT64",
	"google.protobuf.FloatValue":  "TYPE_FLOAT",
	"google.protobuf.DoubleValue": "TYPE_DOUBLE",
}

// oneofGroups returns the real oneof groups of md. Synthetic groups
// generated for proto3 optional fields are not groups for the caller.
func oneofGroups(md protoreflect.MessageDescriptor) []protoreflect.OneofDescriptor {
	var out []protoreflect.OneofDescriptor
	oneofs := md.Oneofs()
	for i := 0; i < oneofs.Len(); i++ {
		if od := oneofs.Get(i); !od.IsSynthetic() {
			out = append(out, od)
		}
	}
	return out
}

func oneofWarning(od protoreflect.OneofDescriptor) string {
	members := od.Fields()
	names := make([]string, 0, members.Len())
	for i := 0; i < members.Len(); i++ {
		names = append(names, string(members.Get(i).Name()))
	}
	return fmt.Sprintf("/!\\ Note /!\\ fields: %s are 'oneofs' (%s), set exactly one of them.",
		strings.Join(names, ", "), od.Name())
}

// visible reports whether fd belongs in an example object. chosen selects
// the member shown for its group; other groups show their first member.
func visible(fd, chosen protoreflect.FieldDescriptor) bool {
	od := fd.ContainingOneof()
	if od == nil || od.IsSynthetic() {
		return true
	}
	if chosen != nil && chosen.ContainingOneof() != nil && chosen.ContainingOneof().FullName() == od.FullName() {
		return fd.FullName() == chosen.FullName()
	}
	return od.Fields().Get(0).FullName() == fd.FullName()
}

// message renders md as an object whose closing brace sits at depth.
// open holds the message types being rendered above this node.
func message(md protoreflect.MessageDescriptor, chosen protoreflect.FieldDescriptor, depth int, open []protoreflect.FullName) string {
	open = append(open[:len(open):len(open)], md.FullName())

	fields := md.Fields()
	entries := make([]string, 0, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if !visible(fd, chosen) {
			continue
		}
		entries = append(entries, field(fd, depth+1, open))
	}
	if len(entries) == 0 {
		return "{}"
	}
	return "{\n" + strings.Join(entries, ",\n") + "\n" + indent(depth) + "}"
}

func field(fd protoreflect.FieldDescriptor, depth int, open []protoreflect.FullName) string {
	prefix := indent(depth) + fmt.Sprintf("%q: ", fd.Name())
	switch {
	case fd.IsMap():
		return prefix + "{ " + Placeholder(fd.MapKey().Kind()) + ": " + value(fd.MapValue(), depth, open) + " }"
	case fd.IsList():
		return prefix + "[ " + value(fd, depth, open) + " ]"
	default:
		return prefix + value(fd, depth, open)
	}
}

func value(fd protoreflect.FieldDescriptor, depth int, open []protoreflect.FullName) string {
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		md := fd.Message()
		if p, ok := wellKnown[md.FullName()]; ok {
			return p
		}
		for _, name := range open {
			if name == md.FullName() {
				return fmt.Sprintf("%q", "<recursive "+string(md.Name())+">")
			}
		}
		return message(md, nil, depth, open)
	case protoreflect.EnumKind:
		return enum(fd.Enum(), depth)
	default:
		return Placeholder(fd.Kind())
	}
}

// enum lists the legal value names of ed in declaration order.
func enum(ed protoreflect.EnumDescriptor, depth int) string {
	values := ed.Values()
	if values.Len() == 0 {
		return Placeholder(protoreflect.EnumKind)
	}
	lines := make([]string, 0, values.Len())
	for i := 0; i < values.Len(); i++ {
		lines = append(lines, indent(depth+1)+string(values.Get(i).Name()))
	}
	return "{\n" + strings.Join(lines, "\n") + "\n" + indent(depth) + "}"
}

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}
