// Package translate converts JSON payloads into request messages and
// response messages into text.
package translate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
)

// SuccessMarker is printed in verbose mode when a response renders blank.
const SuccessMarker = "Success"

var (
	unmarshalOptions = protojson.UnmarshalOptions{DiscardUnknown: false}
	textOptions      = prototext.MarshalOptions{Multiline: true, Indent: "  "}
	jsonOptions      = protojson.MarshalOptions{Multiline: true, Indent: "  ", UseProtoNames: true}
)

// ToMessage decodes jsonText into a new input message of m. Unknown
// fields are rejected. For methods taking an Empty message a blank
// payload is read as {}.
func ToMessage(m *schema.Method, jsonText []byte) (proto.Message, error) {
	trimmed := bytes.TrimSpace(jsonText)
	if len(trimmed) == 0 {
		if m.HasEmptyInput() {
			return m.NewInput(), nil
		}
		return nil, fmt.Errorf("%w: empty payload", rpcerr.ErrMalformedJSON)
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s", rpcerr.ErrMalformedJSON, syntaxDetail(trimmed))
	}

	msg := m.NewInput()
	if err := unmarshalOptions.Unmarshal(trimmed, msg); err != nil {
		return nil, fmt.Errorf("%w %s: %v", rpcerr.ErrSchemaMismatch, m.Input.FullName(), err)
	}
	return msg, nil
}

// syntaxDetail reports where the decoder gave up on data.
func syntaxDetail(data []byte) string {
	var v any
	err := json.Unmarshal(data, &v)
	var serr *json.SyntaxError
	switch {
	case err == nil:
		return "invalid JSON"
	case errors.As(err, &serr):
		return fmt.Sprintf("%v (offset %d)", serr, serr.Offset)
	default:
		return err.Error()
	}
}

// ToText renders msg in the protobuf text format, one field per line. A
// blank rendering yields "" unless verbose is set, in which case
// SuccessMarker is returned.
func ToText(msg proto.Message, verbose bool) string {
	if msg == nil {
		return blank(verbose)
	}
	out, err := textOptions.Marshal(msg)
	if err != nil {
		return fmt.Sprintf("<unprintable %s: %v>", msg.ProtoReflect().Descriptor().FullName(), err)
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		return blank(verbose)
	}
	return text
}

func blank(verbose bool) string {
	if verbose {
		return SuccessMarker
	}
	return ""
}

// ToJSON renders msg as indented JSON using the .proto field names.
func ToJSON(msg proto.Message) (string, error) {
	if msg == nil {
		return "{}", nil
	}
	out, err := jsonOptions.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", msg.ProtoReflect().Descriptor().FullName(), err)
	}
	return string(out), nil
}
