package translate

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
)

func lookup(t *testing.T, name string) *schema.Method {
	t.Helper()
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	m, err := reg.Lookup(name)
	require.NoError(t, err)
	return m
}

func TestToMessageEmptyShape(t *testing.T) {
	m := lookup(t, "GetVersion")

	for _, payload := range []string{"{}", " { } ", "", "\n"} {
		msg, err := ToMessage(m, []byte(payload))
		require.NoError(t, err, "payload %q", payload)
		assert.Equal(t, schema.EmptyMessage, msg.ProtoReflect().Descriptor().Name())
	}
}

func TestToMessageMalformedJSON(t *testing.T) {
	for _, name := range []string{"GetVersion", "GetHost", "ProcessServiceCheckResult"} {
		m := lookup(t, name)
		_, err := ToMessage(m, []byte("{not json"))
		require.ErrorIs(t, err, rpcerr.ErrMalformedJSON, name)
		assert.Contains(t, err.Error(), "offset")
	}

	_, err := ToMessage(lookup(t, "GetHost"), nil)
	require.ErrorIs(t, err, rpcerr.ErrMalformedJSON)
}

func TestToMessageSchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		payload string
	}{
		{name: "unknown field", method: "GetHost", payload: `{"nickname": "srv"}`},
		{name: "wrong type", method: "GetHost", payload: `{"id": "twelve"}`},
		{name: "two oneof members", method: "GetHost", payload: `{"name": "srv", "id": 12}`},
		{name: "payload for empty input", method: "GetVersion", payload: `{"major": 1}`},
		{name: "not an object", method: "GetContact", payload: `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToMessage(lookup(t, tt.method), []byte(tt.payload))
			require.ErrorIs(t, err, rpcerr.ErrSchemaMismatch)
			assert.NotErrorIs(t, err, rpcerr.ErrMalformedJSON)
		})
	}
}

func TestToMessageNested(t *testing.T) {
	m := lookup(t, "GetService")

	msg, err := ToMessage(m, []byte(`{"ids": {"host_id": 4, "service_id": 7}}`))
	require.NoError(t, err)

	rm := msg.ProtoReflect()
	od := rm.Descriptor().Oneofs().ByName("identifier")
	set := rm.WhichOneof(od)
	require.NotNil(t, set)
	assert.Equal(t, protoreflect.Name("ids"), set.Name())
	ids := rm.Get(set).Message()
	assert.Equal(t, uint64(7), ids.Get(ids.Descriptor().Fields().ByName("service_id")).Uint())
}

func TestToMessageTimestamp(t *testing.T) {
	m := lookup(t, "ProcessServiceCheckResult")

	msg, err := ToMessage(m, []byte(`{
		"check_time": "2024-03-01T10:00:00Z",
		"host_name": "web-1",
		"svc_desc": "ping",
		"code": 2,
		"output": "CRITICAL - timeout"
	}`))
	require.NoError(t, err)
	text := ToText(msg, false)
	assert.Regexp(t, regexp.MustCompile(`seconds:\s+1709287200`), text)
	assert.Regexp(t, regexp.MustCompile(`host_name:\s+"web-1"`), text)
}

func TestToText(t *testing.T) {
	m := lookup(t, "GetVersion")

	out := m.NewOutput()
	fields := out.Descriptor().Fields()
	out.Set(fields.ByName("major"), protoreflect.ValueOfInt32(1))
	out.Set(fields.ByName("minor"), protoreflect.ValueOfInt32(2))
	out.Set(fields.ByName("patch"), protoreflect.ValueOfInt32(3))

	text := ToText(out, false)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^major:\s+1$`, lines[0])
	assert.Regexp(t, `^minor:\s+2$`, lines[1])
	assert.Regexp(t, `^patch:\s+3$`, lines[2])
	assert.Equal(t, text, ToText(out, true))
}

func TestToTextBlank(t *testing.T) {
	m := lookup(t, "DeleteComment")

	out := m.NewOutput()
	assert.Equal(t, "", ToText(out, false))
	assert.Equal(t, SuccessMarker, ToText(out, true))
	assert.Equal(t, SuccessMarker, ToText(nil, true))
}

func TestToJSON(t *testing.T) {
	m := lookup(t, "GetHostsCount")

	out := m.NewOutput()
	out.Set(out.Descriptor().Fields().ByName("value"), protoreflect.ValueOfUint32(42))

	text, err := ToJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 42}`, text)

	text, err = ToJSON(m.NewOutput())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, text)
}
