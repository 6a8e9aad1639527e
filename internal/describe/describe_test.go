package describe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centreon/engine-rpc/internal/schema"
)

func engineMethod(t *testing.T, name string) *schema.Method {
	t.Helper()
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	m, err := reg.Lookup(name)
	require.NoError(t, err)
	return m
}

func TestEveryEngineMethodDescribes(t *testing.T) {
	reg, err := schema.LoadEngine()
	require.NoError(t, err)

	for m := range reg.Methods() {
		out := Method(m)
		assert.True(t, strings.HasPrefix(out, "DESCRIPTION:"), m.Name)
		assert.Contains(t, out, "For method : "+m.Name+",", m.Name)
		assert.Contains(t, out, "JSON LAYOUT:", m.Name)
		assert.NotContains(t, out, "\033[", m.Name)
	}
}

func TestDescribeEmptyInput(t *testing.T) {
	out := Method(engineMethod(t, "GetVersion"))

	assert.Contains(t, out, "input parameter is : Empty, output parameter is : Version.")
	assert.Contains(t, out, "Input Message Empty has no field")
	assert.Contains(t, out, "Returns the engine version.")
	assert.True(t, strings.HasSuffix(out, "JSON LAYOUT:\n\n{}\n"), out)
}

func TestDescribeScalarsAndWellKnownTypes(t *testing.T) {
	out := Method(engineMethod(t, "ProcessServiceCheckResult"))

	for _, name := range []string{"check_time", "host_name", "svc_desc", "code", "output"} {
		assert.Contains(t, out, " - "+name+"\n")
	}
	want := `{
  "check_time": RFC3339_TIMESTAMP,
  "host_name": TYPE_STRING,
  "svc_desc": TYPE_STRING,
  "code": TYPE_INT32,
  "output": TYPE_STRING
}
`
	assert.True(t, strings.HasSuffix(out, want), out)
	assert.NotContains(t, out, "Example :")
}

func TestDescribeOneofScalarMembers(t *testing.T) {
	out := Method(engineMethod(t, "GetHost"))

	assert.Contains(t, out, "fields: name, id are 'oneofs'")
	assert.Equal(t, 2, strings.Count(out, "Example :\n"))
	assert.Contains(t, out, "Example :\n{\n  \"name\": TYPE_STRING\n}\n")
	assert.Contains(t, out, "Example :\n{\n  \"id\": TYPE_UINT32\n}\n")
}

func TestDescribeOneofMessageMembers(t *testing.T) {
	out := Method(engineMethod(t, "GetService"))

	names := `Example :
{
  "names": {
    "host_name": TYPE_STRING,
    "service_name": TYPE_STRING
  }
}
`
	ids := `Example :
{
  "ids": {
    "host_id": TYPE_UINT32,
    "service_id": TYPE_UINT32
  }
}
`
	assert.Contains(t, out, names)
	assert.Contains(t, out, ids)
	assert.Less(t, strings.Index(out, names), strings.Index(out, ids))
}

func TestDescribeColor(t *testing.T) {
	m := engineMethod(t, "GetHost")

	out := Render(m, Options{Color: true})
	assert.Contains(t, out, ansiBlue+ansiUnderline+"DESCRIPTION:"+ansiReset)
	assert.Contains(t, out, ansiYellow+"/!\\ Note /!\\")
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "TYPE_SINT64", Placeholder(18))
	assert.Equal(t, "TYPE_UNKNOWN", Placeholder(0))
}

const shapesProto = `syntax = "proto3";
package shapes;

service Shapes {
  rpc Draw(Canvas) returns (Canvas) {}
}

enum Color {
  RED = 0;
  GREEN = 1;
}

enum Fill {
  SOLID = 0;
  HATCHED = 1;
  NONE = 2;
}

message Node {
  string label = 1;
  Node parent = 2;
  repeated Node children = 3;
}

message Canvas {
  Color stroke = 1;
  Fill fill = 2;
  repeated int64 points = 3;
  map<string, int32> weights = 4;
  Node root = 5;
  optional string title = 6;
  oneof size {
    int32 side = 7;
    double radius = 8;
  }
  oneof origin {
    string anchor = 9;
    bool centered = 10;
  }
}
`

func shapesMethod(t *testing.T) *schema.Method {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapes.proto")
	require.NoError(t, os.WriteFile(path, []byte(shapesProto), 0o600))
	reg, err := schema.LoadFile(path, nil, "")
	require.NoError(t, err)
	m, err := reg.Lookup("Draw")
	require.NoError(t, err)
	return m
}

func TestDescribeSiblingEnumsAreSelfContained(t *testing.T) {
	out := Method(shapesMethod(t))

	stroke := "  \"stroke\": {\n    RED\n    GREEN\n  },\n"
	fill := "  \"fill\": {\n    SOLID\n    HATCHED\n    NONE\n  },\n"
	assert.Contains(t, out, stroke)
	assert.Contains(t, out, fill)
}

func TestDescribeRepeatedMapsAndRecursion(t *testing.T) {
	out := Method(shapesMethod(t))

	assert.Contains(t, out, `  "points": [ TYPE_INT64 ],`)
	assert.Contains(t, out, `  "weights": { TYPE_STRING: TYPE_INT32 },`)
	assert.Contains(t, out, "  \"root\": {\n    \"label\": TYPE_STRING,\n    \"parent\": \"<recursive Node>\",\n    \"children\": [ \"<recursive Node>\" ]\n  },\n")
}

func TestDescribeMultipleOneofGroups(t *testing.T) {
	out := Method(shapesMethod(t))

	// The proto3 optional field is not reported as a group.
	assert.Equal(t, 2, strings.Count(out, "/!\\ Note /!\\"))
	assert.Contains(t, out, "fields: side, radius are 'oneofs' (size)")
	assert.Contains(t, out, "fields: anchor, centered are 'oneofs' (origin)")

	// Every member of every group shows up in some example; groups not
	// being varied are represented by their first member.
	assert.Equal(t, 3, strings.Count(out, "Example :\n"))
	assert.Contains(t, out, "  \"side\": TYPE_INT32,\n  \"anchor\": TYPE_STRING\n}")
	assert.Contains(t, out, "  \"radius\": TYPE_DOUBLE,\n  \"anchor\": TYPE_STRING\n}")
	assert.Contains(t, out, "  \"side\": TYPE_INT32,\n  \"centered\": TYPE_BOOL\n}")
	assert.Equal(t, 1, strings.Count(out, `"centered"`))
	assert.Equal(t, 3, strings.Count(out, `"title": TYPE_STRING`))
}
