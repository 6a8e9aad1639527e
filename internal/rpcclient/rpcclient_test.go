package rpcclient_test

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/centreon/engine-rpc/internal/enginetest"
	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
	"github.com/centreon/engine-rpc/internal/translate"
)

func TestTargetValidate(t *testing.T) {
	tests := []struct {
		port string
		want error
	}{
		{port: "", want: rpcerr.ErrMissingPort},
		{port: "  ", want: rpcerr.ErrMissingPort},
		{port: "http", want: rpcerr.ErrInvalidPort},
		{port: "0", want: rpcerr.ErrInvalidPort},
		{port: "70000", want: rpcerr.ErrInvalidPort},
		{port: "50051", want: nil},
	}
	for _, tt := range tests {
		err := rpcclient.Target{Port: tt.port}.Validate()
		if tt.want == nil {
			assert.NoError(t, err, tt.port)
			continue
		}
		assert.ErrorIs(t, err, tt.want, tt.port)
	}
}

func TestTargetAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:50051", rpcclient.Target{Port: "50051"}.Addr())
	assert.Equal(t, "[::1]:4000", rpcclient.Target{Host: "::1", Port: "4000"}.Addr())
}

func TestCall(t *testing.T) {
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	engine := enginetest.Start(t, reg)
	engine.RespondJSON(t, "GetVersion", `{"major": 1, "minor": 2, "patch": 3}`)

	m, err := reg.Lookup("GetVersion")
	require.NoError(t, err)
	req, err := translate.ToMessage(m, nil)
	require.NoError(t, err)

	resp, err := rpcclient.Call(context.Background(), engine.Target(), m, req)
	require.NoError(t, err)

	fields := resp.ProtoReflect().Descriptor().Fields()
	assert.Equal(t, int32(2), resp.ProtoReflect().Get(fields.ByName("minor")).Interface())
	assert.Equal(t, 1, engine.Calls("GetVersion"))
}

func TestCallSendsRequest(t *testing.T) {
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	engine := enginetest.Start(t, reg)

	m, err := reg.Lookup("GetHost")
	require.NoError(t, err)
	req, err := translate.ToMessage(m, []byte(`{"name": "web-1"}`))
	require.NoError(t, err)

	_, err = rpcclient.Call(context.Background(), engine.Target(), m, req)
	require.NoError(t, err)

	got := engine.LastRequest("GetHost")
	require.NotNil(t, got)
	name := got.ProtoReflect().Get(got.ProtoReflect().Descriptor().Fields().ByName("name"))
	assert.Equal(t, "web-1", name.String())
}

func TestCallStatusError(t *testing.T) {
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	engine := enginetest.Start(t, reg)
	engine.Fail("GetContact", codes.NotFound, "contact admin not found")

	m, err := reg.Lookup("GetContact")
	require.NoError(t, err)
	req, err := translate.ToMessage(m, []byte(`{"name": "admin"}`))
	require.NoError(t, err)

	_, err = rpcclient.Call(context.Background(), engine.Target(), m, req)
	var terr *rpcerr.TransportError
	require.True(t, errors.As(err, &terr), "err = %v", err)
	assert.Equal(t, codes.NotFound, terr.Code)
	assert.Equal(t, "contact admin not found", terr.Message)
	assert.Equal(t, rpcerr.ExitRPCErr, rpcerr.ExitCode(err))
}

func TestCallUnreachable(t *testing.T) {
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	m, err := reg.Lookup("GetVersion")
	require.NoError(t, err)

	// Grab a free port and release it so nothing listens there.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	target := rpcclient.Target{Host: "127.0.0.1", Port: strconv.Itoa(port)}
	_, err = rpcclient.Call(ctx, target, m, m.NewInput())

	var terr *rpcerr.TransportError
	require.True(t, errors.As(err, &terr), "err = %v", err)
	assert.Equal(t, codes.Unavailable, terr.Code)
}

func TestCallMissingPort(t *testing.T) {
	reg, err := schema.LoadEngine()
	require.NoError(t, err)
	m, err := reg.Lookup("GetVersion")
	require.NoError(t, err)

	_, err = rpcclient.Call(context.Background(), rpcclient.Target{}, m, m.NewInput())
	require.ErrorIs(t, err, rpcerr.ErrMissingPort)
}
