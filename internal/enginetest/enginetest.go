// Package enginetest runs an in-process engine that serves every method of
// a schema registry on a loopback listener, for tests.
package enginetest

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/schema"
)

// HandlerFunc answers one call. req is the decoded request.
type HandlerFunc func(ctx context.Context, req proto.Message) (proto.Message, error)

// Engine is a fake engine. Methods without a handler answer with an
// empty response message.
type Engine struct {
	reg *schema.Registry
	srv *grpc.Server
	lis net.Listener

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    map[string]int
	last     map[string]proto.Message
}

// Start serves reg on 127.0.0.1 with a random port. The server is stopped
// when the test ends.
func Start(tb testing.TB, reg *schema.Registry) *Engine {
	tb.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("listen: %v", err)
	}

	e := &Engine{
		reg:      reg,
		srv:      grpc.NewServer(),
		lis:      lis,
		handlers: make(map[string]HandlerFunc),
		calls:    make(map[string]int),
		last:     make(map[string]proto.Message),
	}
	desc := e.serviceDesc()
	e.srv.RegisterService(&desc, e)

	go func() {
		_ = e.srv.Serve(lis)
	}()
	tb.Cleanup(e.srv.Stop)
	return e
}

// Port returns the listening port.
func (e *Engine) Port() string {
	return strconv.Itoa(e.lis.Addr().(*net.TCPAddr).Port)
}

// Target returns the address clients should dial.
func (e *Engine) Target() rpcclient.Target {
	return rpcclient.Target{Host: "127.0.0.1", Port: e.Port()}
}

// Handle installs h for method.
func (e *Engine) Handle(method string, h HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[method] = h
}

// RespondJSON makes method answer with the response described by
// jsonText.
func (e *Engine) RespondJSON(tb testing.TB, method, jsonText string) {
	tb.Helper()
	m, err := e.reg.Lookup(method)
	if err != nil {
		tb.Fatalf("RespondJSON: %v", err)
	}
	resp := m.NewOutput()
	if err := protojson.Unmarshal([]byte(jsonText), resp); err != nil {
		tb.Fatalf("RespondJSON(%s): %v", method, err)
	}
	e.Handle(method, func(context.Context, proto.Message) (proto.Message, error) {
		return proto.Clone(resp), nil
	})
}

// Fail makes method answer with the given status.
func (e *Engine) Fail(method string, code codes.Code, msg string) {
	e.Handle(method, func(context.Context, proto.Message) (proto.Message, error) {
		return nil, status.Error(code, msg)
	})
}

// Calls returns how many times method was called.
func (e *Engine) Calls(method string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (e *Engine) TotalCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, n := range e.calls {
		total += n
	}
	return total
}

// LastRequest returns the last request received by method, or nil.
func (e *Engine) LastRequest(method string) proto.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last[method]
}

func (e *Engine) serviceDesc() grpc.ServiceDesc {
	desc := grpc.ServiceDesc{
		ServiceName: string(e.reg.Service()),
		HandlerType: (*any)(nil),
		Metadata:    string(e.reg.ServiceDescriptor().ParentFile().Path()),
	}
	for m := range e.reg.Methods() {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.Name,
			Handler:    e.unaryHandler(m),
		})
	}
	return desc
}

func (e *Engine) unaryHandler(m *schema.Method) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := m.NewInput()
		if err := dec(req); err != nil {
			return nil, err
		}
		call := func(ctx context.Context, req any) (any, error) {
			return e.serve(ctx, m, req.(proto.Message))
		}
		if interceptor == nil {
			return call(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: e, FullMethod: m.FullMethod}
		return interceptor(ctx, req, info, call)
	}
}

func (e *Engine) serve(ctx context.Context, m *schema.Method, req proto.Message) (proto.Message, error) {
	e.mu.Lock()
	e.calls[m.Name]++
	e.last[m.Name] = req
	h := e.handlers[m.Name]
	e.mu.Unlock()

	if h == nil {
		return m.NewOutput(), nil
	}
	return h(ctx, req)
}
