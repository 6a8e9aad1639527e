// Package schema holds the immutable registry of remote methods the tools
// can introspect and invoke.
package schema

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/centreon/engine-rpc/internal/rpcerr"
)

// EmptyMessage is the name of the input shape that needs no payload. Any
// message called Empty qualifies, whatever its package.
const EmptyMessage protoreflect.Name = "Empty"

// InvokeFunc performs one unary call of a method over conn.
type InvokeFunc func(ctx context.Context, conn grpc.ClientConnInterface, req proto.Message) (proto.Message, error)

// Method describes one remote call and carries its invocation closure.
type Method struct {
	Name       string
	FullMethod string // "/package.Service/Method"
	Input      protoreflect.MessageDescriptor
	Output     protoreflect.MessageDescriptor
	Invoke     InvokeFunc

	desc protoreflect.MethodDescriptor
}

// Descriptor returns the underlying method descriptor.
func (m *Method) Descriptor() protoreflect.MethodDescriptor {
	return m.desc
}

// HasEmptyInput reports whether the method takes a message named Empty,
// such as google.protobuf.Empty.
func (m *Method) HasEmptyInput() bool {
	return m.Input.Name() == EmptyMessage
}

// NewInput returns a fresh request message for the method.
func (m *Method) NewInput() *dynamicpb.Message {
	return dynamicpb.NewMessage(m.Input)
}

// NewOutput returns a fresh response message for the method.
func (m *Method) NewOutput() *dynamicpb.Message {
	return dynamicpb.NewMessage(m.Output)
}

// Comments returns the leading comments attached to the method in the
// .proto source, if any.
func (m *Method) Comments() string {
	loc := m.desc.ParentFile().SourceLocations().ByDescriptor(m.desc)
	return loc.LeadingComments
}

// Registry maps method names to methods. It is read-only after New.
type Registry struct {
	service protoreflect.ServiceDescriptor
	order   []string
	methods map[string]*Method
}

// New builds a registry from a service descriptor. Streaming methods are
// skipped: every tool in this module performs exactly one unary call.
func New(sd protoreflect.ServiceDescriptor) (*Registry, error) {
	if sd == nil {
		return nil, fmt.Errorf("no service descriptor")
	}

	mds := sd.Methods()
	r := &Registry{
		service: sd,
		order:   make([]string, 0, mds.Len()),
		methods: make(map[string]*Method, mds.Len()),
	}
	for i := 0; i < mds.Len(); i++ {
		md := mds.Get(i)
		if md.IsStreamingClient() || md.IsStreamingServer() {
			continue
		}
		m := &Method{
			Name:       string(md.Name()),
			FullMethod: fmt.Sprintf("/%s/%s", sd.FullName(), md.Name()),
			Input:      md.Input(),
			Output:     md.Output(),
			desc:       md,
		}
		m.Invoke = unaryInvoker(m)
		r.order = append(r.order, m.Name)
		r.methods[m.Name] = m
	}
	return r, nil
}

func unaryInvoker(m *Method) InvokeFunc {
	return func(ctx context.Context, conn grpc.ClientConnInterface, req proto.Message) (proto.Message, error) {
		resp := m.NewOutput()
		if err := conn.Invoke(ctx, m.FullMethod, req, resp); err != nil {
			return nil, err
		}
		return resp, nil
	}
}

// Service returns the service full name, e.g. "com.centreon.engine.Engine".
func (r *Registry) Service() protoreflect.FullName {
	return r.service.FullName()
}

// ServiceDescriptor returns the descriptor the registry was built from.
func (r *Registry) ServiceDescriptor() protoreflect.ServiceDescriptor {
	return r.service
}

// Len returns the number of methods.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names yields method names in declaration order. The sequence can be
// ranged over any number of times.
func (r *Registry) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range r.order {
			if !yield(name) {
				return
			}
		}
	}
}

// Methods yields methods in declaration order.
func (r *Registry) Methods() iter.Seq[*Method] {
	return func(yield func(*Method) bool) {
		for _, name := range r.order {
			if !yield(r.methods[name]) {
				return
			}
		}
	}
}

// Lookup returns the method called name.
func (r *Registry) Lookup(name string) (*Method, error) {
	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (check the list of methods with -l)", rpcerr.ErrUnknownMethod, name)
	}
	return m, nil
}
