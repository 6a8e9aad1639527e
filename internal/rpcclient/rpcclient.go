// Package rpcclient opens the channel to the engine and performs one call.
package rpcclient

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
)

// DefaultHost is used when no host is configured.
const DefaultHost = "127.0.0.1"

// Target is the engine address.
type Target struct {
	Host string
	Port string
}

// Validate checks that the port is set and numeric.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Port) == "" {
		return rpcerr.ErrMissingPort
	}
	n, err := strconv.Atoi(t.Port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w: %q", rpcerr.ErrInvalidPort, t.Port)
	}
	return nil
}

// Addr returns host:port, falling back to DefaultHost.
func (t Target) Addr() string {
	host := strings.TrimSpace(t.Host)
	if host == "" {
		host = DefaultHost
	}
	return net.JoinHostPort(host, t.Port)
}

// Dial creates an unauthenticated client connection to t. The connection
// is established lazily by the first call.
func Dial(t Target, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	dialOpts := make([]grpc.DialOption, 0, len(opts)+1)
	dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient("passthrough:///"+t.Addr(), dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating channel to %s: %w", t.Addr(), err)
	}
	return conn, nil
}

// Call dials t, invokes m once with req and closes the channel. RPC
// failures are returned as *rpcerr.TransportError.
func Call(ctx context.Context, t Target, m *schema.Method, req proto.Message) (proto.Message, error) {
	conn, err := Dial(t)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			klog.V(2).InfoS("closing channel", "target", t.Addr(), "err", cerr)
		}
	}()

	return Invoke(ctx, conn, m, req)
}

// Invoke performs one call of m over an already open channel.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, m *schema.Method, req proto.Message) (proto.Message, error) {
	klog.V(1).InfoS("invoking method", "method", m.FullMethod)
	resp, err := m.Invoke(ctx, conn, req)
	if err != nil {
		terr := rpcerr.FromRPC(m.Name, err)
		klog.V(1).InfoS("call failed", "method", m.FullMethod, "err", terr)
		return nil, terr
	}
	klog.V(2).InfoS("call succeeded", "method", m.FullMethod)
	return resp, nil
}
