package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
	"github.com/centreon/engine-rpc/internal/translate"
)

func execute(ctx context.Context, w io.Writer, reg *schema.Registry, cmd command) error {
	m, err := reg.Lookup(cmd.method)
	if err != nil {
		return err
	}

	payload, err := readPayload(m, cmd.payload)
	if err != nil {
		return err
	}
	req, err := translate.ToMessage(m, payload)
	if err != nil {
		return err
	}

	if cmd.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.timeout)
		defer cancel()
	}

	klog.V(1).InfoS("executing", "method", m.Name, "target", cmd.target.Addr())
	resp, err := rpcclient.Call(ctx, cmd.target, m, req)
	if err != nil {
		return err
	}

	if cmd.output.isJSON() {
		text, err := translate.ToJSON(resp)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, text)
		return err
	}
	if text := translate.ToText(resp, cmd.verbose); text != "" {
		_, err = fmt.Fprintln(w, text)
	}
	return err
}

// readPayload returns the JSON request text. Methods taking
// google.protobuf.Empty need none.
func readPayload(m *schema.Method, src payloadSource) ([]byte, error) {
	switch {
	case src.inline != "":
		return []byte(src.inline), nil
	case src.file == "-":
		data, err := io.ReadAll(rootStdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %v", rpcerr.ErrUnreadableInput, err)
		}
		return data, nil
	case src.file != "":
		data, err := os.ReadFile(src.file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", rpcerr.ErrUnreadableInput, err)
		}
		return data, nil
	case m.HasEmptyInput():
		return []byte("{}"), nil
	default:
		return nil, fmt.Errorf("%w: %s takes %s", rpcerr.ErrMissingPayload, m.Name, m.Input.FullName())
	}
}
