// Package rpcerr defines the error taxonomy shared by the tools and maps it
// to process exit codes.
package rpcerr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitRPCErr   = 1
	ExitUsageErr = 2
	ExitInternal = 3
)

var (
	ErrAmbiguousCommand = errors.New("only one of -l|--list, -h|--help, -d|--description, -e|--exe may be used")
	ErrMissingPort      = errors.New("port is not defined")
	ErrInvalidPort      = errors.New("port must be a number between 1 and 65535")
	ErrUnknownMethod    = errors.New("no method with this name")
	ErrMalformedJSON    = errors.New("malformed JSON")
	ErrSchemaMismatch   = errors.New("JSON does not match the input message")
	ErrMissingPayload   = errors.New("method input is not Empty, a JSON payload is required (-a or -f)")
	ErrUnreadableInput  = errors.New("cannot read JSON input file")
	ErrInvalidArgs      = errors.New("invalid arguments")
)

// TransportError is returned when the RPC itself fails.
type TransportError struct {
	Method  string
	Code    codes.Code
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %s: %s", e.Method, e.Code, e.Message)
}

// FromRPC converts an error returned by a gRPC call into a TransportError.
// Context errors raised before the call reached the wire are mapped to
// their gRPC equivalents by status.FromContextError.
func FromRPC(method string, err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		st = status.FromContextError(err)
	}
	return &TransportError{Method: method, Code: st.Code(), Message: st.Message()}
}

// ExitCode classifies err into one of the process exit codes.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var terr *TransportError
	if errors.As(err, &terr) {
		return ExitRPCErr
	}

	switch {
	case errors.Is(err, ErrAmbiguousCommand),
		errors.Is(err, ErrMissingPort),
		errors.Is(err, ErrInvalidPort),
		errors.Is(err, ErrUnknownMethod),
		errors.Is(err, ErrMalformedJSON),
		errors.Is(err, ErrSchemaMismatch),
		errors.Is(err, ErrMissingPayload),
		errors.Is(err, ErrUnreadableInput),
		errors.Is(err, ErrInvalidArgs):
		return ExitUsageErr
	}
	return ExitInternal
}

// IsUsage reports whether err is caused by the caller's input rather than
// the engine or the local environment.
func IsUsage(err error) bool {
	return ExitCode(err) == ExitUsageErr
}
