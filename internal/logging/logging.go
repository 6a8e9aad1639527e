// Package logging configures klog for the command line tools.
//
// klog's own flags are registered on a private flag set: its -v shorthand
// would collide with --verbose, so verbosity is exposed as --log-level.
package logging

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"sync"

	"k8s.io/klog/v2"
)

var (
	initOnce  sync.Once
	klogFlags *flag.FlagSet
)

func flags() *flag.FlagSet {
	initOnce.Do(func() {
		klogFlags = flag.NewFlagSet("klog", flag.ContinueOnError)
		klog.InitFlags(klogFlags)
	})
	return klogFlags
}

// Init sends logs to stderr at the given verbosity.
func Init(level int) error {
	if level < 0 {
		return fmt.Errorf("log level must be >= 0, got %d", level)
	}
	fs := flags()
	for name, value := range map[string]string{
		"logtostderr":     "true",
		"skip_headers":    "false",
		"one_output":      "true",
		"v":               strconv.Itoa(level),
		"stderrthreshold": "WARNING",
	} {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("setting klog flag %s: %w", name, err)
		}
	}
	return nil
}

// Redirect sends logs to w instead of stderr. Used by tests.
func Redirect(w io.Writer) {
	fs := flags()
	_ = fs.Set("logtostderr", "false")
	_ = fs.Set("alsologtostderr", "false")
	klog.SetOutput(w)
}

// Flush writes buffered log entries.
func Flush() {
	klog.Flush()
}
