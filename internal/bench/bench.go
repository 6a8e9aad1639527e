// Package bench measures the latency of repeated unary calls to the
// engine over one shared channel.
package bench

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/rpcerr"
	"github.com/centreon/engine-rpc/internal/schema"
)

// Options controls a run.
type Options struct {
	// Count is the number of calls to issue.
	Count int
	// Concurrency caps in-flight calls. Values below 1 mean 1.
	Concurrency int
	// Rate caps calls per second. Zero means unpaced.
	Rate float64
}

// Report summarizes a run. Latencies cover successful and failed calls.
type Report struct {
	Method   string        `json:"method"`
	Count    int           `json:"count"`
	Errors   int           `json:"errors"`
	FirstErr string        `json:"first_error,omitempty"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Mean     time.Duration `json:"mean"`
	P50      time.Duration `json:"p50"`
	P90      time.Duration `json:"p90"`
	P99      time.Duration `json:"p99"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Throughput returns completed calls per second.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Count) / r.Elapsed.Seconds()
}

// Run calls m Count times with req over conn. Call failures are counted in
// the report; only context cancellation and invalid options fail the run.
func Run(ctx context.Context, conn grpc.ClientConnInterface, m *schema.Method, req proto.Message, opts Options) (Report, error) {
	if opts.Count < 1 {
		return Report{}, fmt.Errorf("%w: count must be at least 1, got %d", rpcerr.ErrInvalidArgs, opts.Count)
	}
	if opts.Rate < 0 {
		return Report{}, fmt.Errorf("%w: rate must be >= 0, got %v", rpcerr.ErrInvalidArgs, opts.Rate)
	}
	concurrency := max(opts.Concurrency, 1)

	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	limiter := rate.NewLimiter(limit, concurrency)

	var (
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, opts.Count)
		failures  int
		firstErr  error
	)

	klog.V(1).InfoS("bench starting", "method", m.Name, "count", opts.Count, "concurrency", concurrency, "rate", opts.Rate)
	start := time.Now()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i := 0; i < opts.Count; i++ {
		if err := limiter.Wait(egCtx); err != nil {
			break
		}
		eg.Go(func() error {
			began := time.Now()
			_, err := rpcclient.Invoke(egCtx, conn, m, req)
			took := time.Since(began)

			mu.Lock()
			defer mu.Unlock()
			latencies = append(latencies, took)
			if err != nil {
				failures++
				if firstErr == nil {
					firstErr = err
				}
			}
			return nil
		})
	}
	_ = eg.Wait()
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := summarize(latencies)
	report.Method = m.Name
	report.Errors = failures
	report.Elapsed = elapsed
	if firstErr != nil {
		report.FirstErr = firstErr.Error()
	}
	klog.V(1).InfoS("bench done", "method", m.Name, "count", report.Count, "errors", report.Errors, "elapsed", elapsed)
	return report, nil
}

func summarize(latencies []time.Duration) Report {
	r := Report{Count: len(latencies)}
	if len(latencies) == 0 {
		return r
	}
	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	r.Min = sorted[0]
	r.Max = sorted[len(sorted)-1]
	r.Mean = total / time.Duration(len(sorted))
	r.P50 = percentile(sorted, 50)
	r.P90 = percentile(sorted, 90)
	r.P99 = percentile(sorted, 99)
	return r
}

// percentile uses the nearest-rank method on sorted.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	rank = min(max(rank, 1), len(sorted))
	return sorted[rank-1]
}
