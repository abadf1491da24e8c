package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"raycompile/internal/logger"
	"raycompile/internal/metrics"
	"raycompile/internal/model"
	"raycompile/internal/xray"
)

type Config struct {
	URL     string
	Timeout time.Duration
	Retries int
	Workers int
}

// Result is the outcome for one profile. Latency is zero when Err is set.
type Result struct {
	UUID    string
	Latency time.Duration
	Err     error
}

// Millis converts the result into the stored speed value, -1 on failure.
func (r Result) Millis() int {
	if r.Err != nil {
		return -1
	}
	ms := int(r.Latency.Milliseconds())
	if ms == 0 {
		ms = 1
	}
	return ms
}

type Prober struct {
	cfg Config
	mc  *metrics.Collector
}

// New returns a Prober. mc may be nil.
func New(cfg Config, mc *metrics.Collector) *Prober {
	if cfg.Workers <= 0 {
		cfg.Workers = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &Prober{cfg: cfg, mc: mc}
}

// Latency requests the probe URL through client and returns the time to the
// response headers of the first successful attempt.
func (pr *Prober) Latency(ctx context.Context, client *http.Client) (time.Duration, error) {
	var lastErr error

	for i := 0; i <= pr.cfg.Retries; i++ {
		d, err := pr.measure(ctx, client)
		if err == nil {
			if pr.mc != nil {
				pr.mc.RecordSuccess(i, d)
			}
			return d, nil
		}

		lastErr = err
		if pr.mc != nil {
			pr.mc.RecordFailure(err)
		}
		if ctx.Err() != nil {
			break
		}

		// Brief backoff
		if i < pr.cfg.Retries {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(200 * time.Millisecond):
			}
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no probe attempt made")
	}
	return 0, lastErr
}

func (pr *Prober) measure(ctx context.Context, client *http.Client) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, pr.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pr.cfg.URL, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return 0, fmt.Errorf("probe failed with status: %d", resp.StatusCode)
	}
	return elapsed, nil
}

// MakeClient returns an HTTP client that dials through the local socks
// inbound on port.
func (pr *Prober) MakeClient(port int) *http.Client {
	proxyURL, _ := url.Parse(fmt.Sprintf("socks5://127.0.0.1:%d", port))

	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
			DialContext: (&net.Dialer{
				Timeout: pr.cfg.Timeout,
			}).DialContext,
			ResponseHeaderTimeout: pr.cfg.Timeout,
			DisableKeepAlives:     true,
		},
		Timeout: pr.cfg.Timeout,
	}
}

// Run probes profiles in batches of Workers, one engine instance per batch.
// Results come back in input order. progress, when set, is called once per
// profile and never concurrently. On cancellation the results gathered so
// far are returned with the context error; entries never reached have an
// empty UUID.
func (pr *Prober) Run(ctx context.Context, profiles []model.Profile, progress func(Result)) ([]Result, error) {
	results := make([]Result, len(profiles))
	if len(profiles) == 0 {
		return results, nil
	}

	batchSize := pr.cfg.Workers
	poolPorts, err := xray.FreePorts(batchSize)
	if err != nil {
		return nil, err
	}
	logger.Log.Debugf("Allocated port pool: %v", poolPorts)

	var mu sync.Mutex
	report := func(i int, r Result) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = r
		if progress != nil {
			progress(r)
		}
	}

	assembler := xray.NewAssembler(xray.Options{})

	for start := 0; start < len(profiles); start += batchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := start + batchSize
		if end > len(profiles) {
			end = len(profiles)
		}
		batch := profiles[start:end]

		outs := make([]*xray.Outbound, len(batch))
		for i := range batch {
			out, err := assembler.Assemble(&batch[i])
			if err != nil {
				report(start+i, Result{UUID: batch[i].UUID, Err: err})
				continue
			}
			outs[i] = out
		}

		portMap, instance, err := xray.StartBatch(outs, poolPorts[:len(batch)])
		if err != nil {
			logger.Log.Warnf("Batch failed Xray start: %v", err)
			for i := range batch {
				if outs[i] != nil {
					report(start+i, Result{UUID: batch[i].UUID, Err: err})
				}
			}
			continue
		}

		var wg sync.WaitGroup
		for i := range batch {
			if outs[i] == nil {
				continue
			}
			port, ok := portMap[i]
			if !ok {
				report(start+i, Result{UUID: batch[i].UUID, Err: fmt.Errorf("engine rejected outbound")})
				continue
			}

			wg.Add(1)
			go func(idx int, uuid string, localPort int) {
				defer wg.Done()
				d, err := pr.Latency(ctx, pr.MakeClient(localPort))
				report(idx, Result{UUID: uuid, Latency: d, Err: err})
			}(start+i, batch[i].UUID, port)
		}
		wg.Wait()
		instance.Close()
	}

	return results, nil
}
