package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Outcome is the result of probing one external target.
type Outcome struct {
	HTTPStatus int
	Broken     bool
	Reason     string
}

// Prober checks external URLs with a HEAD request, falling back to GET when
// the HEAD is rejected or errors. Results are cached for the lifetime of the
// prober (one scan) keyed by target, and concurrent probes of the same
// target are coalesced so each distinct URL hits the network at most once.
type Prober struct {
	client *http.Client

	mu       sync.Mutex
	cache    map[string]Outcome
	inflight map[string]chan struct{}
}

func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{
		client:   &http.Client{Timeout: timeout},
		cache:    make(map[string]Outcome),
		inflight: make(map[string]chan struct{}),
	}
}

// Client exposes the underlying HTTP client for checks that need response
// bodies (image verification) with the same timeout policy.
func (p *Prober) Client() *http.Client { return p.client }

// Probe returns the cached outcome for target, waiting on an in-flight probe
// of the same target if one exists, or performing the request itself.
func (p *Prober) Probe(ctx context.Context, target string) Outcome {
	for {
		p.mu.Lock()
		if out, ok := p.cache[target]; ok {
			p.mu.Unlock()
			return out
		}
		if ch, ok := p.inflight[target]; ok {
			p.mu.Unlock()
			select {
			case <-ch:
				continue
			case <-ctx.Done():
				return Outcome{Broken: true, Reason: "timeout"}
			}
		}
		ch := make(chan struct{})
		p.inflight[target] = ch
		p.mu.Unlock()

		out := p.probe(ctx, target)

		p.mu.Lock()
		p.cache[target] = out
		delete(p.inflight, target)
		p.mu.Unlock()
		close(ch)
		return out
	}
}

func (p *Prober) probe(ctx context.Context, target string) Outcome {
	code, err := p.request(ctx, http.MethodHead, target)
	if err != nil || code >= 400 {
		// Some hosts reject HEAD outright; retry once with a full GET.
		code, err = p.request(ctx, http.MethodGet, target)
	}
	if err != nil {
		return Outcome{Broken: true, Reason: classifyNetErr(err)}
	}
	if code >= 400 {
		return Outcome{HTTPStatus: code, Broken: true, Reason: fmt.Sprintf("HTTP %d", code)}
	}
	return Outcome{HTTPStatus: code}
}

func (p *Prober) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func classifyNetErr(err error) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "timeout"
	}
	return "connection-error"
}
