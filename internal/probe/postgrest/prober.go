package postgrest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderjulianmartinez/schemaprobe/internal/config"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe"
)

// Prober samples tables through a PostgREST endpoint, one row per table.
type Prober struct {
	cfg    config.Endpoint
	client *http.Client
	log    *slog.Logger
}

type Option func(*Prober)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) { p.log = l }
}

func New(cfg config.Endpoint, opts ...Option) *Prober {
	p := &Prober{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prober) Name() string {
	return "postgrest"
}

// TableURL returns the limited read URL for table.
func (p *Prober) TableURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s?limit=1", p.cfg.URL, url.PathEscape(table))
}

func (p *Prober) Probe(ctx context.Context, table string) probe.Result {
	res := probe.Result{Table: table}
	target := p.TableURL(table)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.Outcome = probe.TransportError
		res.Err = err
		return res
	}
	req.Header.Set("apikey", p.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("probe failed", "table", table, "url", target, "error", err)
		res.Outcome = probe.TransportError
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	p.log.Debug("probe response", "table", table, "url", target,
		"status", resp.StatusCode, "duration", time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		res.Outcome = probe.NotFound
		return res
	default:
		res.Outcome = probe.ProviderError
		res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		drain(resp.Body)
		return res
	}

	rec, err := probe.DecodeFirstRecord(resp.Body)
	if err != nil {
		res.Outcome = probe.TransportError
		res.Err = err
		return res
	}
	if rec == nil {
		res.Outcome = probe.Empty
		return res
	}

	res.Outcome = probe.Success
	res.Sample = rec
	res.Schema = rec.Schema()
	return res
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}
