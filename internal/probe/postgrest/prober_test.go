package postgrest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/schemaprobe/internal/config"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe"
)

const testKey = "anon-key"

func newRestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != testKey || r.Header.Get("Authorization") != "Bearer "+testKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("limit") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/rest/v1/orders":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":7,"table_id":3,"status":"open","total":12.5,"created_at":"2024-05-01T10:00:00+00:00","notes":null}]`))
		case "/rest/v1/payments":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		case "/rest/v1/kitchen_tickets":
			w.WriteHeader(http.StatusNotFound)
		case "/rest/v1/users":
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Errorf("response writer does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				conn.Close()
			}
		case "/rest/v1/menu_items":
			w.Write([]byte(`{"message":"not a list"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestProber(url string) *Prober {
	return New(config.Endpoint{URL: url, APIKey: testKey, Timeout: 5 * time.Second})
}

func TestProbe_SampleRecordColumnsKeepServerOrder(t *testing.T) {
	ts := newRestServer(t)
	res := newTestProber(ts.URL).Probe(context.Background(), "orders")

	require.Equal(t, probe.Success, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"id", "table_id", "status", "total", "created_at", "notes"}, res.Schema.Names())
	require.NotNil(t, res.Sample)
	assert.Equal(t, res.Schema.Names(), res.Sample.Keys)

	types := map[string]string{}
	for _, c := range res.Schema.Columns {
		types[c.Name] = c.Type
	}
	assert.Equal(t, probe.TypeInteger, types["id"])
	assert.Equal(t, probe.TypeDecimal, types["total"])
	assert.Equal(t, probe.TypeTimestamp, types["created_at"])
	assert.Equal(t, probe.TypeUnknown, types["notes"])
}

func TestProbe_EmptyTable(t *testing.T) {
	ts := newRestServer(t)
	res := newTestProber(ts.URL).Probe(context.Background(), "payments")

	assert.Equal(t, probe.Empty, res.Outcome)
	assert.Empty(t, res.Schema.Columns)
	assert.Nil(t, res.Sample)
}

func TestProbe_NotFound(t *testing.T) {
	ts := newRestServer(t)
	res := newTestProber(ts.URL).Probe(context.Background(), "kitchen_tickets")

	assert.Equal(t, probe.NotFound, res.Outcome)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestProbe_ProviderErrorCarriesStatus(t *testing.T) {
	ts := newRestServer(t)
	res := newTestProber(ts.URL).Probe(context.Background(), "tables")

	assert.Equal(t, probe.ProviderError, res.Outcome)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestProbe_MalformedBodyIsTransportError(t *testing.T) {
	ts := newRestServer(t)
	res := newTestProber(ts.URL).Probe(context.Background(), "menu_items")

	assert.Equal(t, probe.TransportError, res.Outcome)
	assert.ErrorIs(t, res.Err, probe.ErrNotArray)
}

func TestProbe_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	res := newTestProber(url).Probe(context.Background(), "users")
	assert.Equal(t, probe.TransportError, res.Outcome)
	assert.Error(t, res.Err)
}

func TestRun_EveryTableResolvesOnce(t *testing.T) {
	ts := newRestServer(t)
	tables := config.DefaultTables()

	var observed []string
	results := probe.Run(context.Background(), newTestProber(ts.URL), tables, func(r probe.Result) {
		observed = append(observed, r.Table)
	})

	require.Equal(t, len(tables), results.Len())
	assert.Equal(t, tables, results.Tables())
	assert.Equal(t, tables, observed)

	expected := map[string]probe.Outcome{
		"users":           probe.TransportError,
		"tables":          probe.ProviderError,
		"menu_categories": probe.ProviderError,
		"menu_items":      probe.TransportError,
		"orders":          probe.Success,
		"order_items":     probe.ProviderError,
		"payments":        probe.Empty,
		"kitchen_tickets": probe.NotFound,
	}
	for table, want := range expected {
		r, ok := results.Get(table)
		require.True(t, ok, "missing result for %s", table)
		assert.Equal(t, want, r.Outcome, "table %s", table)
	}
}

func TestTableURL(t *testing.T) {
	p := newTestProber("https://abc.supabase.co")
	assert.Equal(t, "https://abc.supabase.co/rest/v1/order_items?limit=1", p.TableURL("order_items"))
	assert.False(t, strings.Contains(p.TableURL("a/b"), "a/b"))
}
