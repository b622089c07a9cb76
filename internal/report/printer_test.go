package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderjulianmartinez/schemaprobe/internal/catalog"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/drift"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe"
)

func TestPrintGuide_ContainsSchemaQuery(t *testing.T) {
	var buf bytes.Buffer
	PrintGuide(&buf, "geqxvlie")
	out := buf.String()

	assert.Contains(t, out, SchemaQuery)
	assert.Contains(t, out, "https://supabase.com/dashboard/project/geqxvlie")
	assert.Contains(t, SchemaQuery, "FROM information_schema.tables t")
	assert.Contains(t, SchemaQuery, "JOIN information_schema.columns c")
	assert.Contains(t, SchemaQuery, "information_schema.table_constraints tc")
	assert.Contains(t, SchemaQuery, "WHERE tc.constraint_type = 'PRIMARY KEY'")
	assert.True(t, strings.HasSuffix(SchemaQuery, "ORDER BY t.table_name, c.ordinal_position;"))
}

func TestPrintGuide_UnknownProject(t *testing.T) {
	var buf bytes.Buffer
	PrintGuide(&buf, "")
	assert.Contains(t, buf.String(), "1. Go to: https://supabase.com/dashboard\n")
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Status(probe.Result{Table: "orders", Outcome: probe.Success, Schema: probe.Schema{Columns: []probe.Column{{Name: "id"}, {Name: "total"}}}})
	p.Status(probe.Result{Table: "payments", Outcome: probe.Empty})
	p.Status(probe.Result{Table: "kitchen_tickets", Outcome: probe.NotFound})
	p.Status(probe.Result{Table: "tables", Outcome: probe.ProviderError, StatusCode: 401})
	p.Status(probe.Result{Table: "users", Outcome: probe.TransportError, Err: errors.New("connection refused")})

	want := "✅ orders: 2 columns\n" +
		"⚠️  payments: empty table\n" +
		"❌ kitchen_tickets: table not found\n" +
		"⚠️  tables: error 401\n" +
		"❌ users: error - connection refused\n"
	assert.Equal(t, want, buf.String())
}

func TestColumns_ListsEveryTable(t *testing.T) {
	results := probe.NewResults()
	results.Add(probe.Result{Table: "orders", Outcome: probe.Success, Schema: probe.Schema{Columns: []probe.Column{
		{Name: "id", Type: probe.TypeInteger},
		{Name: "status", Type: probe.TypeText},
	}}})
	results.Add(probe.Result{Table: "payments", Outcome: probe.Empty})

	var buf bytes.Buffer
	NewPrinter(&buf, false).Columns(results, false)
	assert.Equal(t, "\n📋 Table: orders\n   - id\n   - status\n\n📋 Table: payments\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, false).Columns(results, true)
	assert.Contains(t, buf.String(), "   - id (integer)\n   - status (text)\n")
}

func TestCatalogAndDrift(t *testing.T) {
	maxLen := int64(20)
	def := "'open'::character varying"
	cat := &catalog.InspectionResult{Tables: []catalog.TableInfo{{
		Name: "orders",
		Columns: []catalog.ColumnInfo{
			{Name: "id", Type: "integer", PrimaryKey: true},
			{Name: "status", Type: "character varying", MaxLength: &maxLen, Default: &def},
			{Name: "total", Type: "numeric", Nullable: true},
		},
	}}}

	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Catalog(cat)
	out := buf.String()
	assert.Contains(t, out, "   - id integer NOT NULL PK\n")
	assert.Contains(t, out, "   - status character varying(20) NOT NULL DEFAULT 'open'::character varying\n")
	assert.Contains(t, out, "   - total numeric\n")

	buf.Reset()
	p.Drift(&drift.Report{})
	assert.Contains(t, buf.String(), "no drift")

	buf.Reset()
	p.Drift(&drift.Report{Issues: []drift.Issue{{Table: "orders", Column: "x", Severity: drift.SeverityWarn, Message: "m"}}})
	assert.Equal(t, "[WARN] orders.x: m\n", buf.String())
}
