package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/alexanderjulianmartinez/schemaprobe/internal/catalog"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/drift"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe"
)

var rule = strings.Repeat("=", 80)

// Printer writes the human-readable run output.
type Printer struct {
	w       io.Writer
	okFmt   *color.Color
	warnFmt *color.Color
	failFmt *color.Color
	headFmt *color.Color
}

func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		okFmt:   color.New(color.FgGreen),
		warnFmt: color.New(color.FgYellow),
		failFmt: color.New(color.FgRed),
		headFmt: color.New(color.FgBlue, color.Bold),
	}
	for _, c := range []*color.Color{p.okFmt, p.warnFmt, p.failFmt, p.headFmt} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) Guide(projectRef string) {
	PrintGuide(p.w, projectRef)
}

func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, p.headFmt.Sprint(title))
	fmt.Fprintln(p.w, rule)
}

// Status writes the single line that reports how one probe resolved.
func (p *Printer) Status(r probe.Result) {
	fmt.Fprintln(p.w, StatusLine(r, p.okFmt.Sprint, p.warnFmt.Sprint, p.failFmt.Sprint))
}

func StatusLine(r probe.Result, ok, warn, fail func(...any) string) string {
	switch r.Outcome {
	case probe.Success:
		return fmt.Sprintf("%s %s: %d columns", ok("✅"), r.Table, len(r.Schema.Columns))
	case probe.Empty:
		return fmt.Sprintf("%s  %s: empty table", warn("⚠️"), r.Table)
	case probe.NotFound:
		return fmt.Sprintf("%s %s: table not found", fail("❌"), r.Table)
	case probe.ProviderError:
		return fmt.Sprintf("%s  %s: error %d", warn("⚠️"), r.Table, r.StatusCode)
	default:
		desc := "unknown error"
		if r.Err != nil {
			desc = r.Err.Error()
		}
		return fmt.Sprintf("%s %s: error - %s", fail("❌"), r.Table, desc)
	}
}

// Columns prints every probed table with its inferred columns. Tables that did
// not yield a sample print their header only.
func (p *Printer) Columns(results *probe.Results, showTypes bool) {
	for _, r := range results.All() {
		fmt.Fprintf(p.w, "\n📋 Table: %s\n", r.Table)
		for _, c := range r.Schema.Columns {
			if showTypes {
				fmt.Fprintf(p.w, "   - %s (%s)\n", c.Name, c.Type)
			} else {
				fmt.Fprintf(p.w, "   - %s\n", c.Name)
			}
		}
	}
}

func (p *Printer) Catalog(res *catalog.InspectionResult) {
	for _, t := range res.Tables {
		fmt.Fprintf(p.w, "\n📋 Table: %s\n", t.Name)
		for _, c := range t.Columns {
			fmt.Fprintf(p.w, "   - %s\n", catalogColumn(c))
		}
	}
}

func catalogColumn(c catalog.ColumnInfo) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(" ")
	b.WriteString(c.Type)
	if c.MaxLength != nil {
		fmt.Fprintf(&b, "(%d)", *c.MaxLength)
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(*c.Default)
	}
	if c.PrimaryKey {
		b.WriteString(" PK")
	}
	return b.String()
}

func (p *Printer) Error(context string, err error) {
	fmt.Fprintf(p.w, "%s %s: %v\n", p.failFmt.Sprint("❌"), context, err)
}

func (p *Printer) Drift(rep *drift.Report) {
	if len(rep.Issues) == 0 {
		fmt.Fprintf(p.w, "%s no drift between REST samples and catalog\n", p.okFmt.Sprint("✅"))
		return
	}
	for _, iss := range rep.Issues {
		c := p.okFmt
		switch iss.Severity {
		case drift.SeverityBlock:
			c = p.failFmt
		case drift.SeverityWarn:
			c = p.warnFmt
		}
		target := iss.Table
		if iss.Column != "" {
			target += "." + iss.Column
		}
		fmt.Fprintf(p.w, "[%s] %s: %s\n", c.Sprint(iss.Severity), target, iss.Message)
	}
}
