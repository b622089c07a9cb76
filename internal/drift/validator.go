package drift

import (
	"github.com/alexanderjulianmartinez/schemaprobe/internal/catalog"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe"
)

type Issue struct {
	Table    string
	Column   string
	Kind     string
	Severity string
	Message  string
}

type Report struct {
	Issues []Issue
}

func (r *Report) add(kind, table, column string) {
	r.Issues = append(r.Issues, Issue{
		Table:    table,
		Column:   column,
		Kind:     kind,
		Severity: SeverityForChange(kind),
		Message:  MessageForChange(kind),
	})
}

// Compare checks every successfully sampled table against the catalog. Tables
// without a sample carry no column evidence and are skipped.
func Compare(results *probe.Results, cat *catalog.InspectionResult) *Report {
	report := &Report{}
	for _, res := range results.All() {
		if res.Outcome != probe.Success {
			continue
		}
		table, ok := cat.Table(res.Table)
		if !ok {
			report.add(KindTableMissing, res.Table, "")
			continue
		}

		known := map[string]bool{}
		for _, name := range table.ColumnNames() {
			known[name] = true
		}
		sampled := map[string]bool{}
		for _, name := range res.Schema.Names() {
			sampled[name] = true
			if !known[name] {
				report.add(KindColumnUnknown, res.Table, name)
			}
		}
		for _, name := range table.ColumnNames() {
			if !sampled[name] {
				report.add(KindColumnHidden, res.Table, name)
			}
		}
	}
	return report
}
