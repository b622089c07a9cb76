package drift

// Severity levels for differences between REST samples and the catalog.
// - BLOCK when a probed table is absent from the catalog
// - WARN when the REST sample exposes a column the catalog does not know
// - INFO when the catalog has a column the sample did not expose

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

const (
	KindTableMissing  = "table_missing"
	KindColumnUnknown = "column_unknown"
	KindColumnHidden  = "column_hidden"
)

func SeverityForChange(kind string) string {
	switch kind {
	case KindTableMissing:
		return SeverityBlock
	case KindColumnUnknown:
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// MessageForChange returns a concise message for the given change kind.
func MessageForChange(kind string) string {
	switch kind {
	case KindTableMissing:
		return "served by REST but missing from catalog"
	case KindColumnUnknown:
		return "present in REST sample but missing from catalog"
	case KindColumnHidden:
		return "present in catalog but not exposed by REST"
	default:
		return ""
	}
}
