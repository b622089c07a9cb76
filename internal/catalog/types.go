package catalog

type ColumnInfo struct {
	Name       string
	Type       string
	MaxLength  *int64
	Nullable   bool
	Default    *string
	PrimaryKey bool
}

type TableInfo struct {
	Name       string
	Columns    []ColumnInfo
	PrimaryKey []string
}

func (t TableInfo) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

type InspectionResult struct {
	Tables []TableInfo
}

func (r *InspectionResult) Table(name string) (TableInfo, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableInfo{}, false
}
