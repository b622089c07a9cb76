package report

import (
	"fmt"
	"io"
)

const dashboardURL = "https://supabase.com/dashboard"

// SchemaQuery lists every column of the public schema with its type,
// nullability, default and primary-key flag.
const SchemaQuery = `SELECT
    t.table_name,
    c.column_name,
    c.data_type,
    c.character_maximum_length,
    c.is_nullable,
    c.column_default,
    CASE
        WHEN pk.column_name IS NOT NULL THEN 'PK'
        ELSE ''
    END as is_primary_key
FROM information_schema.tables t
JOIN information_schema.columns c
    ON t.table_name = c.table_name
    AND t.table_schema = c.table_schema
LEFT JOIN (
    SELECT ku.table_name, ku.column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage ku
        ON tc.constraint_name = ku.constraint_name
    WHERE tc.constraint_type = 'PRIMARY KEY'
) pk ON c.table_name = pk.table_name AND c.column_name = pk.column_name
WHERE t.table_schema = 'public'
ORDER BY t.table_name, c.ordinal_position;`

// DashboardURL returns the console link for projectRef, or the console root
// when the ref is unknown.
func DashboardURL(projectRef string) string {
	if projectRef == "" {
		return dashboardURL
	}
	return dashboardURL + "/project/" + projectRef
}

func PrintGuide(w io.Writer, projectRef string) {
	fmt.Fprintf(w, `
╔══════════════════════════════════════════════════════════════════════════════╗
║                         RETRIEVING THE DATABASE SCHEMA                       ║
╚══════════════════════════════════════════════════════════════════════════════╝

To get the COMPLETE schema of your database, you have 2 options:

OPTION 1: Hosted SQL Editor (RECOMMENDED)
─────────────────────────────────────────
1. Go to: %s
2. Click "SQL Editor" in the left-hand menu
3. Paste and run the query from option 2

OPTION 2: Direct SQL query
──────────────────────────
Run this query in the SQL Editor:

%s

═══════════════════════════════════════════════════════════════════════════════
`, DashboardURL(projectRef), SchemaQuery)
}
