package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrUnsupportedDriver = errors.New("unsupported catalog driver")

const postgresColumnsQuery = `
	SELECT
		t.table_name::text,
		c.column_name::text,
		c.data_type::text,
		c.character_maximum_length::bigint,
		c.is_nullable::text,
		c.column_default::text,
		CASE WHEN pk.column_name IS NOT NULL THEN 'PK' ELSE '' END
	FROM information_schema.tables t
	JOIN information_schema.columns c
		ON t.table_name = c.table_name
		AND t.table_schema = c.table_schema
	LEFT JOIN (
		SELECT ku.table_schema, ku.table_name, ku.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage ku
			ON tc.constraint_name = ku.constraint_name
			AND tc.table_schema = ku.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
	) pk ON c.table_schema = pk.table_schema
		AND c.table_name = pk.table_name
		AND c.column_name = pk.column_name
	WHERE t.table_schema = $1
	ORDER BY t.table_name, c.ordinal_position
`

const mysqlColumnsQuery = `
	SELECT
		c.TABLE_NAME,
		c.COLUMN_NAME,
		c.DATA_TYPE,
		c.CHARACTER_MAXIMUM_LENGTH,
		c.IS_NULLABLE,
		c.COLUMN_DEFAULT,
		CASE WHEN c.COLUMN_KEY = 'PRI' THEN 'PK' ELSE '' END
	FROM INFORMATION_SCHEMA.TABLES t
	JOIN INFORMATION_SCHEMA.COLUMNS c
		ON t.TABLE_NAME = c.TABLE_NAME
		AND t.TABLE_SCHEMA = c.TABLE_SCHEMA
	WHERE t.TABLE_SCHEMA = ?
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION
`

// Inspector reads column metadata straight from information_schema.
type Inspector struct {
	db      *sql.DB
	driver  string
	schema  string
	timeout time.Duration
}

// SQLDriver maps a configured driver name to the registered database/sql driver.
func SQLDriver(name string) (string, error) {
	switch name {
	case "postgres", "postgresql", "pgx":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, name)
	}
}

func NewInspector(ctx context.Context, driver, dsn, schema string) (*Inspector, error) {
	sqlDriver, err := SQLDriver(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", driver, err)
	}

	return &Inspector{
		db:      db,
		driver:  sqlDriver,
		schema:  schema,
		timeout: 30 * time.Second,
	}, nil
}

func (i *Inspector) Close() error {
	return i.db.Close()
}

func (i *Inspector) query() string {
	if i.driver == "mysql" {
		return mysqlColumnsQuery
	}
	return postgresColumnsQuery
}

func (i *Inspector) Inspect(ctx context.Context) (*InspectionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, i.query(), i.schema)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	res := &InspectionResult{}
	index := map[string]int{}
	for rows.Next() {
		var (
			table, name, dataType, nullable, pk string
			maxLen                              sql.NullInt64
			def                                 sql.NullString
		)
		if err := rows.Scan(&table, &name, &dataType, &maxLen, &nullable, &def, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		col := ColumnInfo{
			Name:       name,
			Type:       dataType,
			Nullable:   nullable == "YES",
			PrimaryKey: pk == "PK",
		}
		if maxLen.Valid {
			n := maxLen.Int64
			col.MaxLength = &n
		}
		if def.Valid {
			d := def.String
			col.Default = &d
		}

		pos, ok := index[table]
		if !ok {
			pos = len(res.Tables)
			index[table] = pos
			res.Tables = append(res.Tables, TableInfo{Name: table})
		}
		t := &res.Tables[pos]
		t.Columns = append(t.Columns, col)
		if col.PrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, col.Name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return res, nil
}
