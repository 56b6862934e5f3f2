//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// SQLScriptName is the file written by WriteSQLScript.
const SQLScriptName = "all_data.sql"

// insertChunkSize bounds the rows per INSERT statement.
const insertChunkSize = 5000

// WriteSQLScript writes the whole dataset as a single transactional script
// into dir/all_data.sql.
func WriteSQLScript(dir string, ds *model.Dataset) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, SQLScriptName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := EncodeSQLScript(f, ds); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logging.Info().Str("path", path).Msg("Saved SQL script")
	return nil
}

// EncodeSQLScript writes the script to w. Triggers and foreign keys are
// suspended with session_replication_role while rows load, and each serial
// sequence is advanced past the largest id afterwards.
func EncodeSQLScript(w io.Writer, ds *model.Dataset) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "BEGIN;")
	fmt.Fprintln(bw, "SET session_replication_role = 'replica';")
	fmt.Fprintln(bw)

	for _, t := range Tables {
		rows := t.rows(ds)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(bw, "-- %s: %d rows\n", t.Name, len(rows))
		for start := 0; start < len(rows); start += insertChunkSize {
			end := min(start+insertChunkSize, len(rows))
			writeInsert(bw, t, rows[start:end])
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "SET session_replication_role = 'origin';")
	for _, t := range Tables {
		if t.IDColumn == "" {
			continue
		}
		fmt.Fprintln(bw, setvalStatement(t))
	}
	fmt.Fprintln(bw, "COMMIT;")

	return bw.Flush()
}

func writeInsert(w *bufio.Writer, t Table, rows [][]any) {
	fmt.Fprintf(w, "INSERT INTO %s (%s) VALUES\n", pgx.Identifier{t.Name}.Sanitize(), quotedColumns(t.Columns))
	for i, row := range rows {
		w.WriteString("(")
		for j, v := range row {
			if j > 0 {
				w.WriteString(", ")
			}
			w.WriteString(formatSQL(v))
		}
		if i == len(rows)-1 {
			w.WriteString(");\n")
		} else {
			w.WriteString("),\n")
		}
	}
}

func quotedColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

// setvalStatement advances the table's sequence to its current max id.
// An empty table leaves MAX NULL, which setval ignores.
func setvalStatement(t Table) string {
	return fmt.Sprintf("SELECT setval('%s', (SELECT MAX(%s) FROM %s));",
		t.Sequence(), t.IDColumn, t.Name)
}
