/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"goscreenwriter/internal/storage"
)

// SearchPG executes a search over the Postgres elements table using tsvector and filters
// and returns results mapped to storage.SearchResult to ease parity checks with
// the embedded index.
func SearchPG(ctx context.Context, db *sql.DB, scriptID int64, q storage.SearchQuery) ([]storage.SearchResult, error) {
	var (
		args []any
		b    strings.Builder
	)
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		b.WriteString("SELECT e.id AS el_id, e.kind, e.line_number, COALESCE(e.scene_line,0) AS scene_line, ")
		b.WriteString("COALESCE(ts_headline('simple', COALESCE(e.text,''), plainto_tsquery('simple', $1), 'StartSel=[, StopSel=], MaxFragments=1, MaxWords=12'), '') AS snippet ")
		b.WriteString("FROM elements e WHERE e.script_id = $2 AND e.search_vector @@ plainto_tsquery('simple', $1) ")
		args = append(args, q.Text, scriptID)
	} else {
		b.WriteString("SELECT e.id AS el_id, e.kind, e.line_number, COALESCE(e.scene_line,0) AS scene_line, '' AS snippet ")
		b.WriteString("FROM elements e WHERE e.script_id = $1 ")
		args = append(args, scriptID)
	}

	// Helper to add parameter and return placeholder like $n
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Kinds) > 0 {
		b.WriteString(" AND e.kind = ANY (" + place(q.Kinds) + ") ")
	}
	if q.LineFrom > 0 && q.LineTo > 0 && q.LineTo >= q.LineFrom {
		b.WriteString(" AND e.line_number BETWEEN " + place(q.LineFrom) + " AND " + place(q.LineTo) + " ")
	} else if q.LineFrom > 0 {
		b.WriteString(" AND e.line_number >= " + place(q.LineFrom) + " ")
	} else if q.LineTo > 0 {
		b.WriteString(" AND e.line_number <= " + place(q.LineTo) + " ")
	}
	if s := strings.TrimSpace(q.Character); s != "" {
		b.WriteString(" AND e.speaker IS NOT NULL AND upper(e.speaker) = " + place(strings.ToUpper(s)) + " ")
	}
	if s := strings.TrimSpace(q.Location); s != "" {
		b.WriteString(" AND e.scene_line IN (SELECT sc.line_number FROM scenes sc WHERE sc.script_id = e.script_id AND lower(sc.location) LIKE " + place("%"+strings.ToLower(s)+"%") + ") ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(" ORDER BY e.line_number, e.id ")
	b.WriteString(" LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []storage.SearchResult
	for rows.Next() {
		var r storage.SearchResult
		if err := rows.Scan(&r.ElID, &r.Kind, &r.LineNumber, &r.SceneLine, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
