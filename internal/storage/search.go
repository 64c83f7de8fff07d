/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes the in-app search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Filters are optional. Kinds can restrict to element kinds like: dialogue,
// action, scene_heading, character_cue, transition, note, synopsis, section.
// LineFrom/To are inclusive; 0 means unset.
// Limit/Offset implement pagination; reasonable defaults applied if zero.
type SearchQuery struct {
	Text      string
	Character string
	Location  string
	Kinds     []string
	LineFrom  int
	LineTo    int
	Limit     int
	Offset    int
}

// SearchResult represents a single match row.
// Snippet is an optional highlighted excerpt using [ ] markers when FTS text is used.
// SceneLine is 0 for matches outside any scene (title page, preamble).
type SearchResult struct {
	ElID       int64
	Kind       string
	LineNumber int
	SceneLine  int
	Snippet    string
}

// Search performs full-text search with optional filters over the embedded index.
// When q.Text is empty, it falls back to a non-FTS scan over elements with filters applied.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT e.el_id, e.kind, e.line_number, COALESCE(e.scene_line,0), snippet(fts_elements, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_elements JOIN elements e ON fts_elements.rowid = e.el_id\n")
		sb.WriteString("WHERE fts_elements MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT e.el_id, e.kind, e.line_number, COALESCE(e.scene_line,0), ''\n")
		sb.WriteString("FROM elements e\nWHERE 1=1\n")
	}
	if len(q.Kinds) > 0 {
		sb.WriteString(" AND e.kind IN (" + placeholders(len(q.Kinds)) + ")\n")
		for _, k := range q.Kinds {
			args = append(args, k)
		}
	}
	if q.LineFrom > 0 && q.LineTo > 0 && q.LineTo >= q.LineFrom {
		sb.WriteString(" AND e.line_number BETWEEN ? AND ?\n")
		args = append(args, q.LineFrom, q.LineTo)
	} else if q.LineFrom > 0 {
		sb.WriteString(" AND e.line_number >= ?\n")
		args = append(args, q.LineFrom)
	} else if q.LineTo > 0 {
		sb.WriteString(" AND e.line_number <= ?\n")
		args = append(args, q.LineTo)
	}
	// Character filter matches cue rows exactly; cue names are stored as written (uppercase).
	if s := strings.TrimSpace(q.Character); s != "" {
		sb.WriteString(" AND ( (e.character IS NOT NULL AND upper(e.character)=?) )\n")
		args = append(args, strings.ToUpper(s))
	}
	// Location filter: restrict to elements inside scenes whose location contains the token.
	if s := strings.TrimSpace(q.Location); s != "" {
		sb.WriteString(" AND e.scene_line IN (SELECT line_number FROM scenes WHERE lower(location) LIKE ?)\n")
		args = append(args, likeContains(strings.ToLower(s)))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY e.line_number, e.el_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sceneLine sql.NullInt64
		var sn sql.NullString
		if err := rows.Scan(&r.ElID, &r.Kind, &r.LineNumber, &sceneLine, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sceneLine.Valid {
			r.SceneLine = int(sceneLine.Int64)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SceneLines returns all indexed elements belonging to the scene whose heading
// is at the given line number, ordered by line.
func SceneLines(ctx context.Context, projectRoot string, sceneLine int) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	q := `SELECT e.el_id, e.kind, e.line_number, COALESCE(e.scene_line,0), ''
		FROM elements e
		WHERE e.scene_line = ?
		ORDER BY e.line_number, e.el_id`
	rows, err := db.QueryContext(ctx, q, sceneLine)
	if err != nil {
		return nil, fmt.Errorf("scene lines query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sceneCol sql.NullInt64
		if err := rows.Scan(&r.ElID, &r.Kind, &r.LineNumber, &sceneCol, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sceneCol.Valid {
			r.SceneLine = int(sceneCol.Int64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func likeContains(s string) string { return "%" + s + "%" }

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
