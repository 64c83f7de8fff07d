/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend is the optional Postgres store for parse results. It lets a
// writers' room keep several scripts queryable in one place. The core pipeline
// never touches it; everything here is reachable only when a DSN is configured.
package backend

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DSNFromEnv resolves the backend DSN from GSW_PG_DSN, then DATABASE_URL.
// Empty means the backend is not configured.
func DSNFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("GSW_PG_DSN")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

// Store wraps the Postgres connection for script storage and search.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects, pings, and applies embedded migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("backend DSN is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: applog.WithComponent("backend")}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle for search helpers and tests.
func (s *Store) DB() *sql.DB { return s.db }

// applyMigrations applies embedded SQL migrations in filename order.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	// dialect=PostgreSQL
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied := map[int64]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, fname := range files {
		version, err := parseVersion(fname)
		if err != nil {
			return err
		}
		if applied[version] {
			continue
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", fname))
		if err != nil {
			return err
		}
		sqlText := string(b)
		if strings.TrimSpace(sqlText) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, sqlText); err != nil {
			return fmt.Errorf("apply %s: %w", fname, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations(version, name) VALUES($1,$2) ON CONFLICT DO NOTHING`, version, fname); err != nil {
			return fmt.Errorf("record %s: %w", fname, err)
		}
	}
	return nil
}

func parseVersion(name string) (int64, error) {
	base := path.Base(name)
	parts := strings.SplitN(base, "_", 2)
	if len(parts) == 0 {
		return 0, errors.New("invalid migration filename: " + name)
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version from %s: %w", name, err)
	}
	return v, nil
}

// ScriptInfo is one row of ListScripts.
type ScriptInfo struct {
	ID        int64
	Name      string
	Version   int64
	UpdatedAt time.Time
}

// ListScripts returns stored scripts, newest first.
func (s *Store) ListScripts(ctx context.Context) ([]ScriptInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, version, updated_at FROM scripts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []ScriptInfo
	for rows.Next() {
		var si ScriptInfo
		if err := rows.Scan(&si.ID, &si.Name, &si.Version, &si.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// SaveParse upserts the script row by name and replaces its derived rows in a
// single transaction. Returns the script ID.
func (s *Store) SaveParse(ctx context.Context, name, text string, sp fountain.Screenplay) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, errors.New("script name is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `INSERT INTO scripts(name, raw_text, version, updated_at)
		VALUES($1, $2, 1, now())
		ON CONFLICT (name) DO UPDATE SET raw_text = EXCLUDED.raw_text, version = scripts.version + 1, updated_at = now()
		RETURNING id`, name, text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert script: %w", err)
	}

	for _, q := range []string{
		`DELETE FROM elements WHERE script_id = $1`,
		`DELETE FROM scenes WHERE script_id = $1`,
		`DELETE FROM characters WHERE script_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return 0, fmt.Errorf("clear derived rows: %w", err)
		}
	}

	insEl, err := tx.PrepareContext(ctx, `INSERT INTO elements(script_id, kind, line_number, scene_line, speaker, text)
		VALUES($1,$2,$3,$4,$5,$6)`)
	if err != nil {
		return 0, fmt.Errorf("prepare element insert: %w", err)
	}
	defer func() { _ = insEl.Close() }()
	sceneLineFor := func(line int) any {
		var best any
		for _, sc := range sp.Scenes {
			if sc.LineNumber <= line {
				best = sc.LineNumber
			}
		}
		return best
	}
	for _, el := range sp.Elements {
		var char any
		if el.Kind == fountain.KindCharacterCue || el.Kind == fountain.KindDualDialogueCue {
			char = el.Text
		}
		if _, err := insEl.ExecContext(ctx, id, el.Kind.String(), el.LineNumber, sceneLineFor(el.LineNumber), char, el.Text); err != nil {
			return 0, fmt.Errorf("insert element: %w", err)
		}
	}

	insScene, err := tx.PrepareContext(ctx, `INSERT INTO scenes(script_id, line_number, scene_number, heading, location, time_of_day, category, word_count, dialogue_lines, action_lines)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`)
	if err != nil {
		return 0, fmt.Errorf("prepare scene insert: %w", err)
	}
	defer func() { _ = insScene.Close() }()
	for _, sc := range sp.Scenes {
		if _, err := insScene.ExecContext(ctx, id, sc.LineNumber, sc.SceneNumber, sc.Heading, sc.Location, sc.TimeOfDay.String(), sc.Category.String(), sc.WordCount, sc.DialogueLineCount, sc.ActionLineCount); err != nil {
			return 0, fmt.Errorf("insert scene: %w", err)
		}
	}

	insChar, err := tx.PrepareContext(ctx, `INSERT INTO characters(script_id, name, first_line, last_line, dialogue_count, scene_count)
		VALUES($1,$2,$3,$4,$5,$6)`)
	if err != nil {
		return 0, fmt.Errorf("prepare character insert: %w", err)
	}
	defer func() { _ = insChar.Close() }()
	names := make([]string, 0, len(sp.Characters))
	for n := range sp.Characters {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		ap := sp.Characters[n]
		if _, err := insChar.ExecContext(ctx, id, n, ap.FirstAppearanceLine, ap.LastAppearanceLine, ap.DialogueCount, ap.SceneCount); err != nil {
			return 0, fmt.Errorf("insert character: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Info("parse saved", slog.String("name", name), slog.Int64("script_id", id), slog.Int("elements", len(sp.Elements)))
	return id, nil
}
