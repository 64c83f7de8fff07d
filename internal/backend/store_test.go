/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"goscreenwriter/internal/fountain"
	"goscreenwriter/internal/storage"
)

func TestDSNFromEnvPrecedence(t *testing.T) {
	t.Setenv("GSW_PG_DSN", "postgres://primary")
	t.Setenv("DATABASE_URL", "postgres://fallback")
	if got := DSNFromEnv(); got != "postgres://primary" {
		t.Fatalf("GSW_PG_DSN should win, got %q", got)
	}
	t.Setenv("GSW_PG_DSN", "")
	if got := DSNFromEnv(); got != "postgres://fallback" {
		t.Fatalf("DATABASE_URL fallback broken, got %q", got)
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil || v != 1 {
		t.Fatalf("parseVersion: v=%d err=%v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Fatalf("expected error for unversioned filename")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("no embedded migrations")
	}
}

func TestInitMigrationColumnsMatchInserts(t *testing.T) {
	b, err := migrationsFS.ReadFile("migrations/0001_init.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	ddl := string(b)
	// The element row stores the delimiter-stripped text, and the search
	// vector is generated from that same column.
	if !strings.Contains(ddl, "to_tsvector('simple', COALESCE(text, ''))") {
		t.Fatalf("search_vector must be generated from the text column:\n%s", ddl)
	}
	elStart := strings.Index(ddl, "CREATE TABLE IF NOT EXISTS elements")
	if elStart < 0 {
		t.Fatalf("init migration missing elements table:\n%s", ddl)
	}
	elBlock := ddl[elStart:]
	if end := strings.Index(elBlock, ");"); end >= 0 {
		elBlock = elBlock[:end]
	}
	if strings.Contains(elBlock, "raw_text") {
		t.Fatalf("elements must not declare a raw_text column:\n%s", elBlock)
	}
	for _, col := range []string{"speaker", "scene_line", "kind", "line_number"} {
		if !strings.Contains(ddl, col) {
			t.Fatalf("init migration missing %q column:\n%s", col, ddl)
		}
	}
}

// openStoreForTest connects to a developer Postgres instance; skips when
// unavailable so the suite stays green without a database.
func openStoreForTest(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("GSW_PG_DSN")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		t.Skip("no postgres DSN configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := Open(ctx, dsn)
	if err != nil {
		t.Skipf("cannot open postgres: %v", err)
	}
	return st
}

func TestE2E_SaveParseAndSearch(t *testing.T) {
	st := openStoreForTest(t)
	defer func() { _ = st.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	text := "INT. KITCHEN - NIGHT\n\nSarah stirs a pot of stew.\n\nSARAH\nThe night is long.\n"
	sp := fountain.Parse(text)
	name := "e2e-" + time.Now().Format("20060102150405.000")
	id, err := st.SaveParse(ctx, name, text, sp)
	if err != nil {
		t.Fatalf("SaveParse: %v", err)
	}

	// Idempotent re-save bumps version, does not duplicate rows
	id2, err := st.SaveParse(ctx, name, text, sp)
	if err != nil {
		t.Fatalf("SaveParse again: %v", err)
	}
	if id2 != id {
		t.Fatalf("upsert returned different id: %d vs %d", id2, id)
	}

	list, err := st.ListScripts(ctx)
	if err != nil {
		t.Fatalf("ListScripts: %v", err)
	}
	var found bool
	for _, si := range list {
		if si.ID == id {
			found = true
			if si.Version != 2 {
				t.Fatalf("expected version 2 after re-save, got %d", si.Version)
			}
		}
	}
	if !found {
		t.Fatalf("saved script not listed")
	}

	res, err := SearchPG(ctx, st.DB(), id, storage.SearchQuery{Text: "stew"})
	if err != nil {
		t.Fatalf("SearchPG: %v", err)
	}
	if len(res) != 1 || res[0].Kind != "action" {
		t.Fatalf("unexpected search results: %+v", res)
	}

	cueRes, err := SearchPG(ctx, st.DB(), id, storage.SearchQuery{Character: "sarah"})
	if err != nil {
		t.Fatalf("SearchPG character: %v", err)
	}
	if len(cueRes) != 1 || cueRes[0].Kind != "character_cue" {
		t.Fatalf("unexpected cue results: %+v", cueRes)
	}
}
