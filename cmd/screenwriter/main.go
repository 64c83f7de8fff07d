/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"goscreenwriter/internal/backend"
	"goscreenwriter/internal/config"
	"goscreenwriter/internal/crash"
	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
	"goscreenwriter/internal/version"
)

func usage() {
	fmt.Println("Go Screen Writer — screenplay text pipeline")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  screenwriter version|-v|--version          Show version")
	fmt.Println("  screenwriter init <dir> <name>             Create a new project at <dir> with name <name>")
	fmt.Println("  screenwriter open <dir>                    Open project at <dir> and print summary")
	fmt.Println("  screenwriter save <dir> <script-file>      Import script text, save a snapshot, update the index")
	fmt.Println("  screenwriter parse <dir>                   Parse the project script and print element counts")
	fmt.Println("  screenwriter scenes <dir>                  List segmented scenes with metrics")
	fmt.Println("  screenwriter characters <dir>              List characters with appearance data")
	fmt.Println("  screenwriter stats <dir>                   Print summary statistics")
	fmt.Println("  screenwriter export <dir>                  Write parse/scenes/characters JSON under exports/")
	fmt.Println("  screenwriter index <dir>                   Rebuild the embedded search index")
	fmt.Println("  screenwriter search <dir> <query>          Full-text search over the indexed script")
	fmt.Println("  screenwriter push <dir> <name>             Save the parse to the Postgres backend (GSW_PG_DSN)")
}

func main() {
	// User config first: it already folds the env overrides in, so logging
	// and telemetry see one merged view.
	cfg, backendToken, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.Init(tcfg)
	defer telemetry.Flush(context.Background())

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		telemetry.Event("command_run", map[string]any{"command": args[1]})
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Screen Writer — screenplay text pipeline")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			p := domain.Project{Name: name, Drafts: []domain.Draft{{Number: 1}}}
			h, err := storage.InitProject(abs, p)
			if err != nil {
				fail(l, "init failed", err)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			ph = mustOpen(l, args)
			fmt.Printf("Opened project: %s\n", ph.Project.Name)
			fmt.Printf("Drafts: %d\n", len(ph.Project.Drafts))
			fmt.Println("Root:", ph.Root)
			return
		case "save":
			if len(args) < 4 {
				fmt.Println("save requires <dir> and <script-file>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			b, err := os.ReadFile(args[3])
			if err != nil {
				fail(l, "read script file failed", err)
			}
			if err := storage.WriteScript(ph, string(b)); err != nil {
				fail(l, "write script failed", err)
			}
			ctx := context.Background()
			if err := storage.SaveScriptSnapshot(ctx, ph, string(b), time.Now()); err != nil {
				fail(l, "save snapshot failed", err)
			}
			if err := storage.UpdateIndex(ctx, ph); err != nil {
				fail(l, "update index failed", err)
			}
			ph.Project.Drafts = append(ph.Project.Drafts, domain.Draft{
				Number:  len(ph.Project.Drafts) + 1,
				SavedAt: time.Now().UTC().Format(time.RFC3339),
			})
			if err := storage.Save(ph); err != nil {
				fail(l, "save project failed", err)
			}
			telemetry.Event("script_saved", map[string]any{"bytes": len(b), "drafts": len(ph.Project.Drafts)})
			fmt.Println("Script saved, snapshot recorded, index updated.")
			return
		case "parse":
			ph = mustOpen(l, args)
			sp := mustParse(l, ph)
			telemetry.Event("parse_completed", map[string]any{
				"elements":   len(sp.Elements),
				"scenes":     len(sp.Scenes),
				"characters": len(sp.Characters),
			})
			fmt.Printf("Title page entries: %d\n", len(sp.TitlePage))
			fmt.Printf("Elements: %d\n", len(sp.Elements))
			fmt.Printf("Scenes: %d\n", len(sp.Scenes))
			fmt.Printf("Characters: %d\n", len(sp.Characters))
			return
		case "scenes":
			ph = mustOpen(l, args)
			sp := mustParse(l, ph)
			for _, sc := range sp.Scenes {
				fmt.Printf("%3d  line %-5d %-10s %-6s  %s  (words=%d dialogue=%d action=%d)\n",
					sc.SceneNumber, sc.LineNumber, sc.Category, sc.TimeOfDay, sc.Heading,
					sc.WordCount, sc.DialogueLineCount, sc.ActionLineCount)
			}
			return
		case "characters":
			ph = mustOpen(l, args)
			sp := mustParse(l, ph)
			names := make([]string, 0, len(sp.Characters))
			for n := range sp.Characters {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				ap := sp.Characters[n]
				fmt.Printf("%-20s lines %d..%d  dialogue=%d scenes=%d\n",
					n, ap.FirstAppearanceLine, ap.LastAppearanceLine, ap.DialogueCount, ap.SceneCount)
			}
			return
		case "stats":
			ph = mustOpen(l, args)
			sp := mustParse(l, ph)
			r := fountain.Summarize(sp.Scenes, sp.Characters)
			fmt.Printf("Scenes: %d\n", r.SceneCount)
			fmt.Printf("Words: %d\n", r.WordCount)
			fmt.Printf("Dialogue lines: %d\n", r.DialogueLineCount)
			fmt.Printf("Action lines: %d\n", r.ActionLineCount)
			fmt.Printf("Characters: %d\n", r.CharacterCount)
			fmt.Printf("Avg words/scene: %.1f\n", r.AvgWordsPerScene)
			if r.BusiestCharacter != "" {
				fmt.Printf("Busiest character: %s\n", r.BusiestCharacter)
			}
			return
		case "export":
			ph = mustOpen(l, args)
			sp := mustParse(l, ph)
			for _, f := range []func() (string, error){
				func() (string, error) { return storage.ExportParse(ph, sp) },
				func() (string, error) { return storage.ExportScenes(ph, sp.Scenes) },
				func() (string, error) { return storage.ExportCharacters(ph, sp.Characters) },
			} {
				path, err := f()
				if err != nil {
					fail(l, "export failed", err)
				}
				fmt.Println("Wrote", path)
			}
			return
		case "index":
			ph = mustOpen(l, args)
			if err := storage.RebuildIndex(context.Background(), ph); err != nil {
				fail(l, "rebuild index failed", err)
			}
			fmt.Println("Index rebuilt at", storage.IndexPath(ph.Root))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			res, err := storage.Search(context.Background(), ph.Root, storage.SearchQuery{Text: args[3]})
			if err != nil {
				fail(l, "search failed", err)
			}
			for _, r := range res {
				fmt.Printf("line %-5d %-16s %s\n", r.LineNumber, r.Kind, r.Snippet)
			}
			if len(res) == 0 {
				fmt.Println("No matches.")
			}
			return
		case "push":
			if len(args) < 4 {
				fmt.Println("push requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			dsn := backend.DSNFromEnv()
			if dsn == "" {
				dsn = cfg.Backend.DSN
			}
			if dsn == "" {
				fmt.Println("No backend DSN configured (set GSW_PG_DSN, DATABASE_URL, or backend.dsn in the config file).")
				os.Exit(2)
			}
			if backendToken != "" && os.Getenv("PGPASSWORD") == "" {
				// keyring-held credential; pgx reads it when the DSN omits a password
				_ = os.Setenv("PGPASSWORD", backendToken)
			}
			text, err := storage.ReadScript(ph)
			if err != nil {
				fail(l, "read script failed", err)
			}
			ctx := context.Background()
			st, err := backend.Open(ctx, dsn)
			if err != nil {
				fail(l, "backend open failed", err)
			}
			defer func() { _ = st.Close() }()
			sp := fountain.Parse(text)
			id, err := st.SaveParse(ctx, args[3], text, sp)
			if err != nil {
				fail(l, "backend save failed", err)
			}
			telemetry.Event("parse_pushed", map[string]any{"elements": len(sp.Elements), "scenes": len(sp.Scenes)})
			fmt.Printf("Pushed script %q as id %d\n", args[3], id)
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 3 {
		fmt.Println(args[1], "requires <dir>")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		fail(l, "open failed", err)
	}
	return h
}

func mustParse(l *slog.Logger, ph *storage.ProjectHandle) fountain.Screenplay {
	text, err := storage.ReadScript(ph)
	if err != nil {
		fail(l, "read script failed", err)
	}
	return fountain.Parse(text)
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}
