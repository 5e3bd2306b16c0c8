// # cmd/hawk/app.go
package main

import (
	"context"
	"fmt"
	"hawk/internal/config"
	"hawk/internal/graph"
	"hawk/internal/history"
	"hawk/internal/shared/util"
	"hawk/internal/symbol"
	"hawk/internal/watcher"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
)

type App struct {
	Config *config.Config
	Coord  *graph.Coordinator

	store      *history.Store
	limiter    *util.Limiter
	watch      *watcher.Watcher
	teaProgram *tea.Program

	// Published diagnostics keyed by URI; updated by the coordinator while
	// it holds its own lock, so this map carries its own.
	diagsMu sync.Mutex
	diags   map[string][]symbol.Diagnostic
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		limiter: util.NewLimiter(cfg.Watch.ReparsesPerSecond, 1),
		diags:   make(map[string][]symbol.Diagnostic),
	}
	a.Coord = graph.NewCoordinator(cfg, graph.FSLoader{}, a)

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("history store unavailable", "path", cfg.History.Path, "error", err)
	} else {
		a.store = store
	}

	return a, nil
}

// Publish implements graph.Publisher. Must not call back into the
// coordinator.
func (a *App) Publish(uri string, diags []symbol.Diagnostic) {
	a.diagsMu.Lock()
	defer a.diagsMu.Unlock()
	if diags == nil {
		delete(a.diags, uri)
		return
	}
	a.diags[uri] = diags
}

func (a *App) InitialScan() error {
	files, err := a.ScanDirectories(a.Config.WatchPaths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	for _, filePath := range files {
		content, err := os.ReadFile(filePath)
		if err != nil {
			slog.Warn("failed to read file", "path", filePath, "error", err)
			continue
		}
		a.Coord.Open(filePath, string(content))
	}
	return nil
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			ext := filepath.Ext(path)
			if ext != ".awk" && ext != ".gawk" {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	if err := a.limiter.Wait(context.Background(), 1); err != nil {
		slog.Warn("reparse rate limit wait interrupted", "error", err)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.Coord.Close(path)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to re-read file", "path", path, "error", err)
			continue
		}
		a.Coord.Update(path, string(content))
	}

	a.PrintSummary(time.Since(start))
	a.SaveSnapshot()

	if a.teaProgram != nil {
		a.teaProgram.Send(a.buildUpdateMsg())
	}
}

func (a *App) snapshotDiags() map[string][]symbol.Diagnostic {
	a.diagsMu.Lock()
	defer a.diagsMu.Unlock()
	out := make(map[string][]symbol.Diagnostic, len(a.diags))
	for uri, list := range a.diags {
		out[uri] = list
	}
	return out
}

func (a *App) buildUpdateMsg() updateMsg {
	docs := a.Coord.Documents()
	edges := 0
	for _, doc := range docs {
		edges += len(doc.Includes)
	}

	var entries []diagEntry
	for uri, list := range a.snapshotDiags() {
		for _, d := range list {
			entries = append(entries, diagEntry{URI: uri, Diag: d})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].URI != entries[j].URI {
			return entries[i].URI < entries[j].URI
		}
		return entries[i].Diag.Pos.Before(entries[j].Diag.Pos)
	})

	return updateMsg{
		entries:       entries,
		documentCount: len(docs),
		edgeCount:     edges,
	}
}

func (a *App) PrintSummary(duration time.Duration) {
	docs := a.Coord.Documents()
	diags := a.snapshotDiags()

	errorCount, warningCount := 0, 0
	for _, list := range diags {
		for _, d := range list {
			switch d.Severity {
			case symbol.SeverityError:
				errorCount++
			case symbol.SeverityWarning:
				warningCount++
			}
		}
	}

	fmt.Println(strings.Repeat("-", 40))
	if duration > 0 {
		fmt.Printf("Update: %d documents in %v\n", len(docs), duration)
	} else {
		fmt.Printf("Scan: %d documents\n", len(docs))
	}

	if errorCount == 0 && warningCount == 0 {
		fmt.Println("✅ No problems found.")
	} else {
		fmt.Printf("⚠️  %d errors, %d warnings:\n", errorCount, warningCount)
		uris := make([]string, 0, len(diags))
		for uri := range diags {
			uris = append(uris, uri)
		}
		sort.Strings(uris)
		for _, uri := range uris {
			for _, d := range diags[uri] {
				fmt.Printf("   %s:%d:%d: %s: %s\n",
					uri, d.Pos.Line+1, d.Pos.Col+1, d.Severity, d.Message)
			}
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

// SaveSnapshot records the current graph shape and diagnostic counts.
func (a *App) SaveSnapshot() {
	if a.store == nil {
		return
	}

	docs := a.Coord.Documents()
	snap := history.Snapshot{DocumentCount: len(docs)}
	for _, doc := range docs {
		snap.IncludeEdges += len(doc.Includes)
		doc.EachDefinition(symbol.DefineFunction, func(*symbol.Definition) {
			snap.FunctionCount++
		})
	}

	for _, list := range a.snapshotDiags() {
		for _, d := range list {
			switch d.Severity {
			case symbol.SeverityError:
				snap.ErrorCount++
			case symbol.SeverityWarning:
				snap.WarningCount++
			case symbol.SeverityInfo:
				snap.InfoCount++
			case symbol.SeverityHint:
				snap.HintCount++
			}
		}
	}

	if err := a.store.SaveSnapshot(snap); err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(a.buildUpdateMsg())
	}()

	_, err := p.Run()
	return err
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.watch = w
	return w.Watch(a.Config.WatchPaths)
}

func (a *App) Shutdown() {
	if a.watch != nil {
		_ = a.watch.Close()
		a.watch = nil
	}
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
}
