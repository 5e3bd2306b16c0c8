// # internal/graph/coordinator.go
//
// The coordinator owns the document registry and the include graph across
// documents. All mutation funnels through one mutex-guarded control flow:
// parse requests join a FIFO queue, the queue drains only while no include
// file read is outstanding, and a discovered include is therefore fully
// linked before any further parsing observes the graph.
package graph

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"hawk/internal/config"
	"hawk/internal/document"
	"hawk/internal/lang"
	"hawk/internal/shared/observability"
	"hawk/internal/symbol"
)

// Loader supplies file-system access. ReadFile is asynchronous: done fires
// exactly once, from any goroutine.
type Loader interface {
	ReadFile(path string, done func(text string, err error))
	Exists(path string) bool
}

// Publisher receives each document's diagnostics once per drain cycle.
type Publisher interface {
	Publish(uri string, diags []symbol.Diagnostic)
}

type parseTask struct {
	doc  *document.Document
	text string
}

type Coordinator struct {
	mu     sync.Mutex
	cfg    *config.Config
	loader Loader
	pub    Publisher

	docs        map[string]*document.Document
	queue       []parseTask
	outstanding int  // include reads in flight
	parsing     bool // single-flight defect detector

	needCheck map[*document.Document]bool
}

func NewCoordinator(cfg *config.Config, loader Loader, pub Publisher) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		loader:    loader,
		pub:       pub,
		docs:      make(map[string]*document.Document),
		needCheck: make(map[*document.Document]bool),
	}
}

// Open registers uri as an editor root and queues its first parse.
func (c *Coordinator) Open(uri, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc := c.ensure(uri)
	doc.Root = true
	c.enqueue(doc, text)
	c.drain()
}

// Update queues a re-parse of an already known document.
func (c *Coordinator) Update(uri, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[uri]
	if !ok {
		doc = c.ensure(uri)
		doc.Root = true
	}
	c.enqueue(doc, text)
	c.drain()
}

// Close drops the root flag, clears the document's diagnostics and sweeps
// whatever became unreachable.
func (c *Coordinator) Close(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[uri]
	if !ok {
		return
	}
	doc.Root = false
	doc.Close()
	c.pub.Publish(uri, nil)
	if !doc.IsIncluded() {
		delete(c.docs, uri)
	}
	c.sweep()
	c.updateGauges()
}

// Document returns the document registered under uri.
func (c *Coordinator) Document(uri string) (*document.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[uri]
	return doc, ok
}

// Documents returns a snapshot of all registered documents.
func (c *Coordinator) Documents() []*document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*document.Document, 0, len(c.docs))
	for _, doc := range c.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

func (c *Coordinator) ensure(uri string) *document.Document {
	if doc, ok := c.docs[uri]; ok {
		return doc
	}
	doc := document.New(uri)
	c.docs[uri] = doc
	return doc
}

func (c *Coordinator) enqueue(doc *document.Document, text string) {
	c.queue = append(c.queue, parseTask{doc: doc, text: text})
}

// drain processes queued parses in FIFO order. It stops while an include
// read is outstanding and finishes a cycle with the analysis pass plus one
// diagnostics flush.
func (c *Coordinator) drain() {
	for c.outstanding == 0 && len(c.queue) > 0 {
		task := c.queue[0]
		c.queue = c.queue[1:]
		c.parseOne(task)
	}
	if c.outstanding > 0 {
		return
	}
	c.analyze()
	c.flush()
	c.updateGauges()
}

func (c *Coordinator) parseOne(task parseTask) {
	if c.parsing {
		// the queue exists precisely so this cannot happen; log it as a
		// defect instead of corrupting the document
		slog.Error("re-entrant parse detected", "uri", task.doc.URI)
		return
	}
	c.parsing = true
	defer func() { c.parsing = false }()

	start := time.Now()
	task.doc.Clear()
	opts := lang.Options{
		Gawk:              c.cfg.Diags.Gawk,
		CompatWarnings:    c.cfg.Diags.Compatibility,
		SemicolonWarnings: c.cfg.Diags.MissingSemicolon,
	}
	lang.Parse(task.text, opts, task.doc)
	task.doc.Paths().CloseAll(endPosition(task.text))

	for _, dir := range task.doc.PendingIncludes {
		c.handleInclude(task.doc, dir)
	}
	task.doc.PendingIncludes = nil

	signaturesChanged := task.doc.FinishParse()
	c.needCheck[task.doc] = true
	if signaturesChanged {
		for _, dependent := range c.dependents(task.doc) {
			c.needCheck[dependent] = true
		}
	}
	c.sweep()
	observability.ParseDuration.Observe(time.Since(start).Seconds())
}

// dependents walks included-by edges transitively with a visited guard.
func (c *Coordinator) dependents(doc *document.Document) []*document.Document {
	visited := map[*document.Document]bool{doc: true}
	var out []*document.Document
	queue := []*document.Document{doc}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for includer := range cur.IncludedBy {
			if visited[includer] {
				continue
			}
			visited[includer] = true
			out = append(out, includer)
			queue = append(queue, includer)
		}
	}
	return out
}

// handleInclude resolves one @include directive: reuse a known document,
// or create it, wire the edge and request its text asynchronously.
func (c *Coordinator) handleInclude(from *document.Document, dir document.IncludeDirective) {
	path, ok := c.resolveIncludePath(from.URI, dir.Path, dir.Relative)
	if !ok {
		from.Message(symbol.SeverityError,
			fmt.Sprintf("include file '%s' not found", dir.Path), dir.Span.Pos, dir.Span.Length)
		return
	}

	if target, known := c.docs[path]; known {
		from.AddInclude(target, dir.Span)
		return
	}

	target := document.New(path)
	c.docs[path] = target
	from.AddInclude(target, dir.Span)

	c.outstanding++
	observability.IncludeReadsTotal.Inc()
	c.loader.ReadFile(path, func(text string, err error) {
		c.completeRead(target, from, dir, text, err)
	})
}

func (c *Coordinator) completeRead(target, from *document.Document, dir document.IncludeDirective, text string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outstanding--
	if err != nil {
		// terminal: no retry, the edge is severed and the includer told
		from.ReportIncludeFailure(
			fmt.Sprintf("cannot read include '%s'", dir.Path), dir.Span)
		delete(from.Includes, target)
		delete(target.IncludedBy, from)
		delete(c.docs, target.URI)
		c.sweep()
		c.drain()
		return
	}
	c.enqueue(target, text)
	c.drain()
}

// resolveIncludePath tries the includer's directory first, then every
// configured search-path entry, each with and without the .awk suffix.
func (c *Coordinator) resolveIncludePath(fromURI, raw string, relative bool) (string, bool) {
	var candidates []string
	if !relative || filepath.IsAbs(raw) {
		candidates = []string{raw}
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(fromURI), raw))
		for _, dir := range c.cfg.SearchPath {
			candidates = append(candidates, filepath.Join(dir, raw))
		}
	}
	for _, cand := range candidates {
		if c.loader.Exists(cand) {
			return cand, true
		}
		if !strings.HasSuffix(cand, ".awk") && c.loader.Exists(cand+".awk") {
			return cand + ".awk", true
		}
	}
	return "", false
}

// sweep garbage-collects documents no live root reaches, repeating until a
// fixed point since unlinking one document may orphan another.
func (c *Coordinator) sweep() {
	for {
		removed := false
		for uri, doc := range c.docs {
			if doc.Root || doc.IsIncluded() {
				continue
			}
			doc.Close()
			delete(c.docs, uri)
			delete(c.needCheck, doc)
			c.pub.Publish(uri, nil)
			removed = true
		}
		if !removed {
			return
		}
	}
}

// analyze runs the second pass over every document marked since the last
// cycle.
func (c *Coordinator) analyze() {
	if len(c.needCheck) == 0 {
		return
	}
	for doc := range c.needCheck {
		if c.cfg.Diags.CheckArity {
			doc.CheckFunctionCalls(c.cfg.Diags.Gawk)
		}
		delete(c.needCheck, doc)
	}
}

// flush publishes dirty documents' diagnostics, capped and re-sorted.
func (c *Coordinator) flush() {
	for _, doc := range c.docs {
		if !doc.DiagsDirty() {
			continue
		}
		diags := CapDiagnostics(doc.Diagnostics(), c.cfg.Diags.Max)
		observability.DiagnosticsPublished.Add(float64(len(diags)))
		c.pub.Publish(doc.URI, diags)
	}
}

// CapDiagnostics enforces the configured maximum, dropping lower-severity
// entries first and re-sorting the survivors by position.
func CapDiagnostics(diags []symbol.Diagnostic, max int) []symbol.Diagnostic {
	if max <= 0 || len(diags) <= max {
		out := append([]symbol.Diagnostic(nil), diags...)
		sortByPosition(out)
		return out
	}
	bySeverity := append([]symbol.Diagnostic(nil), diags...)
	sort.SliceStable(bySeverity, func(i, j int) bool {
		return bySeverity[i].Severity < bySeverity[j].Severity
	})
	out := bySeverity[:max]
	sortByPosition(out)
	return out
}

func sortByPosition(diags []symbol.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Pos.Before(diags[j].Pos)
	})
}

func (c *Coordinator) updateGauges() {
	edges := 0
	for _, doc := range c.docs {
		edges += len(doc.Includes)
	}
	observability.GraphDocuments.Set(float64(len(c.docs)))
	observability.GraphIncludeEdges.Set(float64(edges))
}

func endPosition(text string) symbol.Position {
	line, col := 0, 0
	for _, r := range text {
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return symbol.Position{Line: line, Col: col}
}
