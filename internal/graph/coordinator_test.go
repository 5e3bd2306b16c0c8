package graph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hawk/internal/config"
	"hawk/internal/symbol"
)

// fakeLoader serves file contents from a map. Reads are queued and released
// by the test, which mirrors the asynchronous transport the coordinator is
// written against.
type fakeLoader struct {
	mu      sync.Mutex
	files   map[string]string
	pending []func()
}

func newFakeLoader(files map[string]string) *fakeLoader {
	return &fakeLoader{files: files}
}

func (l *fakeLoader) ReadFile(path string, done func(text string, err error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, func() {
		l.mu.Lock()
		text, ok := l.files[path]
		l.mu.Unlock()
		if !ok {
			done("", errors.New("no such file"))
			return
		}
		done(text, nil)
	})
}

func (l *fakeLoader) Exists(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.files[path]
	return ok
}

// release runs queued read completions until none remain; completions may
// queue further reads.
func (l *fakeLoader) release() {
	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			l.mu.Unlock()
			return
		}
		next := l.pending[0]
		l.pending = l.pending[1:]
		l.mu.Unlock()
		next()
	}
}

type fakePublisher struct {
	mu    sync.Mutex
	diags map[string][]symbol.Diagnostic
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{diags: make(map[string][]symbol.Diagnostic)}
}

func (p *fakePublisher) Publish(uri string, diags []symbol.Diagnostic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if diags == nil {
		delete(p.diags, uri)
		return
	}
	p.diags[uri] = diags
}

func (p *fakePublisher) published(uri string) []symbol.Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.diags[uri]
}

func testSetup(files map[string]string) (*Coordinator, *fakeLoader, *fakePublisher) {
	cfg := config.Default()
	cfg.Diags.Gawk = true
	cfg.SearchPath = []string{"."}
	loader := newFakeLoader(files)
	pub := newFakePublisher()
	return NewCoordinator(cfg, loader, pub), loader, pub
}

func TestCoordinator_OpenPublishesDiagnostics(t *testing.T) {
	c, loader, pub := testSetup(nil)

	c.Open("main.awk", "BEGIN { ghost(1) }")
	loader.release()

	diags := pub.published("main.awk")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "'ghost' is not defined")
}

func TestCoordinator_IncludeChain(t *testing.T) {
	c, loader, pub := testSetup(map[string]string{
		"b.awk": "@include \"c\"\n",
		"c.awk": "function helper(x) { return x }\n",
	})

	c.Open("main.awk", "@include \"b\"\nBEGIN { helper(1) }")
	loader.release()

	assert.Len(t, c.Documents(), 3)

	// helper lives two includes away and must still resolve
	assert.Empty(t, pub.published("main.awk"))

	main, ok := c.Document("main.awk")
	require.True(t, ok)
	assert.Len(t, main.IncludeClosure(), 2)
}

func TestCoordinator_IncludeCycleTerminates(t *testing.T) {
	c, loader, _ := testSetup(map[string]string{
		"a.awk": "@include \"b\"\n",
		"b.awk": "@include \"a\"\n",
	})

	c.Open("a.awk", "@include \"b\"\n")
	loader.release()

	a, ok := c.Document("a.awk")
	require.True(t, ok)
	closure := a.IncludeClosure()
	require.Len(t, closure, 1)
	assert.Equal(t, "b.awk", closure[0].URI)
}

func TestCoordinator_IncludeNotFound(t *testing.T) {
	c, loader, pub := testSetup(nil)

	c.Open("main.awk", "@include \"nowhere\"\n")
	loader.release()

	diags := pub.published("main.awk")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "include file 'nowhere' not found")
	assert.Len(t, c.Documents(), 1)
}

func TestCoordinator_IncludeReadFailure(t *testing.T) {
	c, loader, pub := testSetup(map[string]string{
		"lib.awk": "function f() {}\n",
	})

	c.Open("main.awk", "@include \"lib\"\n")
	// the file vanishes between Exists and the read
	loader.mu.Lock()
	delete(loader.files, "lib.awk")
	loader.mu.Unlock()
	loader.release()

	diags := pub.published("main.awk")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "cannot read include 'lib'")
	assert.Len(t, c.Documents(), 1)
}

func TestCoordinator_SweepOnUpdate(t *testing.T) {
	c, loader, pub := testSetup(map[string]string{
		"b.awk": "@include \"c\"\n",
		"c.awk": "function h() {}\n",
	})

	c.Open("main.awk", "@include \"b\"\n")
	loader.release()
	require.Len(t, c.Documents(), 3)

	// dropping the include must cascade: b orphans c
	c.Update("main.awk", "BEGIN { print }")
	loader.release()

	docs := c.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "main.awk", docs[0].URI)
	assert.Nil(t, pub.published("b.awk"))
	assert.Nil(t, pub.published("c.awk"))
}

func TestCoordinator_CloseSweepsIncludes(t *testing.T) {
	c, loader, _ := testSetup(map[string]string{
		"lib.awk": "function f() {}\n",
	})

	c.Open("main.awk", "@include \"lib\"\n")
	loader.release()
	require.Len(t, c.Documents(), 2)

	c.Close("main.awk")
	assert.Empty(t, c.Documents())
}

func TestCoordinator_SharedIncludeSurvivesSweep(t *testing.T) {
	c, loader, _ := testSetup(map[string]string{
		"lib.awk": "function f() {}\n",
	})

	c.Open("a.awk", "@include \"lib\"\n")
	c.Open("b.awk", "@include \"lib\"\n")
	loader.release()
	require.Len(t, c.Documents(), 3)

	c.Close("a.awk")
	docs := c.Documents()
	require.Len(t, docs, 2)

	c.Close("b.awk")
	assert.Empty(t, c.Documents())
}

func TestCoordinator_SignatureChangeRechecksDependents(t *testing.T) {
	c, loader, pub := testSetup(map[string]string{
		"lib.awk": "function f(a) { return a }\n",
	})

	c.Open("lib.awk", "function f(a) { return a }\n")
	c.Open("main.awk", "@include \"lib\"\nBEGIN { f(1) }")
	loader.release()
	require.Empty(t, pub.published("main.awk"))

	// growing f's parameter list must re-check the includer
	c.Update("lib.awk", "function f(a, b) { return a }\n")
	loader.release()

	diags := pub.published("main.awk")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "not enough arguments for 'f'")
}

func TestCoordinator_UpdateClearsStaleDiagnostics(t *testing.T) {
	c, loader, pub := testSetup(nil)

	c.Open("main.awk", "BEGIN { ghost() }")
	loader.release()
	require.Len(t, pub.published("main.awk"), 1)

	c.Update("main.awk", "function ghost() {}\nBEGIN { ghost() }")
	loader.release()
	assert.Empty(t, pub.published("main.awk"))
}

func TestCapDiagnostics(t *testing.T) {
	diags := []symbol.Diagnostic{
		{Severity: symbol.SeverityWarning, Pos: symbol.Position{Line: 0}, Message: "w0"},
		{Severity: symbol.SeverityError, Pos: symbol.Position{Line: 3}, Message: "e3"},
		{Severity: symbol.SeverityHint, Pos: symbol.Position{Line: 1}, Message: "h1"},
		{Severity: symbol.SeverityError, Pos: symbol.Position{Line: 2}, Message: "e2"},
	}

	capped := CapDiagnostics(diags, 3)
	require.Len(t, capped, 3)

	// lower severities dropped first, survivors back in text order
	assert.Equal(t, "w0", capped[0].Message)
	assert.Equal(t, "e2", capped[1].Message)
	assert.Equal(t, "e3", capped[2].Message)

	// under the cap nothing is dropped, only re-sorted by position
	all := CapDiagnostics(diags, 10)
	require.Len(t, all, 4)
	assert.Equal(t, "w0", all[0].Message)
	assert.Equal(t, "h1", all[1].Message)
}

func TestCoordinator_ResolveSearchPath(t *testing.T) {
	cfg := config.Default()
	cfg.Diags.Gawk = true
	cfg.SearchPath = []string{"vendor"}
	loader := newFakeLoader(map[string]string{
		"vendor/lib.awk": "function f() {}\n",
	})
	pub := newFakePublisher()
	c := NewCoordinator(cfg, loader, pub)

	c.Open("main.awk", "@include \"lib\"\n")
	loader.release()

	_, ok := c.Document("vendor/lib.awk")
	assert.True(t, ok, "include should resolve through the search path with .awk appended")
}
