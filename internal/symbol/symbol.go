// # internal/symbol/symbol.go
package symbol

// Type classifies a name occurrence in an AWK source file. The first four
// values describe uses; each has a definition-flavored counterpart offset by
// defineOffset into a parallel namespace, so a per-type table can be indexed
// by ordinal without collisions between "use of x" and "definition of x".
type Type int

const (
	Function Type = iota
	GlobalVar
	LocalVar
	Param

	defineOffset

	DefineFunction
	DefineGlobalVar
	DefineLocalVar
	DefineParam

	TypeCount = int(DefineParam) + 1
)

var typeNames = map[Type]string{
	Function:        "function",
	GlobalVar:       "global",
	LocalVar:        "local",
	Param:           "parameter",
	DefineFunction:  "function definition",
	DefineGlobalVar: "global definition",
	DefineLocalVar:  "local definition",
	DefineParam:     "parameter definition",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Define maps a use type to its definition-flavored counterpart.
func (t Type) Define() Type {
	if t.IsDefine() {
		return t
	}
	return t + defineOffset + 1
}

// Base maps a definition type back to its use type.
func (t Type) Base() Type {
	if !t.IsDefine() {
		return t
	}
	return t - defineOffset - 1
}

// IsDefine reports whether t lives in the definition namespace.
func (t Type) IsDefine() bool {
	return t > defineOffset
}

// Position is a 0-based (line, column) pair in a document's text.
type Position struct {
	Line int
	Col  int
}

// Before reports strict text order.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// After reports strict reverse text order.
func (p Position) After(q Position) bool {
	return q.Before(p)
}

// Definition records one declaration site. Ownership: a function definition
// owns its Params and Locals; every definition is owned by exactly one
// document, identified by URI (back-reference, not ownership).
type Definition struct {
	URI      string
	Start    Position
	Type     Type
	Doc      string
	Scope    *Definition // enclosing function, nil for globals
	Name     string
	Implicit bool // synthesized for a global's first use, no declaration site

	Params []*Definition
	Locals []*Definition
}

// Equal is structural: name, owning document, position, type and doc text.
// Scope and owned lists are deliberately excluded.
func (d *Definition) Equal(o *Definition) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Name == o.Name && d.URI == o.URI && d.Start == o.Start &&
		d.Type == o.Type && d.Doc == o.Doc
}

// Usage is an immutable record of a name occurrence.
type Usage struct {
	Name string
	Type Type
	Pos  Position
}

// End returns the first position past the usage's character span.
func (u Usage) End() Position {
	return Position{Line: u.Pos.Line, Col: u.Pos.Col + len(u.Name)}
}

// CallClose marks the closing boundary of a whole call in the parameter
// event stream.
const CallClose = -1

// ParameterUsage links a function-call usage to a 0-based parameter index.
// Index CallClose marks the closing parenthesis of the call itself.
type ParameterUsage struct {
	Index int
	Start bool
	Pos   Position
}

// Severity follows the editor convention: lower is more severe.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is one reported finding. Length is the character span on the
// start line; 0 means "point".
type Diagnostic struct {
	Severity Severity
	Pos      Position
	Length   int
	Message  string
}
