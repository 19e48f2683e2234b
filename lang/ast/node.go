package ast

import "github.com/gogpu/effectfx/lang/token"

// NodeIndex references a node inside an Arena. Storing indices rather than
// pointers keeps the tree free of cyclic ownership and avoids a heap
// allocation per node (spec.md §9 design note).
type NodeIndex int32

const InvalidNode NodeIndex = -1

// Arena owns every node produced while parsing one effect source.
type Arena struct {
	nodes []Node
}

func NewArena() *Arena { return &Arena{nodes: make([]Node, 0, 256)} }

// Add appends n and returns its index.
func (a *Arena) Add(n Node) NodeIndex {
	a.nodes = append(a.nodes, n)
	return NodeIndex(len(a.nodes) - 1)
}

// At dereferences an index; InvalidNode and out-of-range both return nil.
func (a *Arena) At(i NodeIndex) Node {
	if i < 0 || int(i) >= len(a.nodes) {
		return nil
	}
	return a.nodes[i]
}

// Replace overwrites the node at i in place, used by constant folding to
// turn a unary/binary/constructor node into an equivalent Literal without
// disturbing indices any sibling node already holds.
func (a *Arena) Replace(i NodeIndex, n Node) {
	if i < 0 || int(i) >= len(a.nodes) {
		return
	}
	a.nodes[i] = n
}

// Node is implemented by every AST node kind.
type Node interface {
	Location() token.Location
}

type Base struct {
	Loc token.Location
}

func (b Base) Location() token.Location { return b.Loc }

// ---- Expressions ----

// LiteralValue mirrors token.Literal but is resolved to the node's Type.
type LiteralValue struct {
	Int    int64
	Uint   uint64
	Float  float32
	Double float64
	Bool   bool
	Str    string
}

type Literal struct {
	Base
	Type  Type
	Value LiteralValue
}

type LValue struct {
	Base
	Type   Type
	Symbol SymbolID
	Name   string
}

type UnaryOp int

const (
	UnNegate UnaryOp = iota
	UnBitNot
	UnLogicNot
	UnPreInc
	UnPreDec
	UnPostInc
	UnPostDec
	UnCast
)

type Unary struct {
	Base
	Type     Type
	Op       UnaryOp
	CastType Type
	Operand  NodeIndex
}

type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinShl
	BinShr
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinBitAnd
	BinBitXor
	BinBitOr
	BinLogicAnd
	BinLogicOr
)

type Binary struct {
	Base
	Type  Type
	Op    BinaryOp
	Left  NodeIndex
	Right NodeIndex
}

type AssignOp int

const (
	AsSimple AssignOp = iota
	AsAdd
	AsSub
	AsMul
	AsDiv
	AsMod
	AsBitAnd
	AsBitOr
	AsBitXor
	AsShl
	AsShr
)

type Assignment struct {
	Base
	Type   Type
	Op     AssignOp
	Target NodeIndex
	Value  NodeIndex
}

type Conditional struct {
	Base
	Type      Type
	Cond      NodeIndex
	WhenTrue  NodeIndex
	WhenFalse NodeIndex
}

type Call struct {
	Base
	Type     Type
	Callee   SymbolID
	Name     string
	Args     []NodeIndex
	RankSum  []int // per-argument rank, kept for diagnostics/tests
}

type Intrinsic struct {
	Base
	Type Type
	Name string
	Op   string
	Args []NodeIndex
}

type Constructor struct {
	Base
	Type Type
	Args []NodeIndex
}

type FieldSelection struct {
	Base
	Type       Type
	Struct     NodeIndex
	FieldName  string
	FieldIndex int
}

// Swizzle encodes up to 4 signed component offsets; matrix swizzles pack
// row*4+col per spec.md §3.
type Swizzle struct {
	Base
	Type     Type
	Operand  NodeIndex
	Offsets  [4]int8
	Length   int
	IsMatrix bool
	Const    bool // duplicate mask entries force const (spec.md §4.2)
}

type Sequence struct {
	Base
	Type  Type
	Items []NodeIndex
}

type InitializerList struct {
	Base
	Type  Type
	Items []NodeIndex
}

type Subscript struct {
	Base
	Type    Type
	Operand NodeIndex
	Index   NodeIndex
}

// ---- Statements ----

type Compound struct {
	Base
	ScopeDepth int
	Statements []NodeIndex
}

type ExpressionStatement struct {
	Base
	Expr NodeIndex
}

type DeclarationStatement struct {
	Base
	Decls []NodeIndex
}

type If struct {
	Base
	Cond     NodeIndex
	Then     NodeIndex
	Else     NodeIndex
}

type Case struct {
	Base
	// Value is InvalidNode for `default:`.
	Value NodeIndex
	IsDefault bool
}

type Switch struct {
	Base
	Selector NodeIndex
	Cases    []NodeIndex
	Bodies   [][]NodeIndex
}

type While struct {
	Base
	Cond   NodeIndex
	Body   NodeIndex
	IsDoWhile bool
}

type For struct {
	Base
	Init NodeIndex
	Cond NodeIndex
	Post NodeIndex
	Body NodeIndex
}

type JumpKind int

const (
	JumpBreak JumpKind = iota
	JumpContinue
)

type Jump struct {
	Base
	Kind JumpKind
}

type Return struct {
	Base
	Value   NodeIndex
	Discard bool
}

// ---- Declarations ----

type StructField struct {
	Name     string
	Type     Type
	Semantic string
}

type StructDecl struct {
	Base
	Name   string
	Fields []StructField
}

type Annotation struct {
	Name  string
	Value LiteralValue
	Type  Type
}

type Variable struct {
	Base
	Name        string
	Type        Type
	Initializer NodeIndex
	Semantic    string
	Annotations []Annotation
	IsGlobal    bool
	// BufferIndex/ByteOffset/ByteSize are filled in during uniform layout
	// (resource package) for uniform-qualified variables.
	BufferIndex int
	ByteOffset  int
	ByteSize    int
}

type Param struct {
	Name     string
	Type     Type
	Semantic string
	Qualifiers Qualifier
}

type Function struct {
	Base
	Name        string
	ReturnType  Type
	ReturnSema  string
	Params      []Param
	Body        NodeIndex // Compound, InvalidNode for intrinsics/forward decls
	IsEntryPoint bool
}

type PassState struct {
	VS, PS       string // function names
	RenderTargets [8]string
	BlendEnable  bool
	SrcRGB, DstRGB, OpRGB string
	SrcA, DstA, OpA        string
	WriteMask    uint8
	DepthEnable  bool
	DepthFunc    string
	DepthWrite   bool
	StencilEnable bool
	StencilFunc  string
	StencilRef   int
	StencilReadMask, StencilWriteMask uint8
	StencilOpPass, StencilOpFail, StencilOpZFail string
	CullMode, FillMode string
	ScissorEnable bool
	SRGBWrite    bool
	AlphaToCoverage bool
}

type Pass struct {
	Base
	Name  string
	State PassState
}

type Technique struct {
	Base
	Name        string
	Passes      []NodeIndex
	Annotations []Annotation
}

type DeclaratorList struct {
	Base
	Decls []NodeIndex
}
