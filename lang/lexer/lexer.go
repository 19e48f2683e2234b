// Package lexer turns effect source text into a token stream.
//
// Grounded on src/EffectLexer.hpp (original_source): comment skipping,
// #line handling, adjacent string-literal concatenation, and numeric
// suffix rules are carried over faithfully; the accumulate-don't-throw
// diagnostic style follows src/Log.cpp / src/EffectParser.cpp.
package lexer

import (
	"strconv"
	"strings"

	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/token"
)

// Lexer produces tokens on demand from a byte slice. Identifiers are
// treated as ASCII; the high bit is tolerated only inside string literals
// (spec.md §9 open question, resolved as "ASCII-only identifiers").
type Lexer struct {
	src  []byte
	pos  int
	line int
	col  int
	file string

	diags *diag.Bag

	// mark/restore support so the parser can disambiguate "(type) expr"
	// from "(expr)" by speculatively lexing and backing up.
	marks []state
}

type state struct {
	pos, line, col int
	file           string
}

// New creates a lexer over src, reporting the given file name in the
// first token's location until a #line directive changes it.
func New(src []byte, file string, diags *diag.Bag) *Lexer {
	return &Lexer{src: src, pos: 0, line: 1, col: 1, file: file, diags: diags}
}

func (l *Lexer) loc() token.Location {
	return token.Location{File: l.file, Line: l.line, Col: l.col}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// Mark saves the current position onto an internal stack.
func (l *Lexer) Mark() {
	l.marks = append(l.marks, state{pos: l.pos, line: l.line, col: l.col, file: l.file})
}

// Restore pops the most recent Mark and rewinds to it.
func (l *Lexer) Restore() {
	n := len(l.marks)
	if n == 0 {
		return
	}
	s := l.marks[n-1]
	l.marks = l.marks[:n-1]
	l.pos, l.line, l.col, l.file = s.pos, s.line, s.col, s.file
}

// Discard pops the most recent Mark without rewinding.
func (l *Lexer) Discard() {
	n := len(l.marks)
	if n == 0 {
		return
	}
	l.marks = l.marks[:n-1]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Lex returns the next token. Successive calls are O(token length); the
// whole pass over a source is therefore linear.
func (l *Lexer) Lex() token.Token {
	l.skipTrivia()
	startLoc := l.loc()

	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Loc: startLoc}
	}

	c := l.peekByte()
	switch {
	case isIdentStart(c):
		return l.lexIdentifier(startLoc)
	case isDigit(c), c == '.' && isDigit(l.peekByteAt(1)):
		return l.lexNumber(startLoc)
	case c == '"':
		return l.lexString(startLoc)
	default:
		return l.lexPunct(startLoc)
	}
}

// skipTrivia consumes whitespace, line/block comments, and #line
// directives until real content or EOF is reached. Unterminated block
// comments are reported but do not abort lexing (spec.md §4.1).
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekByteAt(1) == '/':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			start := l.loc()
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.src) {
				if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed && l.diags != nil {
				l.diags.Error(start, diag.CodeSyntaxError, "unterminated block comment")
			}
		case c == '#':
			if !l.tryLineDirective() {
				return
			}
		default:
			return
		}
	}
}

// tryLineDirective recognises `#line N "file"`, resetting {line,file} for
// subsequent tokens. Returns false (without consuming) if the '#' does not
// start a line directive.
func (l *Lexer) tryLineDirective() bool {
	save := l.pos
	saveLine, saveCol := l.line, l.col
	l.advance() // '#'
	for l.peekByte() == ' ' || l.peekByte() == '\t' {
		l.advance()
	}
	word := l.pos
	for isIdentCont(l.peekByte()) {
		l.advance()
	}
	if string(l.src[word:l.pos]) != "line" {
		l.pos, l.line, l.col = save, saveLine, saveCol
		return false
	}
	for l.peekByte() == ' ' || l.peekByte() == '\t' {
		l.advance()
	}
	numStart := l.pos
	for isDigit(l.peekByte()) {
		l.advance()
	}
	lineNo, _ := strconv.Atoi(string(l.src[numStart:l.pos]))
	for l.peekByte() == ' ' || l.peekByte() == '\t' {
		l.advance()
	}
	file := l.file
	if l.peekByte() == '"' {
		l.advance()
		fs := l.pos
		for l.pos < len(l.src) && l.peekByte() != '"' {
			l.advance()
		}
		file = string(l.src[fs:l.pos])
		if l.peekByte() == '"' {
			l.advance()
		}
	}
	for l.pos < len(l.src) && l.peekByte() != '\n' {
		l.advance()
	}
	if l.pos < len(l.src) {
		l.advance() // the directive's own newline; line N is the next line
	}
	if lineNo > 0 {
		l.line = lineNo
	}
	l.file = file
	return true
}

func (l *Lexer) lexIdentifier(loc token.Location) token.Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		l.advance()
	}
	name := string(l.src[start:l.pos])
	if kind, ok := token.Lookup(name); ok {
		if kind == token.KwTrue || kind == token.KwFalse {
			return token.Token{Kind: token.BoolLiteral, Raw: name, Loc: loc, Literal: token.Literal{Int: boolToInt(kind == token.KwTrue)}}
		}
		return token.Token{Kind: kind, Raw: name, Loc: loc}
	}
	return token.Token{Kind: token.Identifier, Raw: name, Loc: loc}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// lexNumber implements the grammar of spec.md §4.1: hex (0x), octal
// (leading 0), decimal; fractional dot / exponent default to float;
// suffix u/U -> uint, f/F keeps float, lf/LF promotes to double.
// Overflow saturates and emits a warning rather than erroring.
func (l *Lexer) lexNumber(loc token.Location) token.Token {
	start := l.pos
	isFloat := false

	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peekByte()) {
			l.advance()
		}
		return l.finishInt(loc, start, 16)
	}

	if l.peekByte() == '0' && isDigit(l.peekByteAt(1)) {
		l.advance()
		for isDigit(l.peekByte()) {
			l.advance()
		}
		if l.peekByte() == '.' || l.peekByte() == 'e' || l.peekByte() == 'E' {
			// not actually octal, e.g. 08.5 — fall through to decimal path.
		} else {
			return l.finishInt(loc, start, 8)
		}
	}

	for isDigit(l.peekByte()) {
		l.advance()
	}
	if l.peekByte() == '.' {
		isFloat = true
		l.advance()
		for isDigit(l.peekByte()) {
			l.advance()
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isFloat = true
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		for isDigit(l.peekByte()) {
			l.advance()
		}
	}

	if !isFloat {
		return l.finishInt(loc, start, 10)
	}
	return l.finishFloat(loc, start)
}

func (l *Lexer) finishInt(loc token.Location, start, base int) token.Token {
	text := string(l.src[start:l.pos])
	raw := text
	isUnsigned := false
	switch {
	case l.matchSuffix("u") || l.matchSuffix("U"):
		isUnsigned = true
	}
	digits := text
	if base == 16 {
		digits = text[2:]
	} else if base == 8 {
		digits = text[1:]
		if digits == "" {
			digits = "0"
		}
	}
	v, err := strconv.ParseUint(digits, base, 64)
	saturated := false
	if err != nil {
		v = ^uint64(0)
		saturated = true
	}
	if saturated && l.diags != nil {
		l.diags.Warning(loc, diag.CodeImplicitTruncation, "integer literal %q overflows, saturating", raw)
	}
	if isUnsigned {
		return token.Token{Kind: token.UintLiteral, Raw: raw, Loc: loc, Literal: token.Literal{Uint: v}}
	}
	if v > uint64(^uint64(0)>>1) {
		saturated = true
		v = uint64(^uint64(0) >> 1)
		if l.diags != nil {
			l.diags.Warning(loc, diag.CodeImplicitTruncation, "integer literal %q overflows int, saturating", raw)
		}
	}
	return token.Token{Kind: token.IntLiteral, Raw: raw, Loc: loc, Literal: token.Literal{Int: int64(v)}}
}

func (l *Lexer) matchSuffix(s string) bool {
	n := len(s)
	if l.pos+n > len(l.src) {
		return false
	}
	if !strings.EqualFold(string(l.src[l.pos:l.pos+n]), s) {
		return false
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	return true
}

func (l *Lexer) finishFloat(loc token.Location, start int) token.Token {
	raw := string(l.src[start:l.pos])
	isDouble := false
	if l.matchSuffix("lf") || l.matchSuffix("LF") {
		isDouble = true
	} else if l.matchSuffix("f") || l.matchSuffix("F") {
		isDouble = false
	}
	if isDouble {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil && l.diags != nil {
			l.diags.Warning(loc, diag.CodeImplicitTruncation, "double literal %q malformed", raw)
		}
		return token.Token{Kind: token.DoubleLiteral, Raw: raw, Loc: loc, Literal: token.Literal{Double: d}}
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil && l.diags != nil {
		l.diags.Warning(loc, diag.CodeImplicitTruncation, "float literal %q malformed", raw)
	}
	return token.Token{Kind: token.FloatLiteral, Raw: raw, Loc: loc, Literal: token.Literal{Float: float32(f)}}
}

// lexString reads one quoted string and then greedily absorbs any
// further adjacent string literals (after trivia), concatenating them —
// the lexer-level concatenation spec.md §4.1 requires.
func (l *Lexer) lexString(loc token.Location) token.Token {
	var sb strings.Builder
	l.readOneString(&sb, loc)
	for {
		save := state{pos: l.pos, line: l.line, col: l.col, file: l.file}
		l.skipTrivia()
		if l.peekByte() != '"' {
			l.pos, l.line, l.col, l.file = save.pos, save.line, save.col, save.file
			break
		}
		l.readOneString(&sb, loc)
	}
	return token.Token{Kind: token.StringLiteral, Raw: sb.String(), Loc: loc, Literal: token.Literal{Str: sb.String()}}
}

func (l *Lexer) readOneString(sb *strings.Builder, startLoc token.Location) {
	l.advance() // opening quote
	for l.pos < len(l.src) && l.peekByte() != '"' {
		c := l.advance()
		if c == '\\' && l.pos < len(l.src) {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '"':
				sb.WriteByte(esc)
			default:
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(c)
	}
	if l.peekByte() == '"' {
		l.advance()
	} else if l.diags != nil {
		l.diags.Error(startLoc, diag.CodeSyntaxError, "unterminated string literal")
	}
}

type punctRule struct {
	text string
	kind token.Kind
}

// Longest-match-first punctuation table.
var punctRules = []punctRule{
	{"<<=", token.ShlEq}, {">>=", token.ShrEq},
	{"<<", token.Shl}, {">>", token.Shr},
	{"&&", token.AmpAmp}, {"||", token.PipePipe},
	{"==", token.EqEq}, {"!=", token.NotEq},
	{"<=", token.Le}, {">=", token.Ge},
	{"+=", token.PlusEq}, {"-=", token.MinusEq},
	{"*=", token.StarEq}, {"/=", token.SlashEq}, {"%=", token.PercentEq},
	{"&=", token.AmpEq}, {"|=", token.PipeEq}, {"^=", token.CaretEq},
	{"++", token.PlusPlus}, {"--", token.MinusMinus},
	{"(", token.LParen}, {")", token.RParen},
	{"{", token.LBrace}, {"}", token.RBrace},
	{"[", token.LBracket}, {"]", token.RBracket},
	{";", token.Semicolon}, {",", token.Comma}, {":", token.Colon},
	{".", token.Dot}, {"?", token.Question},
	{"+", token.Plus}, {"-", token.Minus}, {"*", token.Star}, {"/", token.Slash}, {"%", token.Percent},
	{"~", token.Tilde}, {"!", token.Bang},
	{"&", token.Amp}, {"|", token.Pipe}, {"^", token.Caret},
	{"<", token.Lt}, {">", token.Gt}, {"=", token.Assign},
}

func (l *Lexer) lexPunct(loc token.Location) token.Token {
	for _, r := range punctRules {
		n := len(r.text)
		if l.pos+n <= len(l.src) && string(l.src[l.pos:l.pos+n]) == r.text {
			for i := 0; i < n; i++ {
				l.advance()
			}
			return token.Token{Kind: r.kind, Raw: r.text, Loc: loc}
		}
	}
	c := l.advance()
	if l.diags != nil {
		l.diags.Error(loc, diag.CodeSyntaxError, "unexpected character %q", c)
	}
	return token.Token{Kind: token.Invalid, Raw: string(c), Loc: loc}
}
