// Package diag implements the effect compiler's diagnostic buffer.
//
// Diagnostics never abort compilation by themselves: lexing and parsing
// keep going after an error() call, exactly as the original EffectParser
// accumulates into a string buffer the caller inspects afterward. A
// compile is only "viable" (spec.md §7) if no diagnostic in the buffer is
// fatal.
package diag

import (
	"fmt"
	"strings"

	"github.com/gogpu/effectfx/lang/token"
)

// Severity distinguishes fatal diagnostics from warnings (spec.md §7).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Well-known diagnostic codes, numbered to follow the D3D compiler where
// spec.md §7 calls one out explicitly. Codes not listed here are still
// valid (any positive int), these are just the ones referenced by name.
const (
	CodeSyntaxError          = 3000
	CodeUndeclaredIdentifier = 3004
	CodeUnknownPropertyName  = 3004
	CodeNoMatchingOverload   = 3013
	CodeCannotConvert        = 3017
	CodeSwizzleInvalid       = 3018
	CodeTypeMismatch         = 3020
	CodeLValueIsConst        = 3025
	CodeDuplicateQualifier   = 3048
	CodeNonLiteralArrayDim   = 3058
	CodeAmbiguousOverload    = 3067
	CodeRequiresIntegral     = 3082
	CodeImplicitTruncation   = 3206
	CodeGlobalsUniform       = 5000
	CodeEmptyStruct          = 5001
	CodeSwitchNoCases        = 5002
)

// Diagnostic is one accumulated error or warning.
type Diagnostic struct {
	Severity Severity
	Code     int
	Loc      token.Location
	Message  string
}

func (d Diagnostic) String() string {
	kind := "warning"
	if d.Severity == SeverityError {
		kind = "error"
	}
	return fmt.Sprintf("%s: %s %d: %s", d.Loc, kind, d.Code, d.Message)
}

// Bag accumulates diagnostics for one compile. It is not safe for
// concurrent use — a single effect source is compiled by one goroutine at
// a time per spec.md §5.
type Bag struct {
	entries []Diagnostic
	fatal   bool
}

// Error records a fatal diagnostic; it does not stop the caller.
func (b *Bag) Error(loc token.Location, code int, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Loc:      loc,
		Message:  fmt.Sprintf(format, args...),
	})
	b.fatal = true
}

// Warning records a non-fatal diagnostic.
func (b *Bag) Warning(loc token.Location, code int, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Loc:      loc,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Fatal reports whether any error() (as opposed to warning()) has been
// recorded. A compile result is viable iff !Fatal().
func (b *Bag) Fatal() bool { return b.fatal }

// Entries returns every recorded diagnostic in emission order.
func (b *Bag) Entries() []Diagnostic { return b.entries }

// String renders the whole buffer, one diagnostic per line, matching the
// flat error-string surface the host overlay displays.
func (b *Bag) String() string {
	var sb strings.Builder
	for _, e := range b.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Reset clears the buffer for reuse.
func (b *Bag) Reset() {
	b.entries = b.entries[:0]
	b.fatal = false
}
