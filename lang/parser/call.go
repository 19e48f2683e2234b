// call.go implements spec.md §4.2 overload resolution: a call name is
// resolved against every visible user function and every intrinsic
// signature of the same name, each candidate scored per-argument on the
// promotion lattice, and the candidate(s) with the lexicographically
// smallest rank vector win. Zero viable candidates is 3013
// (CodeNoMatchingOverload); more than one tied winner is 3067
// (CodeAmbiguousOverload).
//
// Grounded on original_source/src/EffectParser.cpp's ResolveCall, which
// walks the same two candidate sources (declared functions, intrinsics)
// and ranks by an identical cost table.
package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/intrinsic"
	"github.com/gogpu/effectfx/lang/token"
)

// candidate unifies a user function and an intrinsic signature behind one
// shape so resolveOverload can rank them identically.
type candidate struct {
	params    []ast.Type
	ret       ast.Type
	userFn    ast.NodeIndex // InvalidNode for intrinsics
	symID     ast.SymbolID
	intrinsic *intrinsic.Signature
}

const noMatch = 1 << 30

// rankArgument scores converting an argument of type `from` into a
// parameter of type `to`: 0 for an exact match, the promotion-lattice
// distance for a same-shape numeric conversion, a small extra cost for
// scalar-to-vector broadcast, and noMatch when the call is not viable.
func rankArgument(from, to ast.Type) int {
	if from.Base == to.Base && from.SameShape(to) {
		return 0
	}
	if !from.Base.IsNumeric() || !to.Base.IsNumeric() {
		if from.Base == to.Base {
			return 0
		}
		return noMatch
	}
	fr, tr := ast.PromotionRank(from.Base), ast.PromotionRank(to.Base)
	cost := fr - tr
	if cost < 0 {
		cost = -cost
	}
	switch {
	case from.SameShape(to):
		return cost
	case from.IsScalar():
		return cost + 1 // scalar broadcast to vector/matrix (rank|2 in GetTypeRank)
	case isContraction(from, to):
		return cost + 16 // vector-to-scalar or vector/matrix truncation (rank|32 in GetTypeRank)
	default:
		return noMatch
	}
}

// isContraction reports whether converting from `from` to `to` drops
// components: a vector collapsed to a scalar, or a vector/matrix truncated
// to fewer rows while keeping at least as many columns. Matches
// GetTypeRank's `rank|32` case in original_source/src/EffectParser.cpp.
func isContraction(from, to ast.Type) bool {
	if from.IsVector() && to.IsScalar() {
		return true
	}
	return from.IsVector() == to.IsVector() && from.Rows > to.Rows && from.Cols >= to.Cols
}

// rankCall scores every argument of a call against one candidate; a
// mismatched argument count or any noMatch argument makes the whole
// candidate non-viable (returned rank vector is nil).
func rankCall(args []ast.Type, c candidate) ([]int, bool) {
	if len(args) != len(c.params) {
		return nil, false
	}
	ranks := make([]int, len(args))
	for i, a := range args {
		r := rankArgument(a, c.params[i])
		if r == noMatch {
			return nil, false
		}
		ranks[i] = r
	}
	return ranks, true
}

// rankLess compares two rank vectors lexicographically, matching
// spec.md's "lexicographically smallest rank vector wins" rule.
func rankLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (p *Parser) userFunctionCandidates(name string) []candidate {
	var out []candidate
	for _, id := range p.syms.LookupAll(name) {
		sym := p.syms.Get(id)
		if sym.Kind != ast.SymFunction {
			continue
		}
		fn, ok := p.arena.At(sym.Node).(*ast.Function)
		if !ok {
			continue
		}
		params := make([]ast.Type, len(fn.Params))
		for i, prm := range fn.Params {
			params[i] = prm.Type
		}
		out = append(out, candidate{params: params, ret: fn.ReturnType, userFn: sym.Node, symID: id, intrinsic: nil})
	}
	return out
}

func intrinsicCandidates(name string) []candidate {
	sigs := intrinsic.Lookup(name)
	out := make([]candidate, len(sigs))
	for i := range sigs {
		out[i] = candidate{params: sigs[i].Params, ret: sigs[i].Return, userFn: ast.InvalidNode, intrinsic: &sigs[i]}
	}
	return out
}

// parseCall parses `name(arg, arg, ...)` and resolves it to either a Call
// (user function) or Intrinsic node.
func (p *Parser) parseCall(loc token.Location, name string) ast.NodeIndex {
	p.expect(token.LParen, "'('")
	var args []ast.NodeIndex
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseAssignment())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')'")

	argTypes := make([]ast.Type, len(args))
	for i, a := range args {
		argTypes[i] = p.typeOf(a)
	}

	candidates := p.userFunctionCandidates(name)
	candidates = append(candidates, intrinsicCandidates(name)...)

	if len(candidates) == 0 {
		p.diags.Error(loc, diag.CodeNoMatchingOverload, "no function or intrinsic named %q", name)
		return p.makeLiteralInt(loc, 0)
	}

	var best []candidate
	var bestRank []int
	for _, c := range candidates {
		ranks, ok := rankCall(argTypes, c)
		if !ok {
			continue
		}
		switch {
		case bestRank == nil || rankLess(ranks, bestRank):
			best = []candidate{c}
			bestRank = ranks
		case !rankLess(bestRank, ranks):
			best = append(best, c)
		}
	}

	if len(best) == 0 {
		p.diags.Error(loc, diag.CodeNoMatchingOverload, "no matching overload for %q with %d argument(s)", name, len(args))
		return p.makeLiteralInt(loc, 0)
	}
	if len(best) > 1 {
		p.diags.Error(loc, diag.CodeAmbiguousOverload, "call to %q is ambiguous between %d overloads", name, len(best))
	}

	chosen := best[0]
	for i, a := range argTypes {
		if isContraction(a, chosen.params[i]) {
			p.diags.Warning(loc, diag.CodeImplicitTruncation, "argument %d of %q is implicitly truncated from %dx%d to %dx%d",
				i+1, name, a.Rows, a.Cols, chosen.params[i].Rows, chosen.params[i].Cols)
		}
	}
	if chosen.userFn != ast.InvalidNode {
		return p.arena.Add(&ast.Call{Base: ast.Base{Loc: loc}, Type: chosen.ret, Callee: chosen.symID, Name: name, Args: args, RankSum: bestRank})
	}
	return p.arena.Add(&ast.Intrinsic{Base: ast.Base{Loc: loc}, Type: chosen.ret, Name: name, Op: chosen.intrinsic.Op, Args: args})
}
