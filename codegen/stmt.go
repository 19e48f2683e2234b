package codegen

import (
	"fmt"
	"strings"

	"github.com/gogpu/effectfx/lang/ast"
)

// Stmt renders the statement at idx, indenting nested blocks one level.
// Loop/branch shapes are emitted explicitly (spec.md §9 open question:
// "treat [missing break] as bug ... emit explicit loop structures") so no
// backend needs its own control-flow lowering.
func (w *Walker) Stmt(idx ast.NodeIndex, indent string) string {
	switch s := w.res.Arena.At(idx).(type) {
	case nil:
		return ""
	case *ast.Compound:
		return w.emitCompound(s, indent)
	case *ast.ExpressionStatement:
		return fmt.Sprintf("%s%s;\n", indent, w.Expr(s.Expr))
	case *ast.DeclarationStatement:
		return w.emitDecls(s.Decls, indent)
	case *ast.If:
		out := fmt.Sprintf("%sif (%s)\n%s", indent, w.Expr(s.Cond), w.Stmt(s.Then, indent))
		if s.Else != ast.InvalidNode {
			out += fmt.Sprintf("%selse\n%s", indent, w.Stmt(s.Else, indent))
		}
		return out
	case *ast.Switch:
		return w.emitSwitch(s, indent)
	case *ast.While:
		if s.IsDoWhile {
			return fmt.Sprintf("%sdo\n%s%swhile (%s);\n", indent, w.Stmt(s.Body, indent), indent, w.Expr(s.Cond))
		}
		return fmt.Sprintf("%swhile (%s)\n%s", indent, w.Expr(s.Cond), w.Stmt(s.Body, indent))
	case *ast.For:
		init, cond, post := "", "", ""
		if s.Init != ast.InvalidNode {
			init = strings.TrimRight(strings.TrimSpace(w.Stmt(s.Init, "")), ";")
		}
		if s.Cond != ast.InvalidNode {
			cond = w.Expr(s.Cond)
		}
		if s.Post != ast.InvalidNode {
			post = w.Expr(s.Post)
		}
		return fmt.Sprintf("%sfor (%s; %s; %s)\n%s", indent, init, cond, post, w.Stmt(s.Body, indent))
	case *ast.Jump:
		if s.Kind == ast.JumpBreak {
			return indent + "break;\n"
		}
		return indent + "continue;\n"
	case *ast.Return:
		if s.Discard {
			return indent + "discard;\n"
		}
		if s.Value == ast.InvalidNode {
			return indent + "return;\n"
		}
		if w.curStage == StageVertex && w.curIsEntry {
			if epilogue := w.sink.VertexEpilogue(); epilogue != "" {
				// GLSL has no "return <value>" for a vertex stage: the
				// value goes to gl_Position, then the clip-space fixup of
				// spec.md §4.3 runs before the (void) return.
				return fmt.Sprintf("%sgl_Position = %s;\n%s%s\n%sreturn;\n", indent, w.Expr(s.Value), indent, epilogue, indent)
			}
		}
		return fmt.Sprintf("%sreturn %s;\n", indent, w.Expr(s.Value))
	default:
		return ""
	}
}

func (w *Walker) emitCompound(c *ast.Compound, indent string) string {
	var sb strings.Builder
	sb.WriteString(indent + "{\n")
	for _, st := range c.Statements {
		sb.WriteString(w.Stmt(st, indent+"    "))
	}
	sb.WriteString(indent + "}\n")
	return sb.String()
}

func (w *Walker) emitDecls(decls []ast.NodeIndex, indent string) string {
	var sb strings.Builder
	for _, idx := range decls {
		v, ok := w.res.Arena.At(idx).(*ast.Variable)
		if !ok {
			continue
		}
		sb.WriteString(indent + w.sink.TypeName(v.Type) + " " + v.Name)
		if v.Initializer != ast.InvalidNode {
			sb.WriteString(" = " + w.Expr(v.Initializer))
		}
		sb.WriteString(";\n")
	}
	return sb.String()
}

func (w *Walker) emitSwitch(s *ast.Switch, indent string) string {
	var sb strings.Builder
	sb.WriteString(indent + "switch (" + w.Expr(s.Selector) + ") {\n")
	for i, caseIdx := range s.Cases {
		c, _ := w.res.Arena.At(caseIdx).(*ast.Case)
		if c == nil {
			continue
		}
		if c.IsDefault {
			sb.WriteString(indent + "default:\n")
		} else {
			sb.WriteString(indent + "case " + w.Expr(c.Value) + ":\n")
		}
		for _, body := range s.Bodies[i] {
			sb.WriteString(w.Stmt(body, indent+"    "))
		}
		sb.WriteString(indent + "    break;\n")
	}
	sb.WriteString(indent + "}\n")
	return sb.String()
}

// emitFunctionDef renders a full function definition: signature plus body.
// Forward declarations (no body) are skipped by callers.
func (w *Walker) emitFunctionDef(fn *ast.Function) string {
	if fn.Body == ast.InvalidNode {
		return ""
	}
	return w.sink.FunctionSignature(fn) + "\n" + w.Stmt(fn.Body, "")
}
