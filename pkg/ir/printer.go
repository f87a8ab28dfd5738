// Copyright 2026 Ant Group Co., Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"fmt"
	"strings"
)

// The printer renders IR as indented pseudo-code. The output is for logs,
// golden tests and error messages; it is not parsed back.

func (v *VarNode) String() string { return v.Name }

func (t *TensorNode) String() string { return t.Name }

func (c *ConstIntNode) String() string { return fmt.Sprintf("%d", c.Value) }

func (b *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", b.L, binOpNames[b.Op], b.R)
}

func (i *IndexingNode) String() string {
	var sb strings.Builder
	sb.WriteString(i.Ptr.String())
	sb.WriteByte('[')
	for n, idx := range i.Idx {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(idx.String())
	}
	sb.WriteByte(']')
	if i.Lanes() > 1 {
		fmt.Fprintf(&sb, ":x%d", i.Lanes())
	}
	if i.Mask != nil {
		fmt.Fprintf(&sb, "?%s", i.Mask)
	}
	return sb.String()
}

func (t *TensorPtrNode) String() string { return "&" + t.Base.String() }

func (c *CallNode) String() string {
	return fmt.Sprintf("%s(%s)", c.Callee, joinExprs(c.Args))
}

func (c *IntrinCallNode) String() string {
	return fmt.Sprintf("@%s(%s)", c.Kind, joinExprs(c.Args))
}

func (a *AssignNode) String() string {
	return fmt.Sprintf("%s = %s", a.LHS, a.RHS)
}

func (d *VarDefNode) String() string {
	if d.Init != nil {
		return fmt.Sprintf("var %s: %s = %s", d.Def.Name, d.Def.DType, d.Init)
	}
	return fmt.Sprintf("var %s: %s", d.Def.Name, d.Def.DType)
}

func (e *EvalNode) String() string { return "eval " + e.V.String() }

func (s *StmtsNode) String() string {
	var sb strings.Builder
	printStmt(&sb, s, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (f *ForLoopNode) String() string {
	var sb strings.Builder
	printStmt(&sb, f, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (i *IfElseNode) String() string {
	var sb strings.Builder
	printStmt(&sb, i, 0)
	return strings.TrimRight(sb.String(), "\n")
}

// String renders the whole function.
func (f *Func) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(", f.Name)
	for n, p := range f.Params {
		if n > 0 {
			sb.WriteString(", ")
		}
		switch p := p.(type) {
		case *TensorNode:
			fmt.Fprintf(&sb, "%s: [%s x %s]", p.Name, p.Elem, joinExprs(p.Dims))
		case *VarNode:
			fmt.Fprintf(&sb, "%s: %s", p.Name, p.DType)
		default:
			sb.WriteString(p.String())
		}
	}
	sb.WriteString(") ")
	printBlock(&sb, f.Body, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func printStmt(sb *strings.Builder, s Stmt, depth int) {
	ind := strings.Repeat("  ", depth)
	switch s := s.(type) {
	case *StmtsNode:
		sb.WriteString(ind)
		printBlock(sb, s, depth)
	case *ForLoopNode:
		fmt.Fprintf(sb, "%sfor %s in (%s, %s, %s) ", ind, s.Iter, s.Begin, s.End, s.Step)
		printBlock(sb, s.Body, depth)
	case *IfElseNode:
		fmt.Fprintf(sb, "%sif %s ", ind, s.Cond)
		printBlock(sb, s.Then, depth)
		if s.Else != nil {
			// rewrite the trailing newline into an else clause
			trimNewline(sb)
			sb.WriteString(" else ")
			printBlock(sb, s.Else, depth)
		}
	default:
		fmt.Fprintf(sb, "%s%s\n", ind, s)
	}
}

func printBlock(sb *strings.Builder, s *StmtsNode, depth int) {
	sb.WriteString("{\n")
	for _, child := range s.Seq {
		printStmt(sb, child, depth+1)
	}
	fmt.Fprintf(sb, "%s}\n", strings.Repeat("  ", depth))
}

func trimNewline(sb *strings.Builder) {
	out := strings.TrimRight(sb.String(), "\n")
	sb.Reset()
	sb.WriteString(out)
}
