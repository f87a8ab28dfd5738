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

// Comparer checks structural equality of IR subtrees.
//
// In the default mode two variable references are equal only if they are the
// same node; this is the mode the index-to-var rewrite uses for cache-hit
// matching, where index expressions must read the very same locations.
//
// With FuzzyVarNames set, distinct variable nodes compare equal when they
// correspond under a consistent renaming with equal types: once a variable
// of a is paired with a variable of b, it matches only that variable. The
// pairing is checked from a to b only, so two distinct variables of a may
// both pair with the same variable of b. This mode compares two rewrites of
// the same program, where fresh cache variables differ only in name.
type Comparer struct {
	FuzzyVarNames bool

	varMap map[*VarNode]*VarNode
}

// NewComparer returns a comparer. Fuzzy comparers carry renaming state and
// must not be reused across unrelated comparisons.
func NewComparer(fuzzyVarNames bool) *Comparer {
	return &Comparer{FuzzyVarNames: fuzzyVarNames}
}

// CompareExpr reports whether a and b are structurally equal.
func (c *Comparer) CompareExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *VarNode:
		bv, ok := b.(*VarNode)
		if !ok {
			return false
		}
		return c.compareVar(a, bv)
	case *TensorNode:
		bt, ok := b.(*TensorNode)
		return ok && a == bt
	case *ConstIntNode:
		bc, ok := b.(*ConstIntNode)
		return ok && a.Value == bc.Value && a.DType.Equal(bc.DType)
	case *BinaryNode:
		bb, ok := b.(*BinaryNode)
		return ok && a.Op == bb.Op && c.CompareExpr(a.L, bb.L) && c.CompareExpr(a.R, bb.R)
	case *IndexingNode:
		bi, ok := b.(*IndexingNode)
		if !ok || !a.DType.Equal(bi.DType) || len(a.Idx) != len(bi.Idx) {
			return false
		}
		if !c.CompareExpr(a.Ptr, bi.Ptr) {
			return false
		}
		for i := range a.Idx {
			if !c.CompareExpr(a.Idx[i], bi.Idx[i]) {
				return false
			}
		}
		return c.CompareExpr(a.Mask, bi.Mask)
	case *TensorPtrNode:
		bp, ok := b.(*TensorPtrNode)
		return ok && c.CompareExpr(a.Base, bp.Base)
	case *CallNode:
		bc, ok := b.(*CallNode)
		if !ok || a.Callee != bc.Callee || len(a.Args) != len(bc.Args) {
			return false
		}
		return c.compareArgs(a.Args, bc.Args)
	case *IntrinCallNode:
		bc, ok := b.(*IntrinCallNode)
		if !ok || a.Kind != bc.Kind || len(a.Args) != len(bc.Args) {
			return false
		}
		return c.compareArgs(a.Args, bc.Args)
	}
	return false
}

// CompareStmt reports whether a and b are structurally equal statements.
func (c *Comparer) CompareStmt(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *AssignNode:
		ba, ok := b.(*AssignNode)
		return ok && c.CompareExpr(a.LHS, ba.LHS) && c.CompareExpr(a.RHS, ba.RHS)
	case *VarDefNode:
		bd, ok := b.(*VarDefNode)
		if !ok {
			return false
		}
		if c.FuzzyVarNames {
			// a definition introduces the renaming pair
			if !a.Def.DType.Equal(bd.Def.DType) {
				return false
			}
			c.bind(a.Def, bd.Def)
		} else if a.Def != bd.Def {
			return false
		}
		if a.Init == nil || bd.Init == nil {
			return a.Init == nil && bd.Init == nil
		}
		return c.CompareExpr(a.Init, bd.Init)
	case *EvalNode:
		be, ok := b.(*EvalNode)
		return ok && c.CompareExpr(a.V, be.V)
	case *StmtsNode:
		bs, ok := b.(*StmtsNode)
		if !ok || len(a.Seq) != len(bs.Seq) {
			return false
		}
		for i := range a.Seq {
			if !c.CompareStmt(a.Seq[i], bs.Seq[i]) {
				return false
			}
		}
		return true
	case *ForLoopNode:
		bf, ok := b.(*ForLoopNode)
		if !ok {
			return false
		}
		if c.FuzzyVarNames {
			if !a.Iter.DType.Equal(bf.Iter.DType) {
				return false
			}
			c.bind(a.Iter, bf.Iter)
		} else if a.Iter != bf.Iter {
			return false
		}
		return c.CompareExpr(a.Begin, bf.Begin) && c.CompareExpr(a.End, bf.End) &&
			c.CompareExpr(a.Step, bf.Step) && c.CompareStmt(a.Body, bf.Body)
	case *IfElseNode:
		bi, ok := b.(*IfElseNode)
		if !ok || !c.CompareExpr(a.Cond, bi.Cond) || !c.CompareStmt(a.Then, bi.Then) {
			return false
		}
		if a.Else == nil || bi.Else == nil {
			return a.Else == nil && bi.Else == nil
		}
		return c.CompareStmt(a.Else, bi.Else)
	}
	return false
}

// CompareFunc reports whether two functions are structurally equal.
func (c *Comparer) CompareFunc(a, b *Func) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !c.CompareExpr(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return c.CompareStmt(a.Body, b.Body)
}

func (c *Comparer) compareArgs(a, b []Expr) bool {
	for i := range a {
		if !c.CompareExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (c *Comparer) compareVar(a, b *VarNode) bool {
	if a == b {
		return true
	}
	if !c.FuzzyVarNames {
		return false
	}
	if !a.DType.Equal(b.DType) {
		return false
	}
	if mapped, ok := c.varMap[a]; ok {
		return mapped == b
	}
	// an unbound pair of free variables must at least agree on the name
	if a.Name != b.Name {
		return false
	}
	c.bind(a, b)
	return true
}

func (c *Comparer) bind(a, b *VarNode) {
	if c.varMap == nil {
		c.varMap = make(map[*VarNode]*VarNode)
	}
	c.varMap[a] = b
}
