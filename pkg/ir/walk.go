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

// Walk traverses the tree rooted at n in pre-order, calling visit for every
// node. If visit returns false, the children of that node are skipped.
// Passes that only observe the IR use Walk; passes that rebuild it carry
// their own recursion.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}

// Children returns the direct child nodes of n in source order. Nil slots
// (absent mask, absent else arm, uninitialized declaration) are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		// a nil Expr stored in an interface slot must not survive into
		// the walk
		switch v := c.(type) {
		case nil:
		case *StmtsNode:
			if v != nil {
				out = append(out, v)
			}
		default:
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *VarNode, *ConstIntNode:
	case *TensorNode:
		for _, d := range n.Dims {
			add(d)
		}
	case *BinaryNode:
		add(n.L)
		add(n.R)
	case *IndexingNode:
		add(n.Ptr)
		for _, i := range n.Idx {
			add(i)
		}
		if n.Mask != nil {
			add(n.Mask)
		}
	case *TensorPtrNode:
		add(n.Base)
	case *CallNode:
		for _, a := range n.Args {
			add(a)
		}
	case *IntrinCallNode:
		for _, a := range n.Args {
			add(a)
		}
	case *AssignNode:
		add(n.LHS)
		add(n.RHS)
	case *VarDefNode:
		add(n.Def)
		if n.Init != nil {
			add(n.Init)
		}
	case *EvalNode:
		add(n.V)
	case *StmtsNode:
		for _, s := range n.Seq {
			add(s)
		}
	case *ForLoopNode:
		add(n.Iter)
		add(n.Begin)
		add(n.End)
		add(n.Step)
		add(n.Body)
	case *IfElseNode:
		add(n.Cond)
		add(n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	}
	return out
}
