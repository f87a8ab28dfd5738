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

package transform

import (
	"github.com/secretflow/tensorc/pkg/ir"
	"github.com/secretflow/tensorc/pkg/ir/alias"
)

// indexToVarAnalysis computes, per statement, the set of tensors written
// under it, and per tensor, whether it feeds a broadcast intrinsic. It also
// builds the alias-identity -> tensor map the rewriter needs to turn a
// clique of identities back into tensor nodes.
type indexToVarAnalysis struct {
	aliasMap map[*alias.Identity]*ir.TensorNode
}

func newIndexToVarAnalysis() *indexToVarAnalysis {
	return &indexToVarAnalysis{
		aliasMap: make(map[*alias.Identity]*ir.TensorNode),
	}
}

func (a *indexToVarAnalysis) analyzeFunc(f *ir.Func) error {
	// parameters may carry alias identities even when unused in the body
	for _, p := range f.Params {
		if err := a.scanExpr(p); err != nil {
			return err
		}
	}
	_, err := a.analyzeStmt(f.Body)
	return err
}

// analyzeStmt computes the written set of s, attaches it as the statement's
// annotation and returns it. Written sets are monotone: a parent's set
// contains the union of its children's sets.
func (a *indexToVarAnalysis) analyzeStmt(s ir.Stmt) (map[*ir.TensorNode]struct{}, error) {
	w := make(map[*ir.TensorNode]struct{})
	switch s := s.(type) {
	case *ir.AssignNode:
		if err := a.scanExpr(s.LHS); err != nil {
			return nil, err
		}
		if err := a.scanExpr(s.RHS); err != nil {
			return nil, err
		}
		if idx, ok := s.LHS.(*ir.IndexingNode); ok {
			tsr, err := tensorOf(idx)
			if err != nil {
				return nil, err
			}
			w[tsr] = struct{}{}
		}
	case *ir.VarDefNode:
		if s.Init != nil {
			if err := a.scanExpr(s.Init); err != nil {
				return nil, err
			}
		}
	case *ir.EvalNode:
		if err := a.scanExpr(s.V); err != nil {
			return nil, err
		}
	case *ir.StmtsNode:
		for _, child := range s.Seq {
			cw, err := a.analyzeStmt(child)
			if err != nil {
				return nil, err
			}
			for t := range cw {
				w[t] = struct{}{}
			}
		}
	case *ir.ForLoopNode:
		for _, e := range []ir.Expr{s.Begin, s.End, s.Step} {
			if err := a.scanExpr(e); err != nil {
				return nil, err
			}
		}
		bw, err := a.analyzeStmt(s.Body)
		if err != nil {
			return nil, err
		}
		for t := range bw {
			w[t] = struct{}{}
		}
	case *ir.IfElseNode:
		if err := a.scanExpr(s.Cond); err != nil {
			return nil, err
		}
		tw, err := a.analyzeStmt(s.Then)
		if err != nil {
			return nil, err
		}
		for t := range tw {
			w[t] = struct{}{}
		}
		if s.Else != nil {
			ew, err := a.analyzeStmt(s.Else)
			if err != nil {
				return nil, err
			}
			for t := range ew {
				w[t] = struct{}{}
			}
		}
	}
	s.SetTempData(&WrittenTensorResult{Written: w})
	return w, nil
}

// scanExpr records tensor usage: alias identities for tensors that have
// peers, and broadcast sourcing for indexed broadcast arguments.
func (a *indexToVarAnalysis) scanExpr(e ir.Expr) error {
	switch e := e.(type) {
	case *ir.TensorNode:
		for _, d := range e.Dims {
			if err := a.scanExpr(d); err != nil {
				return err
			}
		}
		id := alias.Get(e)
		if id == nil || id.HasNoAlias() {
			return nil
		}
		u := usageOf(e)
		if u == nil {
			u = &TensorUsageResult{}
			e.SetTempData(u)
			a.aliasMap[id] = e
		}
		u.AliasID = id
	case *ir.BinaryNode:
		if err := a.scanExpr(e.L); err != nil {
			return err
		}
		return a.scanExpr(e.R)
	case *ir.IndexingNode:
		if err := a.scanExpr(e.Ptr); err != nil {
			return err
		}
		for _, i := range e.Idx {
			if err := a.scanExpr(i); err != nil {
				return err
			}
		}
		if e.Mask != nil {
			return a.scanExpr(e.Mask)
		}
	case *ir.TensorPtrNode:
		return a.scanExpr(e.Base)
	case *ir.CallNode:
		for _, arg := range e.Args {
			if err := a.scanExpr(arg); err != nil {
				return err
			}
		}
	case *ir.IntrinCallNode:
		for _, arg := range e.Args {
			if err := a.scanExpr(arg); err != nil {
				return err
			}
		}
		if e.Kind == ir.IntrinBroadcast && len(e.Args) > 0 {
			if idx, ok := e.Args[0].(*ir.IndexingNode); ok {
				tsr, err := tensorOf(idx)
				if err != nil {
					return err
				}
				if u := usageOf(tsr); u != nil {
					u.UsedInBroadcast = true
				} else {
					tsr.SetTempData(&TensorUsageResult{UsedInBroadcast: true})
				}
			}
		}
	}
	return nil
}
