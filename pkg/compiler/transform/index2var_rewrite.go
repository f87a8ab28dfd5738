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
	"fmt"
	"slices"
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/secretflow/tensorc/pkg/ir"
	"github.com/secretflow/tensorc/pkg/ir/alias"
)

// tensorCache is the cache slot for one element of a tensor. A tensor has
// at most one live cache at a time.
type tensorCache struct {
	// tsr is the cached tensor; nil once the cache has been invalidated.
	tsr *ir.TensorNode
	// idx holds the index expressions substituted into the emitted IR; the
	// writeback recomputes the same address from them.
	idx   []ir.Expr
	lanes int
	mask  ir.Expr
	// v is the scalar holding the cached value.
	v *ir.VarNode
	// lastWrite is the statement sequence of the last cached store. Nil
	// while the cache is clean; a dirty cache appends its writeback here
	// on eviction.
	lastWrite *ir.StmtsNode
}

func (c *tensorCache) valid() bool { return c.tsr != nil }

// matches reports whether v accesses exactly the cached element: same
// tensor, same width, structurally equal indices and mask.
func (c *tensorCache) matches(v *ir.IndexingNode, cmp *ir.Comparer) bool {
	if ir.Expr(c.tsr) != v.Ptr {
		return false
	}
	if v.Lanes() != c.lanes || len(v.Idx) != len(c.idx) {
		return false
	}
	for i := range c.idx {
		if !cmp.CompareExpr(v.Idx[i], c.idx[i]) {
			return false
		}
	}
	return cmp.CompareExpr(v.Mask, c.mask)
}

// scopeFrame tracks one statement-sequence scope of the rewrite.
type scopeFrame struct {
	// written is the pre-computed written set of the scope's stmts node.
	written map[*ir.TensorNode]struct{}
	// created lists the caches created in this scope, in creation order;
	// they are evicted when the scope ends.
	created []*tensorCache
}

func (f *scopeFrame) createdHere(c *tensorCache) bool {
	return slices.Contains(f.created, c)
}

func (f *scopeFrame) writtenHere(t *ir.TensorNode) bool {
	_, ok := f.written[t]
	return ok
}

// indexToVarRewriter rebuilds the IR, routing matched loads and stores
// through scalar cache variables.
type indexToVarRewriter struct {
	// cached maps a tensor to its unique live cache.
	cached map[*ir.TensorNode]*tensorCache
	// deps maps an index variable to the caches whose indices read it;
	// assigning the variable evicts them. Invalidated entries linger here
	// and are skipped via the validity flag.
	deps map[*ir.VarNode][]*tensorCache
	// insert points at the statement vector of the scope being built;
	// declarations and priming loads are appended here.
	insert   *[]ir.Stmt
	scopes   []*scopeFrame
	forDepth int
	varCnt   int
	aliasMap map[*alias.Identity]*ir.TensorNode
	cmp      *ir.Comparer
}

func newIndexToVarRewriter(aliasMap map[*alias.Identity]*ir.TensorNode) *indexToVarRewriter {
	return &indexToVarRewriter{
		cached:   make(map[*ir.TensorNode]*tensorCache),
		deps:     make(map[*ir.VarNode][]*tensorCache),
		aliasMap: aliasMap,
		cmp:      ir.NewComparer(false),
	}
}

func (r *indexToVarRewriter) top() *scopeFrame {
	return r.scopes[len(r.scopes)-1]
}

// invalidate evicts a cache. A dirty cache first appends its writeback to
// the statement sequence of its last write, so the store lands exactly
// where the original program last stored.
func (r *indexToVarRewriter) invalidate(c *tensorCache) {
	if !c.valid() {
		return
	}
	if c.lastWrite != nil {
		store := ir.NewIndexingVec(c.tsr, c.idx, c.lanes, c.mask)
		// the emitted store recomputes the cached address; mark it so a
		// later run of the pass leaves it alone
		store.SetAttr(ir.AttrNoIndexToVar, true)
		c.lastWrite.Seq = append(c.lastWrite.Seq, ir.NewAssign(store, c.v))
	}
	delete(r.cached, c.tsr)
	c.tsr = nil
}

// invalidateIfExist evicts the cache of tsr, if any.
func (r *indexToVarRewriter) invalidateIfExist(tsr *ir.TensorNode) bool {
	if c, ok := r.cached[tsr]; ok {
		r.invalidate(c)
		return true
	}
	return false
}

// invalidateAliasGroup evicts the caches of every tensor in the alias
// group of tsr. A failed weak-reference upgrade aborts the pass.
func (r *indexToVarRewriter) invalidateAliasGroup(tsr *ir.TensorNode, includeSelf bool) (bool, error) {
	evicted := false
	if u := usageOf(tsr); u != nil && u.AliasID != nil {
		members, err := u.AliasID.Members()
		if err != nil {
			return false, err
		}
		for _, m := range members {
			other, ok := r.aliasMap[m]
			if !ok || other == tsr {
				continue
			}
			if r.invalidateIfExist(other) {
				evicted = true
			}
		}
	}
	if includeSelf && r.invalidateIfExist(tsr) {
		evicted = true
	}
	return evicted, nil
}

// findIndexDeps collects the variables the index expressions read. It
// reports false when the indices contain another indexing or a call: the
// run-time value of such indices cannot be tracked, so no cache may be
// created for the access.
func findIndexDeps(vars map[*ir.VarNode]struct{}, idx []ir.Expr) bool {
	traceable := true
	for _, e := range idx {
		ir.Walk(e, func(n ir.Node) bool {
			switch n := n.(type) {
			case *ir.VarNode:
				vars[n] = struct{}{}
			case *ir.IndexingNode:
				log.Debugf("found indexing node in index: %s", n)
				traceable = false
				return false
			case *ir.CallNode:
				log.Debugf("found call node in index: %s", n)
				traceable = false
				return false
			}
			return true
		})
	}
	return traceable
}

// makeCache creates a cache slot for the access v. It declares a fresh
// scalar at the insertion point, primes it with a load when the access is a
// read, and registers the dependency edges of the index variables. When no
// cache can be created the access is returned unchanged with a nil cache.
func (r *indexToVarRewriter) makeCache(v *ir.IndexingNode, isRead bool) (ir.Expr, *tensorCache, error) {
	log.Debugf("make cache: %s", v)
	vars := make(map[*ir.VarNode]struct{})
	if !findIndexDeps(vars, v.Idx) {
		return v, nil, nil
	}
	tsr, err := tensorOf(v)
	if err != nil {
		return nil, nil, err
	}
	if u := usageOf(tsr); u != nil && u.UsedInBroadcast && v.Lanes() == 1 {
		// a scalar access here would disturb the later vector broadcast
		log.Debugf("skip scalar access on broadcast source: %s", v)
		return v, nil, nil
	}
	vcache := ir.NewVar(fmt.Sprintf("__cached_%d", r.varCnt), v.Type())
	r.varCnt++
	*r.insert = append(*r.insert, ir.NewVarDef(vcache, nil))
	if isRead {
		// prime the scalar from memory; the load is marked so a later run
		// of the pass leaves it alone
		load := ir.NewIndexingVec(tsr, v.Idx, v.Lanes(), v.Mask)
		load.SetAttr(ir.AttrNoIndexToVar, true)
		*r.insert = append(*r.insert, ir.NewAssign(vcache, load))
	}
	c := &tensorCache{
		tsr:   tsr,
		idx:   slices.Clone(v.Idx),
		lanes: v.Lanes(),
		mask:  v.Mask,
		v:     vcache,
	}
	frame := r.top()
	frame.created = append(frame.created, c)
	for dep := range vars {
		r.deps[dep] = append(r.deps[dep], c)
	}
	r.cached[tsr] = c
	return vcache, c, nil
}

// visitIndexing handles one tensor access in read or write position. It
// returns the replacement expression and the cache backing it, if any.
func (r *indexToVarRewriter) visitIndexing(v *ir.IndexingNode, isRead bool) (ir.Expr, *tensorCache, error) {
	ret, err := r.rebuildIndexing(v)
	if err != nil {
		return nil, nil, err
	}
	tsr, err := tensorOf(ret)
	if err != nil {
		return nil, nil, err
	}
	if tsr.AttrBool(ir.AttrMustTensorToVar) {
		// the tensor is claimed by tensor-to-var; leave the access alone
		return ret, nil, nil
	}
	if !isRead {
		// a store may be observed through any alias of the tensor; the
		// tensor's own cache is handled below
		evicted, err := r.invalidateAliasGroup(tsr, false)
		if err != nil {
			return nil, nil, err
		}
		if evicted {
			log.Debugf("alias group invalidated for %s", tsr)
		}
	}
	if c, ok := r.cached[tsr]; ok {
		if c.matches(ret, r.cmp) {
			// A matching hit may be reused if the access is a read outside
			// any loop, or the cache was created in the current scope, or
			// the current scope never writes the tensor. Otherwise a write
			// somewhere in this scope may supersede a store cached in a
			// sibling scope, and the entry must be evicted first.
			frame := r.top()
			if (isRead && r.forDepth == 0) || frame.createdHere(c) || !frame.writtenHere(tsr) {
				return c.v, c, nil
			}
			log.Debugf("evict parent scope cache in child scope: %s", ret)
		} else {
			log.Debugf("evict old for unmatched index: %s", ret)
		}
		r.invalidate(c)
	}
	return r.makeCache(ret, isRead)
}

// rebuildIndexing dispatches the children of an indexing without treating
// the node itself as a load.
func (r *indexToVarRewriter) rebuildIndexing(v *ir.IndexingNode) (*ir.IndexingNode, error) {
	changed := false
	newIdx := make([]ir.Expr, len(v.Idx))
	for i, e := range v.Idx {
		ne, err := r.dispatchExpr(e)
		if err != nil {
			return nil, err
		}
		changed = changed || ne != e
		newIdx[i] = ne
	}
	newMask := v.Mask
	if v.Mask != nil {
		nm, err := r.dispatchExpr(v.Mask)
		if err != nil {
			return nil, err
		}
		changed = changed || nm != v.Mask
		newMask = nm
	}
	if !changed {
		return v, nil
	}
	ret := ir.NewIndexingVec(v.Ptr, newIdx, v.Lanes(), newMask)
	if b, ok := v.Attr(ir.AttrNoIndexToVar); ok {
		ret.SetAttr(ir.AttrNoIndexToVar, b)
	}
	return ret, nil
}

func (r *indexToVarRewriter) dispatchExpr(e ir.Expr) (ir.Expr, error) {
	switch e := e.(type) {
	case *ir.IndexingNode:
		if e.AttrBool(ir.AttrNoIndexToVar) {
			return e, nil
		}
		ret, _, err := r.visitIndexing(e, true)
		return ret, err
	case *ir.BinaryNode:
		l, err := r.dispatchExpr(e.L)
		if err != nil {
			return nil, err
		}
		rr, err := r.dispatchExpr(e.R)
		if err != nil {
			return nil, err
		}
		if l == e.L && rr == e.R {
			return e, nil
		}
		return ir.NewBinary(e.Op, l, rr), nil
	case *ir.CallNode:
		args, changed, err := r.dispatchExprs(e.Args)
		if err != nil {
			return nil, err
		}
		// the callee may store through any aliasing pointer
		for _, arg := range args {
			if t, ok := arg.(*ir.TensorNode); ok {
				evicted, err := r.invalidateAliasGroup(t, true)
				if err != nil {
					return nil, err
				}
				if evicted {
					log.Debugf("evict due to function call: %s", e)
				}
			}
		}
		if !changed {
			return e, nil
		}
		return ir.NewCall(e.Callee, e.DType, args...), nil
	case *ir.IntrinCallNode:
		args, changed, err := r.dispatchExprs(e.Args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return e, nil
		}
		return ir.NewIntrinCall(e.Kind, e.DType, args...), nil
	case *ir.TensorPtrNode:
		// rebuild the indices of the base without creating a cache slot;
		// taking the address exposes the tensor to unknown mutation
		base, err := r.rebuildIndexing(e.Base)
		if err != nil {
			return nil, err
		}
		tsr, err := tensorOf(base)
		if err != nil {
			return nil, err
		}
		evicted, err := r.invalidateAliasGroup(tsr, true)
		if err != nil {
			return nil, err
		}
		if evicted {
			log.Debugf("evict due to tensorptr: %s", e)
		}
		if base == e.Base {
			return e, nil
		}
		return ir.NewTensorPtr(base), nil
	default:
		// var, tensor, const
		return e, nil
	}
}

func (r *indexToVarRewriter) dispatchExprs(exprs []ir.Expr) ([]ir.Expr, bool, error) {
	changed := false
	out := make([]ir.Expr, len(exprs))
	for i, e := range exprs {
		ne, err := r.dispatchExpr(e)
		if err != nil {
			return nil, false, err
		}
		changed = changed || ne != e
		out[i] = ne
	}
	return out, changed, nil
}

func (r *indexToVarRewriter) dispatchStmt(s ir.Stmt) (ir.Stmt, error) {
	switch s := s.(type) {
	case *ir.AssignNode:
		return r.visitAssign(s)
	case *ir.StmtsNode:
		return r.visitStmts(s)
	case *ir.ForLoopNode:
		// loop bounds are evaluated in the enclosing scope, before the body
		bounds, boundsChanged, err := r.dispatchExprs([]ir.Expr{s.Begin, s.End, s.Step})
		if err != nil {
			return nil, err
		}
		r.forDepth++
		body, err := r.dispatchStmt(s.Body)
		r.forDepth--
		if err != nil {
			return nil, err
		}
		if !boundsChanged && body == ir.Stmt(s.Body) {
			return s, nil
		}
		return ir.NewForLoop(s.Iter, bounds[0], bounds[1], bounds[2], body.(*ir.StmtsNode)), nil
	case *ir.IfElseNode:
		cond, err := r.dispatchExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		thenCase, err := r.dispatchStmt(s.Then)
		if err != nil {
			return nil, err
		}
		elseCase := ir.Stmt(nil)
		if s.Else != nil {
			elseCase, err = r.dispatchStmt(s.Else)
			if err != nil {
				return nil, err
			}
		}
		if cond == s.Cond && thenCase == ir.Stmt(s.Then) && (s.Else == nil || elseCase == ir.Stmt(s.Else)) {
			return s, nil
		}
		var elseStmts *ir.StmtsNode
		if elseCase != nil {
			elseStmts = elseCase.(*ir.StmtsNode)
		}
		return ir.NewIfElse(cond, thenCase.(*ir.StmtsNode), elseStmts), nil
	case *ir.VarDefNode:
		if s.Init == nil {
			return s, nil
		}
		init, err := r.dispatchExpr(s.Init)
		if err != nil {
			return nil, err
		}
		if init == s.Init {
			return s, nil
		}
		return ir.NewVarDef(s.Def, init), nil
	case *ir.EvalNode:
		v, err := r.dispatchExpr(s.V)
		if err != nil {
			return nil, err
		}
		if v == s.V {
			return s, nil
		}
		return ir.NewEval(v), nil
	default:
		return nil, fmt.Errorf("unexpected statement kind %T", s)
	}
}

func (r *indexToVarRewriter) visitAssign(s *ir.AssignNode) (ir.Stmt, error) {
	switch lhs := s.LHS.(type) {
	case *ir.IndexingNode:
		rhs, err := r.dispatchExpr(s.RHS)
		if err != nil {
			return nil, err
		}
		if lhs.AttrBool(ir.AttrNoIndexToVar) {
			if rhs == s.RHS {
				return s, nil
			}
			return ir.NewAssign(lhs, rhs), nil
		}
		newLHS, cache, err := r.visitIndexing(lhs, false)
		if err != nil {
			return nil, err
		}
		if cache != nil {
			// wrap the cached store in its own sequence and remember it as
			// the entry's last write; a later eviction appends the
			// writeback there
			ret := ir.NewStmts(ir.NewAssign(newLHS, rhs))
			cache.lastWrite = ret
			return ret, nil
		}
		// cache creation declined (untraceable indices or claimed tensor)
		if rhs == s.RHS && newLHS == ir.Expr(lhs) {
			return s, nil
		}
		return ir.NewAssign(newLHS, rhs), nil
	case *ir.VarNode:
		// the indices of these caches read lhs and are stale after this
		// assignment
		if list, ok := r.deps[lhs]; ok {
			for _, c := range list {
				if c.valid() {
					log.Debugf("evict due to change of index %s, tensor %s", lhs, c.tsr)
					r.invalidate(c)
				}
			}
			delete(r.deps, lhs)
		}
		rhs, err := r.dispatchExpr(s.RHS)
		if err != nil {
			return nil, err
		}
		if rhs == s.RHS {
			return s, nil
		}
		return ir.NewAssign(lhs, rhs), nil
	default:
		return nil, fmt.Errorf("assign target should be a var or an indexing: %s", s)
	}
}

func (r *indexToVarRewriter) visitStmts(s *ir.StmtsNode) (ir.Stmt, error) {
	written, ok := writtenOf(s)
	if !ok {
		return nil, fmt.Errorf("missing written-set annotation on statements node; analysis must run first")
	}
	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		names := lo.Map(lo.Keys(written), func(t *ir.TensorNode, _ int) string { return t.Name })
		sort.Strings(names)
		log.Debugf("enter scope, written tensors: %v", names)
	}

	oldInsert := r.insert
	seq := make([]ir.Stmt, 0, len(s.Seq))
	r.insert = &seq
	r.scopes = append(r.scopes, &scopeFrame{written: written})

	changed := false
	for _, child := range s.Seq {
		ns, err := r.dispatchStmt(child)
		if err != nil {
			return nil, err
		}
		changed = changed || ns != child
		seq = append(seq, ns)
	}
	changed = changed || len(seq) != len(s.Seq)

	// caches created here die with the scope; dirty ones flush their
	// writeback so the store stays visible to the surrounding code
	frame := r.top()
	for _, c := range frame.created {
		if c.valid() {
			log.Debugf("evict at the end of scope: %s", c.tsr)
			r.invalidate(c)
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
	r.insert = oldInsert

	if changed {
		return ir.NewStmts(seq...), nil
	}
	return s, nil
}
