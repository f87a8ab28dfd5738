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

// Package transform implements the IR optimization passes.
//
// The central pass is index-to-var: it rewrites repeated accesses to the
// same tensor element into uses of a scalar cache variable, hoisting loads
// and delaying stores across straight-line code so that the code generator
// can keep hot values in registers. The transform runs as two walks over
// the function: an analysis that annotates statements with the tensors
// written under them, and a rewrite that performs the caching using those
// annotations.
package transform

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/secretflow/tensorc/pkg/ir"
	"github.com/secretflow/tensorc/pkg/ir/alias"
)

var log = logrus.WithField("pass", "index2var")

// WrittenTensorResult annotates a statement with the set of tensors
// assigned through an indexing anywhere in its transitive body.
type WrittenTensorResult struct {
	Written map[*ir.TensorNode]struct{}
}

// TensorUsageResult annotates a tensor with how the function uses it.
type TensorUsageResult struct {
	// UsedInBroadcast is true iff the tensor is the source of at least one
	// broadcast intrinsic argument.
	UsedInBroadcast bool
	// AliasID caches the tensor's alias identity.
	AliasID *alias.Identity
}

func writtenOf(s ir.Stmt) (map[*ir.TensorNode]struct{}, bool) {
	r, ok := s.TempData().(*WrittenTensorResult)
	if !ok {
		return nil, false
	}
	return r.Written, true
}

func usageOf(t *ir.TensorNode) *TensorUsageResult {
	r, _ := t.TempData().(*TensorUsageResult)
	return r
}

// tensorOf returns the tensor a well-formed indexing is based on.
func tensorOf(idx *ir.IndexingNode) (*ir.TensorNode, error) {
	t, ok := idx.Ptr.(*ir.TensorNode)
	if !ok {
		return nil, fmt.Errorf("indexing should be based on a tensor: %s", idx)
	}
	return t, nil
}

// IndexToVar runs the index-to-var transform on a function. The returned
// function shares unchanged subtrees with the input.
func IndexToVar(f *ir.Func) (*ir.Func, error) {
	ana := newIndexToVarAnalysis()
	if err := ana.analyzeFunc(f); err != nil {
		return nil, err
	}
	rw := newIndexToVarRewriter(ana.aliasMap)
	body, err := rw.dispatchStmt(f.Body)
	if err != nil {
		return nil, err
	}
	if body == ir.Stmt(f.Body) {
		return f, nil
	}
	return ir.NewFunc(f.Name, f.Params, body.(*ir.StmtsNode)), nil
}

// IndexToVarStmts runs the transform on a bare statement sequence.
func IndexToVarStmts(s *ir.StmtsNode) (ir.Stmt, error) {
	ana := newIndexToVarAnalysis()
	if _, err := ana.analyzeStmt(s); err != nil {
		return nil, err
	}
	rw := newIndexToVarRewriter(ana.aliasMap)
	return rw.dispatchStmt(s)
}
