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

	"github.com/secretflow/tensorc/pkg/ir"
)

// Validate checks the structural invariants the transform passes rely on:
// every indexing is based on a tensor with one index per dimension, every
// assignment targets a var or an indexing, and every loop body is a
// statement sequence. A malformed tree aborts compilation before any pass
// touches it.
func Validate(f *ir.Func) error {
	var firstErr error
	record := func(err error) bool {
		if firstErr == nil {
			firstErr = err
		}
		return false
	}
	ir.Walk(f.Body, func(n ir.Node) bool {
		switch n := n.(type) {
		case *ir.IndexingNode:
			t, ok := n.Ptr.(*ir.TensorNode)
			if !ok {
				return record(fmt.Errorf("indexing should be based on a tensor: %s", n))
			}
			if len(t.Dims) > 0 && len(n.Idx) != len(t.Dims) {
				return record(fmt.Errorf("indexing %s has %d indices, tensor %s has %d dims",
					n, len(n.Idx), t.Name, len(t.Dims)))
			}
			if len(n.Idx) == 0 {
				return record(fmt.Errorf("indexing without indices: %s", n))
			}
		case *ir.AssignNode:
			switch n.LHS.(type) {
			case *ir.VarNode, *ir.IndexingNode:
			default:
				return record(fmt.Errorf("assign target should be a var or an indexing: %s", n))
			}
		case *ir.ForLoopNode:
			if n.Body == nil {
				return record(fmt.Errorf("for loop without a body: %s", n.Iter))
			}
			if n.Iter == nil {
				return record(fmt.Errorf("for loop without an iteration variable"))
			}
		case *ir.IfElseNode:
			if n.Then == nil {
				return record(fmt.Errorf("if without a then block"))
			}
		}
		return true
	})
	return firstErr
}
