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
)

// IndexStmts assigns a linear, incremental index to every statement of the
// function, stored under the AttrStmtIndex attribute. Liveness-style
// consumers use the numbering to order program points. Returns the number
// of statements indexed.
func IndexStmts(f *ir.Func) int {
	next := 0
	ir.Walk(f.Body, func(n ir.Node) bool {
		if s, ok := n.(ir.Stmt); ok {
			s.SetAttr(ir.AttrStmtIndex, next)
			next++
		}
		return true
	})
	return next
}
