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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareByIdentity(t *testing.T) {
	r := require.New(t)
	cmp := NewComparer(false)

	tsr := NewTensor("A", NewScalarType(KindF32), NewConstInt(16))
	i := NewVar("i", NewScalarType(KindS32))
	iTwin := NewVar("i", NewScalarType(KindS32))

	r.True(cmp.CompareExpr(NewIndexing(tsr, i), NewIndexing(tsr, i)))
	// the same spelling over a different variable node is a different address
	r.False(cmp.CompareExpr(NewIndexing(tsr, i), NewIndexing(tsr, iTwin)))

	// lanes and masks participate in equality
	r.False(cmp.CompareExpr(
		NewIndexingVec(tsr, []Expr{i}, 8, nil),
		NewIndexing(tsr, i),
	))
	m := NewVar("m", NewVectorType(KindBool, 8))
	r.True(cmp.CompareExpr(
		NewIndexingVec(tsr, []Expr{i}, 8, m),
		NewIndexingVec(tsr, []Expr{i}, 8, m),
	))
	r.False(cmp.CompareExpr(
		NewIndexingVec(tsr, []Expr{i}, 8, m),
		NewIndexingVec(tsr, []Expr{i}, 8, nil),
	))

	r.True(cmp.CompareExpr(Add(i, NewConstInt(1)), Add(i, NewConstInt(1))))
	r.False(cmp.CompareExpr(Add(i, NewConstInt(1)), Add(i, NewConstInt(2))))
}

func TestCompareFuzzyVarNames(t *testing.T) {
	r := require.New(t)

	tsr := NewTensor("A", NewScalarType(KindF32), NewConstInt(16))
	i := NewVar("i", NewScalarType(KindS32))

	build := func(cacheName string) *StmtsNode {
		v := NewVar(cacheName, NewScalarType(KindF32))
		return NewStmts(
			NewVarDef(v, nil),
			NewAssign(v, NewIndexing(tsr, i)),
			NewAssign(NewIndexing(tsr, i), v),
		)
	}

	a := build("__cached_0")
	b := build("__tmp_9")

	r.False(NewComparer(false).CompareStmt(a, b))
	// under alpha-renaming the two sequences are the same program
	r.True(NewComparer(true).CompareStmt(a, b))

	// renaming must stay consistent after binding
	v1 := NewVar("p", NewScalarType(KindF32))
	v2 := NewVar("q", NewScalarType(KindF32))
	v3 := NewVar("r", NewScalarType(KindF32))
	lhs := NewStmts(NewVarDef(v1, nil), NewAssign(v1, NewConstInt(0)), NewAssign(v1, NewConstInt(1)))
	rhs := NewStmts(NewVarDef(v2, nil), NewAssign(v2, NewConstInt(0)), NewAssign(v3, NewConstInt(1)))
	r.False(NewComparer(true).CompareStmt(lhs, rhs))

	// free variables must agree on the name
	r.False(NewComparer(true).CompareExpr(
		NewIndexing(tsr, NewVar("i", NewScalarType(KindS32))),
		NewIndexing(tsr, NewVar("j", NewScalarType(KindS32))),
	))
	r.True(NewComparer(true).CompareExpr(
		NewIndexing(tsr, NewVar("i", NewScalarType(KindS32))),
		NewIndexing(tsr, NewVar("i", NewScalarType(KindS32))),
	))
}
