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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPrintExprs(t *testing.T) {
	r := require.New(t)

	tsr := NewTensor("A", NewScalarType(KindF32), NewConstInt(64))
	i := NewVar("i", NewScalarType(KindS32))
	j := NewVar("j", NewScalarType(KindS32))

	cases := []struct {
		expr Expr
		want string
	}{
		{NewIndexing(tsr, i), "A[i]"},
		{NewIndexing(tsr, Add(i, j)), "A[(i + j)]"},
		{NewIndexingVec(tsr, []Expr{i}, 8, nil), "A[i]:x8"},
		{NewIndexingVec(tsr, []Expr{i}, 8, NewVar("m", NewVectorType(KindBool, 8))), "A[i]:x8?m"},
		{NewTensorPtr(NewIndexing(tsr, i)), "&A[i]"},
		{NewCall("update", NewScalarType(KindF32), tsr, i), "update(A, i)"},
		{NewIntrinCall(IntrinBroadcast, NewVectorType(KindF32, 8), NewIndexing(tsr, i)), "@broadcast(A[i])"},
		{Mul(Add(i, NewConstInt(1)), j), "((i + 1) * j)"},
	}
	for _, c := range cases {
		r.Equal(c.want, c.expr.String())
	}
}

func TestPrintFunc(t *testing.T) {
	r := require.New(t)

	tsr := NewTensor("A", NewScalarType(KindF32), NewConstInt(100))
	i := NewVar("i", NewScalarType(KindS32))
	k := NewVar("k", NewScalarType(KindIndex))
	c := NewVar("c", NewScalarType(KindBool))

	f := NewFunc("demo", []Expr{tsr, i, c}, NewStmts(
		NewAssign(NewIndexing(tsr, i), NewConstInt(1)),
		NewForLoop(k, NewConstInt(0), NewConstInt(10), NewConstInt(1), NewStmts(
			NewAssign(NewIndexing(tsr, k), NewConstIntTyped(0, NewScalarType(KindS32))),
		)),
		NewIfElse(c, NewStmts(
			NewVarDef(NewVar("x", NewScalarType(KindF32)), NewIndexing(tsr, i)),
		), NewStmts(
			NewEval(NewCall("spill", NewScalarType(KindInvalid), tsr)),
		)),
	))

	want := `func demo(A: [f32 x 100], i: s32, c: bool) {
  A[i] = 1
  for k in (0, 10, 1) {
    A[k] = 0
  }
  if c {
    var x: f32 = A[i]
  } else {
    eval spill(A)
  }
}`
	if diff := cmp.Diff(want, f.String()); diff != "" {
		t.Fatalf("printed function mismatch (-want +got):\n%s", diff)
	}
	r.Equal(want, f.String())
}
