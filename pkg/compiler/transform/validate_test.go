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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/secretflow/tensorc/pkg/ir"
)

func TestValidateAcceptsWellFormed(t *testing.T) {
	r := require.New(t)

	a := newTestTensor("A")
	i := ir.NewVar("i", s32())
	f := ir.NewFunc("ok", []ir.Expr{a, i}, ir.NewStmts(
		ir.NewAssign(ir.NewIndexing(a, i), ir.NewConstIntTyped(1, f32())),
		ir.NewForLoop(ir.NewVar("k", ir.NewScalarType(ir.KindIndex)),
			ir.NewConstInt(0), ir.NewConstInt(4), ir.NewConstInt(1),
			ir.NewStmts()),
	))
	r.NoError(Validate(f))
}

func TestValidateRejects(t *testing.T) {
	a := newTestTensor("A")
	i := ir.NewVar("i", s32())

	cases := []struct {
		name string
		body *ir.StmtsNode
		want string
	}{
		{
			name: "indexing over a var",
			body: ir.NewStmts(ir.NewAssign(ir.NewIndexing(i, ir.NewConstInt(0)), ir.NewConstInt(1))),
			want: "based on a tensor",
		},
		{
			name: "arity mismatch",
			body: ir.NewStmts(ir.NewAssign(
				ir.NewIndexing(a, ir.NewConstInt(0), ir.NewConstInt(1)), ir.NewConstInt(1))),
			want: "dims",
		},
		{
			name: "assign to a literal",
			body: ir.NewStmts(ir.NewAssign(ir.NewConstInt(3), ir.NewConstInt(1))),
			want: "assign target",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(ir.NewFunc("bad", []ir.Expr{a, i}, c.body))
			require.Error(t, err)
			require.Contains(t, err.Error(), c.want)
		})
	}
}
