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

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/secretflow/tensorc/pkg/ir"
)

func buildReuseFunc() *ir.Func {
	a := ir.NewTensor("A", ir.NewScalarType(ir.KindF32), ir.NewConstInt(64))
	i := ir.NewVar("i", ir.NewScalarType(ir.KindS32))
	one := ir.NewConstIntTyped(1, ir.NewScalarType(ir.KindF32))
	two := ir.NewConstIntTyped(2, ir.NewScalarType(ir.KindF32))
	return ir.NewFunc("reuse", []ir.Expr{a, i}, ir.NewStmts(
		ir.NewAssign(ir.NewIndexing(a, i), one),
		ir.NewAssign(ir.NewIndexing(a, i), ir.Add(ir.NewIndexing(a, i), two)),
	))
}

func TestCompile(t *testing.T) {
	r := require.New(t)

	f := buildReuseFunc()
	out, err := Compile(context.Background(), f)
	r.NoError(err)
	r.NotSame(f, out)

	// the pipeline numbered the input statements and ran the transform
	_, ok := f.Body.Attr(ir.AttrStmtIndex)
	r.True(ok)
	var defs int
	ir.Walk(out.Body, func(n ir.Node) bool {
		if _, ok := n.(*ir.VarDefNode); ok {
			defs++
		}
		return true
	})
	r.Equal(1, defs)
}

func TestCompileDisabled(t *testing.T) {
	r := require.New(t)
	t.Setenv("TENSORC_DISABLE_INDEX2VAR", "1")

	f := buildReuseFunc()
	out, err := Compile(context.Background(), f)
	r.NoError(err)
	r.Same(f, out)
}

func TestCompileMalformed(t *testing.T) {
	r := require.New(t)

	i := ir.NewVar("i", ir.NewScalarType(ir.KindS32))
	f := ir.NewFunc("bad", []ir.Expr{i}, ir.NewStmts(
		ir.NewAssign(ir.NewConstInt(1), ir.NewConstInt(2)),
	))
	_, err := Compile(context.Background(), f)
	r.Error(err)
	r.Contains(err.Error(), "malformed IR")
}

func TestPassNames(t *testing.T) {
	r := require.New(t)

	names := []string{}
	for _, p := range DefaultPasses() {
		names = append(names, p.Name())
	}
	r.Equal([]string{"ValidatePass", "StmtIndexPass", "IndexToVarPass"}, names)
}
