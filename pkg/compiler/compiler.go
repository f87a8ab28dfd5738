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

// Package compiler runs the IR transform pipeline over one function.
package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/secretflow/tensorc/pkg/compiler/transform"
	"github.com/secretflow/tensorc/pkg/ir"
)

// Pass represents a single transformation stage in the pipeline
type Pass interface {
	// Name returns the pass name for logging and debugging
	Name() string
	// Run executes the pass logic, returns error if failed
	Run(c *PassContext) error
}

// PassContext carries the function under compilation through the pipeline.
// Passes read and replace Func; annotations live on the IR nodes.
type PassContext struct {
	Ctx  context.Context
	Func *ir.Func
}

// NewPassContext initializes a pass context for one function.
func NewPassContext(ctx context.Context, f *ir.Func) *PassContext {
	return &PassContext{Ctx: ctx, Func: f}
}

// ValidatePass rejects malformed IR before any transform runs.
type ValidatePass struct{}

// NewValidatePass creates a new validate pass
func NewValidatePass() *ValidatePass { return &ValidatePass{} }

// Name returns the pass name
func (p *ValidatePass) Name() string { return "ValidatePass" }

// Run checks the structural invariants of the function
func (p *ValidatePass) Run(c *PassContext) error {
	if err := transform.Validate(c.Func); err != nil {
		return fmt.Errorf("malformed IR: %v", err)
	}
	return nil
}

// StmtIndexPass numbers every statement for downstream consumers.
type StmtIndexPass struct{}

// NewStmtIndexPass creates a new statement indexer pass
func NewStmtIndexPass() *StmtIndexPass { return &StmtIndexPass{} }

// Name returns the pass name
func (p *StmtIndexPass) Name() string { return "StmtIndexPass" }

// Run assigns linear statement indices
func (p *StmtIndexPass) Run(c *PassContext) error {
	n := transform.IndexStmts(c.Func)
	logrus.Debugf("indexed %d statements in %s", n, c.Func.Name)
	return nil
}

// IndexToVarPass runs the index-to-var caching transform.
type IndexToVarPass struct{}

// NewIndexToVarPass creates a new index-to-var pass
func NewIndexToVarPass() *IndexToVarPass { return &IndexToVarPass{} }

// Name returns the pass name
func (p *IndexToVarPass) Name() string { return "IndexToVarPass" }

// Run rewrites matched tensor accesses through scalar cache variables
func (p *IndexToVarPass) Run(c *PassContext) error {
	if DisableIndexToVar() {
		logrus.Infof("index2var disabled by environment, skipping")
		return nil
	}
	f, err := transform.IndexToVar(c.Func)
	if err != nil {
		return fmt.Errorf("index2var failed: %v", err)
	}
	c.Func = f
	return nil
}

// DefaultPasses returns the standard pipeline in run order.
func DefaultPasses() []Pass {
	return []Pass{
		NewValidatePass(),
		NewStmtIndexPass(),
		NewIndexToVarPass(),
	}
}

// Compile runs the default pipeline on f and returns the transformed
// function. The input tree is not mutated structurally; annotations are
// attached to its nodes through attributes and the temp-data slot.
func Compile(ctx context.Context, f *ir.Func) (*ir.Func, error) {
	passes := DefaultPasses()
	names := lo.Map(passes, func(p Pass, _ int) string { return p.Name() })
	logrus.Debugf("pipeline for %s: %s", f.Name, strings.Join(names, " -> "))

	c := NewPassContext(ctx, f)
	for _, p := range passes {
		if DumpIR() {
			logrus.Debugf("IR before %s:\n%s", p.Name(), c.Func)
		}
		if err := p.Run(c); err != nil {
			return nil, fmt.Errorf("pass %s: %v", p.Name(), err)
		}
	}
	if DumpIR() {
		logrus.Debugf("IR after pipeline:\n%s", c.Func)
	}
	return c.Func, nil
}
