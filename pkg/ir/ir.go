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

// Package ir defines the tensor-program intermediate representation.
//
// The IR is a tree of statements and expressions describing element-wise
// computation over named tensors. Optimization passes either observe the
// tree (annotating nodes through the temp-data slot) or rebuild it,
// sharing unchanged subtrees by reference. Node identity is pointer
// identity: two uses of the same scalar variable reference the same
// *VarNode.
package ir

import "fmt"

// Attribute keys honored by the transform passes.
const (
	// AttrNoIndexToVar on an indexing node excludes that access from the
	// index-to-var rewrite.
	AttrNoIndexToVar = "no_index2var"
	// AttrMustTensorToVar on a tensor marks it as claimed by the
	// tensor-to-var pass; index-to-var must not touch it.
	AttrMustTensorToVar = "must_tensor2var"
	// AttrPointerAlias on a tensor holds its alias identity.
	AttrPointerAlias = "pointer_alias"
	// AttrStmtIndex holds the linear statement index assigned by the
	// statement indexer pass.
	AttrStmtIndex = "stmt_index"
)

// Node is the common interface of all IR nodes.
type Node interface {
	fmt.Stringer

	// Attr returns the attribute stored under key, if any.
	Attr(key string) (any, bool)
	// SetAttr stores an attribute on the node.
	SetAttr(key string, value any)
	// AttrBool returns the bool attribute under key, or false if absent.
	AttrBool(key string) bool

	// TempData returns the scratch annotation attached to the node.
	TempData() any
	// SetTempData attaches a scratch annotation to the node. Analyses own
	// this slot; a later analysis may overwrite it.
	SetTempData(value any)
}

// Expr is an IR node that yields a value.
type Expr interface {
	Node
	// Type returns the value type of the expression.
	Type() DataType
	exprNode()
}

// Stmt is an IR node executed for its side effects.
type Stmt interface {
	Node
	stmtNode()
}

// baseNode carries the attribute map and the temp-data slot shared by all
// node kinds. The attribute map is allocated lazily; most nodes carry none.
type baseNode struct {
	attrs    map[string]any
	tempData any
}

func (n *baseNode) Attr(key string) (any, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

func (n *baseNode) SetAttr(key string, value any) {
	if n.attrs == nil {
		n.attrs = make(map[string]any, 1)
	}
	n.attrs[key] = value
}

func (n *baseNode) AttrBool(key string) bool {
	v, ok := n.attrs[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (n *baseNode) TempData() any { return n.tempData }

func (n *baseNode) SetTempData(value any) { n.tempData = value }

// ScalarKind enumerates the element kinds of the IR type system.
type ScalarKind uint8

const (
	KindInvalid ScalarKind = iota
	KindBool
	KindU8
	KindS32
	KindU32
	KindIndex
	KindF16
	KindF32
	KindF64
	KindPointer
)

var scalarKindNames = map[ScalarKind]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindU8:      "u8",
	KindS32:     "s32",
	KindU32:     "u32",
	KindIndex:   "index",
	KindF16:     "f16",
	KindF32:     "f32",
	KindF64:     "f64",
	KindPointer: "pointer",
}

func (k ScalarKind) String() string {
	if s, ok := scalarKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// DataType is the value type of an expression: an element kind plus a
// vector width. Lanes > 1 denotes a vector value.
type DataType struct {
	Kind  ScalarKind
	Lanes int
}

// NewScalarType returns a single-lane type of the given kind.
func NewScalarType(kind ScalarKind) DataType {
	return DataType{Kind: kind, Lanes: 1}
}

// NewVectorType returns a type of the given kind with the given vector width.
func NewVectorType(kind ScalarKind, lanes int) DataType {
	return DataType{Kind: kind, Lanes: lanes}
}

// Equal reports whether two types have the same kind and width.
func (d DataType) Equal(other DataType) bool {
	return d.Kind == other.Kind && d.Lanes == other.Lanes
}

// Scalar returns the single-lane version of the type.
func (d DataType) Scalar() DataType {
	return DataType{Kind: d.Kind, Lanes: 1}
}

// WithLanes returns the type widened to the given vector width.
func (d DataType) WithLanes(lanes int) DataType {
	return DataType{Kind: d.Kind, Lanes: lanes}
}

func (d DataType) String() string {
	if d.Lanes > 1 {
		return fmt.Sprintf("%sx%d", d.Kind, d.Lanes)
	}
	return d.Kind.String()
}
