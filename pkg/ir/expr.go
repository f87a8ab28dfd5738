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

// VarNode is a named mutable scalar (or vector) location.
type VarNode struct {
	baseNode
	Name  string
	DType DataType
}

func (v *VarNode) Type() DataType { return v.DType }
func (*VarNode) exprNode()        {}

// TensorNode is a named base address with an element type and dimensions.
type TensorNode struct {
	baseNode
	Name string
	Elem DataType
	Dims []Expr
}

func (t *TensorNode) Type() DataType { return NewScalarType(KindPointer) }
func (*TensorNode) exprNode()        {}

// ConstIntNode is an integer literal.
type ConstIntNode struct {
	baseNode
	Value int64
	DType DataType
}

func (c *ConstIntNode) Type() DataType { return c.DType }
func (*ConstIntNode) exprNode()        {}

// BinOp enumerates the binary operators appearing in index arithmetic and
// right-hand sides.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
)

var binOpNames = map[BinOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
}

// BinaryNode is a binary arithmetic expression.
type BinaryNode struct {
	baseNode
	Op   BinOp
	L, R Expr
}

func (b *BinaryNode) Type() DataType { return b.L.Type() }
func (*BinaryNode) exprNode()        {}

// IndexingNode references one or more elements of a tensor. It appears as a
// load in value position and as a store target on the left-hand side of an
// assignment. DType.Lanes > 1 denotes a vector access; Mask, if non-nil, is
// the access predicate.
type IndexingNode struct {
	baseNode
	Ptr   Expr // must be a *TensorNode in well-formed IR
	Idx   []Expr
	DType DataType
	Mask  Expr
}

func (i *IndexingNode) Type() DataType { return i.DType }

// Lanes returns the vector width of the access.
func (i *IndexingNode) Lanes() int { return i.DType.Lanes }
func (*IndexingNode) exprNode()    {}

// TensorPtrNode takes the address of a tensor element.
type TensorPtrNode struct {
	baseNode
	Base *IndexingNode
}

func (t *TensorPtrNode) Type() DataType { return NewScalarType(KindPointer) }
func (*TensorPtrNode) exprNode()        {}

// CallNode is a call to an opaque function. The callee may mutate memory
// through any tensor argument and its aliases.
type CallNode struct {
	baseNode
	Callee string
	Args   []Expr
	DType  DataType
}

func (c *CallNode) Type() DataType { return c.DType }
func (*CallNode) exprNode()        {}

// IntrinKind tags an intrinsic call.
type IntrinKind uint8

const (
	IntrinBroadcast IntrinKind = iota
	IntrinFMA
	IntrinMin
	IntrinMax
)

var intrinKindNames = map[IntrinKind]string{
	IntrinBroadcast: "broadcast",
	IntrinFMA:       "fma",
	IntrinMin:       "min",
	IntrinMax:       "max",
}

func (k IntrinKind) String() string {
	if s, ok := intrinKindNames[k]; ok {
		return s
	}
	return "intrin"
}

// IntrinCallNode is a call to a known intrinsic. Unlike CallNode, an
// intrinsic never mutates memory.
type IntrinCallNode struct {
	baseNode
	Kind  IntrinKind
	Args  []Expr
	DType DataType
}

func (c *IntrinCallNode) Type() DataType { return c.DType }
func (*IntrinCallNode) exprNode()        {}
