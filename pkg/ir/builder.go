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

// NewVar creates a scalar variable node.
func NewVar(name string, dtype DataType) *VarNode {
	return &VarNode{Name: name, DType: dtype}
}

// NewTensor creates a tensor node with the given element type and dimensions.
func NewTensor(name string, elem DataType, dims ...Expr) *TensorNode {
	return &TensorNode{Name: name, Elem: elem, Dims: dims}
}

// NewConstInt creates an integer literal of index type.
func NewConstInt(value int64) *ConstIntNode {
	return &ConstIntNode{Value: value, DType: NewScalarType(KindIndex)}
}

// NewConstIntTyped creates an integer literal of the given type.
func NewConstIntTyped(value int64, dtype DataType) *ConstIntNode {
	return &ConstIntNode{Value: value, DType: dtype}
}

// NewBinary creates a binary arithmetic expression.
func NewBinary(op BinOp, l, r Expr) *BinaryNode {
	return &BinaryNode{Op: op, L: l, R: r}
}

// Add is shorthand for NewBinary(OpAdd, l, r).
func Add(l, r Expr) *BinaryNode { return NewBinary(OpAdd, l, r) }

// Mul is shorthand for NewBinary(OpMul, l, r).
func Mul(l, r Expr) *BinaryNode { return NewBinary(OpMul, l, r) }

// NewIndexing creates a scalar element access over ptr. The value type is
// the tensor's element type when ptr is a tensor; otherwise it is invalid
// and left for the validator to reject.
func NewIndexing(ptr Expr, idx ...Expr) *IndexingNode {
	dtype := NewScalarType(KindInvalid)
	if t, ok := ptr.(*TensorNode); ok {
		dtype = t.Elem.Scalar()
	}
	return &IndexingNode{Ptr: ptr, Idx: idx, DType: dtype}
}

// NewIndexingVec creates a possibly vector, possibly masked element access.
func NewIndexingVec(ptr Expr, idx []Expr, lanes int, mask Expr) *IndexingNode {
	dtype := NewScalarType(KindInvalid)
	if t, ok := ptr.(*TensorNode); ok {
		dtype = t.Elem.WithLanes(lanes)
	}
	return &IndexingNode{Ptr: ptr, Idx: idx, DType: dtype, Mask: mask}
}

// NewTensorPtr creates an address-of-element expression.
func NewTensorPtr(base *IndexingNode) *TensorPtrNode {
	return &TensorPtrNode{Base: base}
}

// NewCall creates an opaque call expression.
func NewCall(callee string, dtype DataType, args ...Expr) *CallNode {
	return &CallNode{Callee: callee, Args: args, DType: dtype}
}

// NewIntrinCall creates an intrinsic call expression.
func NewIntrinCall(kind IntrinKind, dtype DataType, args ...Expr) *IntrinCallNode {
	return &IntrinCallNode{Kind: kind, Args: args, DType: dtype}
}

// NewAssign creates an assignment statement.
func NewAssign(lhs, rhs Expr) *AssignNode {
	return &AssignNode{LHS: lhs, RHS: rhs}
}

// NewVarDef creates a variable declaration. init may be nil.
func NewVarDef(def *VarNode, init Expr) *VarDefNode {
	return &VarDefNode{Def: def, Init: init}
}

// NewEval creates an expression statement.
func NewEval(v Expr) *EvalNode {
	return &EvalNode{V: v}
}

// NewStmts creates a statement sequence.
func NewStmts(seq ...Stmt) *StmtsNode {
	return &StmtsNode{Seq: seq}
}

// NewForLoop creates a for loop. The body must be a statement sequence.
func NewForLoop(iter *VarNode, begin, end, step Expr, body *StmtsNode) *ForLoopNode {
	return &ForLoopNode{Iter: iter, Begin: begin, End: end, Step: step, Body: body}
}

// NewIfElse creates a branch. elseCase may be nil.
func NewIfElse(cond Expr, thenCase, elseCase *StmtsNode) *IfElseNode {
	return &IfElseNode{Cond: cond, Then: thenCase, Else: elseCase}
}

// NewFunc creates a function definition.
func NewFunc(name string, params []Expr, body *StmtsNode) *Func {
	return &Func{Name: name, Params: params, Body: body}
}
