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

// Package alias maintains the alias-identity registry for tensors.
//
// An Identity is an opaque handle attached to a tensor. Identities that may
// refer to overlapping memory are grouped into a clique; the clique holds
// its members by weak reference so that the registry does not keep dead
// tensors alive. The registry is expected to outlive every tensor of the
// function under compilation; a weak reference that fails to upgrade while
// the pass runs indicates a lifetime bug in the caller and is a hard error.
package alias

import (
	"fmt"
	"weak"

	"github.com/secretflow/tensorc/pkg/ir"
)

// Identity is the alias identity of one tensor.
type Identity struct {
	clique *Clique
}

// Clique is a set of identities that may overlap in memory.
type Clique struct {
	members []weak.Pointer[Identity]
}

// HasNoAlias reports whether the identity belongs to no clique, or to a
// clique with no other member.
func (id *Identity) HasNoAlias() bool {
	return id == nil || id.clique == nil || len(id.clique.members) <= 1
}

// Members returns the strong handles of every identity in the clique of id,
// including id itself. A weak reference that fails to upgrade is a hard
// error: the registry must outlive the tensors of the function.
func (id *Identity) Members() ([]*Identity, error) {
	if id.clique == nil {
		return []*Identity{id}, nil
	}
	out := make([]*Identity, 0, len(id.clique.members))
	for _, w := range id.clique.members {
		p := w.Value()
		if p == nil {
			return nil, fmt.Errorf("bad weak reference in alias clique")
		}
		out = append(out, p)
	}
	return out, nil
}

// MakeClique places the given identities into one shared clique. Any clique
// membership they held before is replaced.
func MakeClique(ids ...*Identity) {
	c := &Clique{members: make([]weak.Pointer[Identity], 0, len(ids))}
	for _, id := range ids {
		c.members = append(c.members, weak.Make(id))
		id.clique = c
	}
}

// Attach returns the identity of t, creating and attaching one if absent.
func Attach(t *ir.TensorNode) *Identity {
	if id := Get(t); id != nil {
		return id
	}
	id := &Identity{}
	t.SetAttr(ir.AttrPointerAlias, id)
	return id
}

// Get returns the identity attached to t, or nil.
func Get(t *ir.TensorNode) *Identity {
	v, ok := t.Attr(ir.AttrPointerAlias)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
