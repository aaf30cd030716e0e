// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package eval

// Env is one scope in the lexically scoped environment chain. Lookups walk
// outward; definitions always land in the innermost scope.
type Env struct {
	parent *Env
	names  map[string]Value
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, names: map[string]Value{}}
}

func (self *Env) Define(name string, value Value) {
	self.names[name] = value
}

func (self *Env) Lookup(name string) (Value, bool) {
	for env := self; env != nil; env = env.parent {
		if value, ok := env.names[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Assign rebinds the nearest existing definition of name. False when no
// scope defines it.
func (self *Env) Assign(name string, value Value) bool {
	for env := self; env != nil; env = env.parent {
		if _, ok := env.names[name]; ok {
			env.names[name] = value
			return true
		}
	}
	return false
}
