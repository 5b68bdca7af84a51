/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `strconv`
)

// Value is anything an instruction may take as an operand. The set of
// implementations is closed: *Const, *Param and *Instr.
type Value interface {
    // Name returns the operand form of the value: a literal for constants,
    // a %-prefixed name otherwise.
    Name() string

    // Referrers returns the list of instructions using this value, or nil
    // if the value is not use-tracked (constants).
    Referrers() *[]*Instr
    irvalue()
}

func (*Const) irvalue() {}
func (*Param) irvalue() {}
func (*Instr) irvalue() {}

// Const is a literal integer constant.
type Const struct {
    V int64
}

// Int returns a constant operand with value v.
func Int(v int64) *Const {
    return &Const { V: v }
}

func (self *Const) Name() string {
    return strconv.FormatInt(self.V, 10)
}

func (self *Const) String() string {
    return "const " + self.Name()
}

func (*Const) Referrers() *[]*Instr {
    return nil
}

// Param is a formal argument of a function.
type Param struct {
    Id    int
    Label string
    refs  []*Instr
}

func (self *Param) Name() string {
    if self.Label != "" {
        return "%" + self.Label
    } else {
        return "%a" + strconv.Itoa(self.Id)
    }
}

func (self *Param) String() string {
    return "param " + self.Name()
}

func (self *Param) Referrers() *[]*Instr {
    return &self.refs
}

// IsZero reports whether v is the literal integer constant zero.
func IsZero(v Value) bool {
    switch p := v.(type) {
        case *Const : return p.V == 0
        default     : return false
    }
}

func addref(v Value, ins *Instr) {
    if refs := v.Referrers(); refs != nil {
        *refs = append(*refs, ins)
    }
}

func delref(v Value, ins *Instr) {
    if refs := v.Referrers(); refs != nil {
        *refs = removeInstr(*refs, ins)
    }
}

// removeInstr drops a single occurrence of ins from refs, preserving order.
func removeInstr(refs []*Instr, ins *Instr) []*Instr {
    for i, p := range refs {
        if p == ins {
            copy(refs[i:], refs[i + 1:])
            refs[len(refs) - 1] = nil
            return refs[:len(refs) - 1]
        }
    }
    return refs
}
