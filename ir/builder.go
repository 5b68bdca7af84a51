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
    `fmt`
)

// Builder constructs a function one instruction at a time. Instructions are
// appended to the current block; Label starts a new one.
type Builder struct {
    fn   *Func
    bb   *BasicBlock
    refs map[string]*BasicBlock
}

// CreateBuilder starts a new function with the given parameter names.
func CreateBuilder(name string, params ...string) *Builder {
    p := newBuilder()
    p.fn = &Func { Name: name }

    /* declare all the parameters */
    for i, v := range params {
        p.fn.Params = append(p.fn.Params, &Param { Id: i, Label: v })
    }
    return p
}

// Param returns the i-th parameter of the function being built.
func (self *Builder) Param(i int) *Param {
    return self.fn.Params[i]
}

func (self *Builder) label(name string) *BasicBlock {
    if bb, ok := self.refs[name]; ok {
        return bb
    } else {
        bb = new(BasicBlock)
        self.refs[name] = bb
        return bb
    }
}

func (self *Builder) place(bb *BasicBlock) {
    bb.fn = self.fn
    bb.Index = len(self.fn.Blocks)
    bb.Id = bb.Index + 1
    self.bb = bb
    self.fn.Blocks = append(self.fn.Blocks, bb)
}

func (self *Builder) add(ins *Instr) *Instr {
    if self.bb == nil || self.bb.Term() != nil {
        self.place(new(BasicBlock))
    }

    /* assign a result number if needed */
    if ins.Op.HasResult() {
        self.fn.nextId++
        ins.Id = self.fn.nextId
    }

    /* register all the uses */
    for _, v := range ins.Args {
        addref(v, ins)
    }

    /* register all the CFG edges */
    for _, to := range ins.Succs {
        to.Preds = append(to.Preds, self.bb)
    }

    /* append to the current block */
    self.bb.push(ins)
    return ins
}

// Label starts a new block named name. An unterminated current block falls
// through into it.
func (self *Builder) Label(name string) {
    bb := self.label(name)

    /* check for duplications */
    if bb.fn != nil {
        panic("label " + name + " has already been linked")
    }

    /* fall through from the current block */
    if self.bb != nil && self.bb.Term() == nil {
        self.JMP(name)
    }

    /* start the new block */
    self.place(bb)
}

// Emit appends an instruction with an arbitrary operand list. Arity is not
// checked; terminators with successors must use JMP or BR.
func (self *Builder) Emit(op OpCode, args ...Value) *Instr {
    if op == OP_jmp || op == OP_br {
        panic("ir: branches must be built with JMP or BR")
    }

    /* construct the instruction */
    p := newInstr(op)
    p.Args = append([]Value(nil), args...)
    return self.add(p)
}

func (self *Builder) ADD(x Value, y Value) *Instr { return self.Emit(OP_add, x, y) }
func (self *Builder) SUB(x Value, y Value) *Instr { return self.Emit(OP_sub, x, y) }
func (self *Builder) MUL(x Value, y Value) *Instr { return self.Emit(OP_mul, x, y) }
func (self *Builder) AND(x Value, y Value) *Instr { return self.Emit(OP_and, x, y) }
func (self *Builder) OR (x Value, y Value) *Instr { return self.Emit(OP_or , x, y) }
func (self *Builder) XOR(x Value, y Value) *Instr { return self.Emit(OP_xor, x, y) }
func (self *Builder) SHL(x Value, y Value) *Instr { return self.Emit(OP_shl, x, y) }
func (self *Builder) SHR(x Value, y Value) *Instr { return self.Emit(OP_shr, x, y) }
func (self *Builder) EQ (x Value, y Value) *Instr { return self.Emit(OP_eq , x, y) }
func (self *Builder) NE (x Value, y Value) *Instr { return self.Emit(OP_ne , x, y) }
func (self *Builder) LT (x Value, y Value) *Instr { return self.Emit(OP_lt , x, y) }
func (self *Builder) NEG(x Value)          *Instr { return self.Emit(OP_neg, x) }
func (self *Builder) RET(rets ...Value)    *Instr { return self.Emit(OP_ret, rets...) }

// CALL calls the function named sym.
func (self *Builder) CALL(sym string, args ...Value) *Instr {
    p := self.Emit(OP_call, args...)
    p.Sym = sym
    return p
}

// JMP jumps unconditionally to the block labeled to.
func (self *Builder) JMP(to string) *Instr {
    p := newInstr(OP_jmp)
    p.Succs = []*BasicBlock { self.label(to) }
    return self.add(p)
}

// BR branches to t if cond is non-zero, otherwise to f.
func (self *Builder) BR(cond Value, t string, f string) *Instr {
    p := newInstr(OP_br)
    p.Args = []Value { cond }
    p.Succs = []*BasicBlock { self.label(t), self.label(f) }
    return self.add(p)
}

// Build finishes the function. The Builder must not be used afterwards.
func (self *Builder) Build() *Func {
    fn := self.fn

    /* check for unresolved labels */
    for key, bb := range self.refs {
        if bb.fn == nil {
            panic("labels are not fully resolved: " + key)
        }
    }

    /* basic block must terminate */
    if self.bb != nil && self.bb.Term() == nil {
        panic(fmt.Sprintf("basic block %d does not terminate", self.bb.Id))
    }

    /* the Builder's life-time ends here */
    freeBuilder(self)
    return fn
}
