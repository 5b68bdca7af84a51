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
    `strconv`
    `strings`
)

// Instr is a single instruction of a function. Instructions of a block form
// an intrusive doubly linked list; the links are owned by the block and
// are cleared when the instruction is erased.
type Instr struct {
    Op    OpCode
    Id    int
    Sym   string
    Args  []Value
    Succs []*BasicBlock
    bb    *BasicBlock
    prev  *Instr
    next  *Instr
    refs  []*Instr
}

// Name returns the operand form of the instruction result, e.g. "%r3".
func (self *Instr) Name() string {
    return "%r" + strconv.Itoa(self.Id)
}

func (self *Instr) Referrers() *[]*Instr {
    return &self.refs
}

// HasReferrers reports whether any instruction uses the result of self.
func (self *Instr) HasReferrers() bool {
    return len(self.refs) != 0
}

func (self *Instr) Block() *BasicBlock {
    return self.bb
}

func (self *Instr) Prev() *Instr {
    return self.prev
}

func (self *Instr) Next() *Instr {
    return self.next
}

// NextInFunc returns the instruction following self in the function layout,
// crossing into subsequent blocks, or nil at the end of the function.
func (self *Instr) NextInFunc() *Instr {
    if self.next != nil {
        return self.next
    }

    /* detached instructions have no successors */
    if self.bb == nil || self.bb.fn == nil {
        return nil
    }

    /* skip over empty blocks */
    bbs := self.bb.fn.Blocks
    for i := self.bb.Index + 1; i < len(bbs); i++ {
        if bbs[i].head != nil {
            return bbs[i].head
        }
    }
    return nil
}

func (self *Instr) IsTerminator() bool {
    return self.Op.IsTerminator()
}

// Operands appends the addresses of all operand slots of self to rands.
func (self *Instr) Operands(rands []*Value) []*Value {
    for i := range self.Args {
        rands = append(rands, &self.Args[i])
    }
    return rands
}

// SetArg replaces the i-th operand, keeping the use lists consistent.
func (self *Instr) SetArg(i int, v Value) {
    delref(self.Args[i], self)
    self.Args[i] = v
    addref(v, self)
}

// ReplaceAllUsesWith redirects every use of self to v. Afterwards self has
// no referrers.
func (self *Instr) ReplaceAllUsesWith(v Value) {
    var rands []*Value
    refs := self.refs

    /* replacing a value with itself is a no-op */
    if p, ok := v.(*Instr); ok && p == self {
        return
    }

    /* rewrite every operand slot that points to us, duplicates are fine since
     * the second visit finds nothing left to rewrite */
    self.refs = nil
    for _, ins := range refs {
        rands = ins.Operands(rands[:0])
        for _, rand := range rands {
            if p, ok := (*rand).(*Instr); ok && p == self {
                *rand = v
                addref(v, ins)
            }
        }
    }
}

// EraseFromParent unlinks self from its block and destroys it. The
// instruction must not have any referrers left. The instruction is recycled
// afterwards: its opcode becomes OP_invalid until the memory is reused by a
// later Builder, so callers must drop the pointer.
func (self *Instr) EraseFromParent() {
    bb := self.bb

    /* erasing a used instruction leaves dangling operands */
    if len(self.refs) != 0 {
        panic(fmt.Sprintf("ir: erasing %s which still has %d use(s)", self.Name(), len(self.refs)))
    }

    /* must be attached */
    if bb == nil {
        panic("ir: erasing a detached instruction")
    }

    /* drop our own uses */
    for _, v := range self.Args {
        delref(v, self)
    }

    /* terminators own the CFG edges */
    for _, to := range self.Succs {
        to.Preds = removeBlock(to.Preds, bb)
    }

    /* unlink and recycle */
    bb.unlink(self)
    freeInstr(self)
}

func (self *Instr) String() string {
    args := make([]string, 0, len(self.Args))
    succ := make([]string, 0, len(self.Succs))

    /* operands */
    for _, v := range self.Args {
        if v == nil {
            args = append(args, "<nil>")
        } else {
            args = append(args, v.Name())
        }
    }

    /* branch targets */
    for _, bb := range self.Succs {
        succ = append(succ, bb.Name())
    }

    /* format by opcode */
    switch self.Op {
        case OP_call: {
            return fmt.Sprintf("%s = call @%s(%s)", self.Name(), self.Sym, strings.Join(args, ", "))
        }

        case OP_ret: {
            if len(args) == 0 {
                return "ret"
            } else {
                return "ret " + strings.Join(args, ", ")
            }
        }

        case OP_jmp, OP_br: {
            return fmt.Sprintf("%s %s", self.Op, strings.Join(append(args, succ...), ", "))
        }

        default: {
            return fmt.Sprintf("%s = %s %s", self.Name(), self.Op, strings.Join(args, ", "))
        }
    }
}

func removeBlock(bbs []*BasicBlock, bb *BasicBlock) []*BasicBlock {
    for i, p := range bbs {
        if p == bb {
            return append(bbs[:i], bbs[i + 1:]...)
        }
    }
    return bbs
}
