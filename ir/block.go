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

type BasicBlock struct {
    Id    int
    Index int
    Preds []*BasicBlock
    fn    *Func
    head  *Instr
    tail  *Instr
    size  int
}

func (self *BasicBlock) Name() string {
    return "bb_" + strconv.Itoa(self.Id)
}

func (self *BasicBlock) Func() *Func {
    return self.fn
}

func (self *BasicBlock) First() *Instr {
    return self.head
}

func (self *BasicBlock) Last() *Instr {
    return self.tail
}

func (self *BasicBlock) Len() int {
    return self.size
}

// Instrs returns a snapshot of the instructions in this block. Mutating the
// block afterwards does not affect the returned slice.
func (self *BasicBlock) Instrs() []*Instr {
    ret := make([]*Instr, 0, self.size)
    for p := self.head; p != nil; p = p.next {
        ret = append(ret, p)
    }
    return ret
}

// Term returns the terminator of this block, or nil if the block is not
// terminated (only possible while it is being built).
func (self *BasicBlock) Term() *Instr {
    if self.tail != nil && self.tail.IsTerminator() {
        return self.tail
    } else {
        return nil
    }
}

func (self *BasicBlock) Succs() []*BasicBlock {
    if tr := self.Term(); tr == nil {
        return nil
    } else {
        return tr.Succs
    }
}

func (self *BasicBlock) push(ins *Instr) {
    ins.bb = self
    ins.next = nil
    ins.prev = self.tail

    /* link to the tail */
    if self.tail == nil {
        self.head = ins
    } else {
        self.tail.next = ins
    }

    /* update the tail */
    self.size++
    self.tail = ins
}

func (self *BasicBlock) unlink(ins *Instr) {
    if ins.prev == nil {
        self.head = ins.next
    } else {
        ins.prev.next = ins.next
    }

    /* fix the backward link */
    if ins.next == nil {
        self.tail = ins.prev
    } else {
        ins.next.prev = ins.prev
    }

    /* clear the links */
    self.size--
    ins.bb, ins.prev, ins.next = nil, nil, nil
}
