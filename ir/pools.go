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
    `sync`
)

var (
    instrPool   sync.Pool
    builderPool sync.Pool
)

func newInstr(op OpCode) *Instr {
    if v := instrPool.Get(); v == nil {
        return allocInstr(op)
    } else {
        return resetInstr(op, v.(*Instr))
    }
}

func freeInstr(p *Instr) {
    instrPool.Put(resetInstr(OP_invalid, p))
}

func allocInstr(op OpCode) (p *Instr) {
    p = new(Instr)
    p.Op = op
    return
}

func resetInstr(op OpCode, p *Instr) *Instr {
    *p = Instr{Op: op}
    return p
}

func newBuilder() *Builder {
    if v := builderPool.Get(); v == nil {
        return allocBuilder()
    } else {
        return resetBuilder(v.(*Builder))
    }
}

func freeBuilder(p *Builder) {
    builderPool.Put(p)
}

func allocBuilder() (p *Builder) {
    p      = new(Builder)
    p.refs = make(map[string]*BasicBlock, 16)
    return
}

func resetBuilder(p *Builder) *Builder {
    p.fn = nil
    p.bb = nil
    for k := range p.refs {
        delete(p.refs, k)
    }
    return p
}
