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

type OpCode byte

const (
    OP_add OpCode = iota    // X + Y -> R
    OP_sub                  // X - Y -> R
    OP_mul                  // X * Y -> R
    OP_and                  // X & Y -> R
    OP_or                   // X | Y -> R
    OP_xor                  // X ^ Y -> R
    OP_shl                  // X << Y -> R
    OP_shr                  // X >> Y -> R
    OP_neg                  // -X -> R
    OP_eq                   // X == Y -> R
    OP_ne                   // X != Y -> R
    OP_lt                   // X < Y -> R
    OP_call                 // Sym(Args...) -> R
    OP_ret                  // return Args...
    OP_jmp                  // goto Succs[0]
    OP_br                   // if X goto Succs[0] else Succs[1]
)

// OP_invalid marks an instruction that has been erased and recycled.
const OP_invalid OpCode = 0xff

var _OpNames = [...]string {
    OP_add  : "add",
    OP_sub  : "sub",
    OP_mul  : "mul",
    OP_and  : "and",
    OP_or   : "or",
    OP_xor  : "xor",
    OP_shl  : "shl",
    OP_shr  : "shr",
    OP_neg  : "neg",
    OP_eq   : "eq",
    OP_ne   : "ne",
    OP_lt   : "lt",
    OP_call : "call",
    OP_ret  : "ret",
    OP_jmp  : "jmp",
    OP_br   : "br",
}

func (self OpCode) String() string {
    if self == OP_invalid {
        return "invalid"
    } else if int(self) < len(_OpNames) {
        return _OpNames[self]
    } else {
        return "op(" + strconv.Itoa(int(self)) + ")"
    }
}

// IsTerminator reports whether instructions with this opcode end a block.
func (self OpCode) IsTerminator() bool {
    return self >= OP_ret && self <= OP_br
}

// HasResult reports whether instructions with this opcode define a value.
func (self OpCode) HasResult() bool {
    return self <= OP_call
}
