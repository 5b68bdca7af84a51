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

package zerosub

import (
    `sync/atomic`

    `github.com/cloudwego/peephole/ir`
)

var (
    ScanCount   int64
    RemoveCount int64
)

// ZeroSub removes subtractions where one of the operands is the literal
// zero, forwarding the other operand to every user.
type ZeroSub struct{}

// OptimizeFunction applies ZeroSub to fn and reports whether it changed.
func OptimizeFunction(fn *ir.Func) bool {
    return ZeroSub{}.Apply(fn)
}

// IsTrivialSub reports whether ins is a two-operand subtraction with at
// least one operand being the constant zero.
func IsTrivialSub(ins *ir.Instr) bool {
    return isBinarySub(ins) && (ir.IsZero(ins.Args[0]) || ir.IsZero(ins.Args[1]))
}

func isBinarySub(ins *ir.Instr) bool {
    return ins.Op == ir.OP_sub && len(ins.Args) == 2
}

// replacement selects the surviving operand. When both are zero the right
// hand side is kept.
func replacement(ins *ir.Instr) ir.Value {
    if ir.IsZero(ins.Args[0]) {
        return ins.Args[1]
    } else {
        return ins.Args[0]
    }
}

func (ZeroSub) Apply(fn *ir.Func) (changed bool) {
    var ns int64
    var nr int64

    /* single forward scan over the function */
    for p := fn.FirstInstr(); p != nil; {
        ins := p
        ns++

        /* step over it before it gets erased */
        p = p.NextInFunc()

        /* only trivial subtractions */
        if !IsTrivialSub(ins) {
            continue
        }

        /* forward the surviving operand to all the users */
        if ins.HasReferrers() {
            ins.ReplaceAllUsesWith(replacement(ins))
        }

        /* it's now dead */
        ins.EraseFromParent()
        nr++
        changed = true
    }

    /* update the counters */
    atomic.AddInt64(&ScanCount, ns)
    atomic.AddInt64(&RemoveCount, nr)
    return
}
