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

// VerifyError occures when a function violates an IR invariant.
type VerifyError struct {
    Func   string
    Instr  string
    Reason string
}

func (self VerifyError) Error() string {
    if self.Instr != "" {
        return fmt.Sprintf("VerifyError(%s): %s: %s", self.Func, self.Instr, self.Reason)
    } else {
        return fmt.Sprintf("VerifyError(%s): %s", self.Func, self.Reason)
    }
}

type _Verifier struct {
    fn  *Func
    pos map[*Instr]int
    bbs map[*BasicBlock]bool
    dom DominatorTree
}

// Verify checks fn for structural consistency: block links, terminators,
// CFG edges, operand ownership, dominance of definitions over their uses
// and use lists. It returns the first violation found.
func Verify(fn *Func) error {
    vf := &_Verifier {
        fn  : fn,
        pos : make(map[*Instr]int, fn.NumInstrs()),
        bbs : make(map[*BasicBlock]bool, len(fn.Blocks)),
    }

    /* Phase 1: block and list structure */
    if err := vf.layout(); err != nil {
        return err
    }

    /* Phase 2: CFG edges */
    if err := vf.edges(); err != nil {
        return err
    }

    /* Phase 3: operands and use lists */
    vf.dom = BuildDominatorTree(fn)
    for _, bb := range fn.Blocks {
        for p := bb.head; p != nil; p = p.next {
            if err := vf.operands(p); err != nil {
                return err
            }
        }
    }
    return nil
}

func (self *_Verifier) fail(ins *Instr, format string, args ...interface{}) error {
    err := &VerifyError {
        Func   : self.fn.Name,
        Reason : fmt.Sprintf(format, args...),
    }

    /* attach the instruction if any */
    if ins != nil {
        err.Instr = ins.String()
    }
    return err
}

func (self *_Verifier) layout() error {
    n := 0

    /* check every block */
    for i, bb := range self.fn.Blocks {
        var last *Instr
        var size int

        /* back-links */
        if bb.fn != self.fn {
            return self.fail(nil, "%s does not belong to this function", bb.Name())
        } else if bb.Index != i {
            return self.fail(nil, "%s has index %d, expected %d", bb.Name(), bb.Index, i)
        } else if bb.head == nil {
            return self.fail(nil, "%s is empty", bb.Name())
        }

        /* walk the instruction list */
        for p := bb.head; p != nil; p = p.next {
            if p.bb != bb {
                return self.fail(p, "instruction is linked into %s but owned by another block", bb.Name())
            } else if p.prev != last {
                return self.fail(p, "broken backward link")
            } else if p.IsTerminator() && p.next != nil {
                return self.fail(p, "terminator in the middle of %s", bb.Name())
            }
            n++
            size++
            last = p
            self.pos[p] = n
        }

        /* list bookkeeping */
        if bb.tail != last {
            return self.fail(nil, "%s has a stale tail pointer", bb.Name())
        } else if bb.size != size {
            return self.fail(nil, "%s records %d instructions but links %d", bb.Name(), bb.size, size)
        } else if !last.IsTerminator() {
            return self.fail(last, "%s does not terminate", bb.Name())
        }

        /* mark as a member */
        self.bbs[bb] = true
    }
    return nil
}

func (self *_Verifier) operands(ins *Instr) error {
    for i, v := range ins.Args {
        switch p := v.(type) {
            case nil: {
                return self.fail(ins, "operand %d is nil", i)
            }

            /* literals are not use-tracked */
            case *Const: {
                break
            }

            /* parameters must be ours */
            case *Param: {
                if p.Id < 0 || p.Id >= len(self.fn.Params) || self.fn.Params[p.Id] != p {
                    return self.fail(ins, "operand %d refers to a foreign parameter %s", i, p.Name())
                }
            }

            /* instructions must be live, and defined before use within a block */
            case *Instr: {
                if p == ins {
                    return self.fail(ins, "instruction uses its own result")
                } else if _, ok := self.pos[p]; !ok {
                    return self.fail(ins, "operand %d refers to %s which is not in this function", i, p.Name())
                } else if !p.Op.HasResult() {
                    return self.fail(ins, "operand %d refers to %s which has no result", i, p.Name())
                } else if p.bb == ins.bb && self.pos[p] > self.pos[ins] {
                    return self.fail(ins, "operand %d refers to %s before its definition", i, p.Name())
                } else if self.dom.Reachable(ins.bb) && !self.dom.Dominates(p.bb, ins.bb) {
                    return self.fail(ins, "operand %d refers to %s which does not dominate this use", i, p.Name())
                }
            }
        }

        /* the producer must list us exactly once per slot */
        if refs := v.Referrers(); refs != nil && count(*refs, ins) != slots(ins, v) {
            return self.fail(ins, "use list of %s is out of sync", v.Name())
        }
    }

    /* every referrer must be live and actually use us */
    for _, ref := range ins.refs {
        if _, ok := self.pos[ref]; !ok {
            return self.fail(ins, "dangling referrer %s", ref.Name())
        } else if slots(ref, ins) == 0 {
            return self.fail(ins, "referrer %s does not use this value", ref.String())
        }
    }
    return nil
}

func (self *_Verifier) edges() error {
    for _, bb := range self.fn.Blocks {
        for _, to := range bb.Succs() {
            if !self.bbs[to] {
                return self.fail(bb.tail, "branch to a block outside of this function")
            } else if !hasBlock(to.Preds, bb) {
                return self.fail(bb.tail, "%s is missing predecessor %s", to.Name(), bb.Name())
            }
        }

        /* predecessors must branch to us */
        for _, p := range bb.Preds {
            if !self.bbs[p] || !hasBlock(p.Succs(), bb) {
                return self.fail(nil, "%s lists %s as predecessor without an edge", bb.Name(), p.Name())
            }
        }
    }
    return nil
}

func count(refs []*Instr, ins *Instr) (n int) {
    for _, p := range refs {
        if p == ins {
            n++
        }
    }
    return
}

func slots(ins *Instr, v Value) (n int) {
    for _, a := range ins.Args {
        if a == v {
            n++
        }
    }
    return
}

func hasBlock(bbs []*BasicBlock, bb *BasicBlock) bool {
    for _, p := range bbs {
        if p == bb {
            return true
        }
    }
    return false
}
