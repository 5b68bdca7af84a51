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
    `strings`

    `github.com/davecgh/go-spew/spew`
    `github.com/oleiade/lane`
)

var dumpConfig = spew.ConfigState {
    Indent                  : "    ",
    SortKeys                : true,
    DisableMethods          : true,
    DisablePointerAddresses : true,
}

type Func struct {
    Name   string
    Params []*Param
    Blocks []*BasicBlock
    nextId int
}

func (self *Func) Entry() *BasicBlock {
    if len(self.Blocks) == 0 {
        return nil
    } else {
        return self.Blocks[0]
    }
}

// FirstInstr returns the first instruction of the function in layout order.
func (self *Func) FirstInstr() *Instr {
    for _, bb := range self.Blocks {
        if bb.head != nil {
            return bb.head
        }
    }
    return nil
}

func (self *Func) NumInstrs() (n int) {
    for _, bb := range self.Blocks {
        n += bb.size
    }
    return
}

// Instrs returns a snapshot of every instruction in layout order.
func (self *Func) Instrs() []*Instr {
    ret := make([]*Instr, 0, self.NumInstrs())
    for _, bb := range self.Blocks {
        for p := bb.head; p != nil; p = p.next {
            ret = append(ret, p)
        }
    }
    return ret
}

// PostOrder calls action for every block reachable from the entry, each
// block after all of its successors not already on the path.
func (self *Func) PostOrder(action func(bb *BasicBlock)) {
    var tail bool
    var this *BasicBlock

    /* nothing to walk */
    if len(self.Blocks) == 0 {
        return
    }

    /* DFS stack and visited set */
    st := lane.NewStack()
    vis := map[int]struct{}{ self.Blocks[0].Id: {} }
    st.Push(self.Blocks[0])

    /* scan until the stack is empty */
    for !st.Empty() {
        tail = true
        this = st.Head().(*BasicBlock)

        /* descend into the first unvisited successor */
        for _, p := range this.Succs() {
            if _, ok := vis[p.Id]; !ok {
                tail = false
                vis[p.Id] = struct{}{}
                st.Push(p)
                break
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            action(st.Pop().(*BasicBlock))
        }
    }
}

// ReversePostOrder calls action for every reachable block in reverse post
// order.
func (self *Func) ReversePostOrder(action func(bb *BasicBlock)) {
    var bbs []*BasicBlock
    self.PostOrder(func(bb *BasicBlock) { bbs = append(bbs, bb) })

    /* replay backwards */
    for i := len(bbs) - 1; i >= 0; i-- {
        action(bbs[i])
    }
}

func (self *Func) String() string {
    args := make([]string, 0, len(self.Params))
    body := make([]string, 0, self.NumInstrs() + len(self.Blocks))

    /* parameters */
    for _, p := range self.Params {
        args = append(args, p.Name())
    }

    /* each block with its instructions */
    for _, bb := range self.Blocks {
        body = append(body, bb.Name() + ":")
        for p := bb.head; p != nil; p = p.next {
            body = append(body, "    " + p.String())
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "func %s(%s) {\n%s\n}",
        self.Name,
        strings.Join(args, ", "),
        strings.Join(body, "\n"),
    )
}

// Dump renders fn along with the use list of every parameter and
// instruction result. It is meant for diagnostics only.
func (self *Func) Dump() string {
    uses := make(map[string][]string)
    names := func(refs []*Instr) []string {
        ret := make([]string, 0, len(refs))
        for _, p := range refs {
            ret = append(ret, p.String())
        }
        return ret
    }

    /* parameters */
    for _, p := range self.Params {
        uses[p.Name()] = names(p.refs)
    }

    /* instruction results */
    for _, bb := range self.Blocks {
        for p := bb.head; p != nil; p = p.next {
            if p.Op.HasResult() {
                uses[p.Name()] = names(p.refs)
            }
        }
    }
    return self.String() + "\n" + dumpConfig.Sdump(uses)
}

type Module struct {
    Name  string
    Funcs []*Func
}

// Func returns the function with the given name, or nil.
func (self *Module) Func(name string) *Func {
    for _, fn := range self.Funcs {
        if fn.Name == name {
            return fn
        }
    }
    return nil
}

func (self *Module) String() string {
    buf := make([]string, 0, len(self.Funcs))
    for _, fn := range self.Funcs {
        buf = append(buf, fn.String())
    }
    return strings.Join(buf, "\n\n")
}
