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

/** Dominators are computed with the Lengauer-Tarjan algorithm described in
 *  https://doi.org/10.1145%2F357062.357071
 */

package ir

type _LtNode struct {
    semi     int
    node     *BasicBlock
    dom      *_LtNode
    label    *_LtNode
    parent   *_LtNode
    ancestor *_LtNode
    pred     []*_LtNode
    bucket   map[*_LtNode]struct{}
}

type _LengauerTarjan struct {
    nodes  []*_LtNode
    vertex map[*BasicBlock]int
}

func (self *_LengauerTarjan) dfs(bb *BasicBlock) {
    i := len(self.nodes)
    self.vertex[bb] = i

    /* create a new node */
    p := &_LtNode {
        semi   : i,
        node   : bb,
        bucket : make(map[*_LtNode]struct{}),
    }

    /* add to node list */
    p.label = p
    self.nodes = append(self.nodes, p)

    /* traverse the successors */
    for _, w := range bb.Succs() {
        idx, ok := self.vertex[w]

        /* not visited yet */
        if !ok {
            self.dfs(w)
            idx = self.vertex[w]
            self.nodes[idx].parent = p
        }

        /* add predecessors */
        q := self.nodes[idx]
        q.pred = append(q.pred, p)
    }
}

func (self *_LengauerTarjan) eval(p *_LtNode) *_LtNode {
    if p.ancestor == nil {
        return p
    } else {
        self.compress(p)
        return p.label
    }
}

func (self *_LengauerTarjan) compress(p *_LtNode) {
    if p.ancestor.ancestor != nil {
        self.compress(p.ancestor)
        if p.label.semi > p.ancestor.label.semi { p.label = p.ancestor.label }
        p.ancestor = p.ancestor.ancestor
    }
}

// DominatorTree records the immediate dominator of every block reachable
// from Root. Unreachable blocks do not appear in it.
type DominatorTree struct {
    Root        *BasicBlock
    DominatedBy map[*BasicBlock]*BasicBlock
    DominatorOf map[*BasicBlock][]*BasicBlock
}

// BuildDominatorTree computes the dominator tree of fn rooted at its entry
// block. Every block of fn must be terminated.
func BuildDominatorTree(fn *Func) DominatorTree {
    domby := make(map[*BasicBlock]*BasicBlock)
    domof := make(map[*BasicBlock][]*BasicBlock)

    /* empty functions have an empty tree */
    root := fn.Entry()
    if root == nil {
        return DominatorTree { DominatedBy: domby, DominatorOf: domof }
    }

    /* Step 1: number the vertices in DFS order */
    lt := &_LengauerTarjan { vertex: make(map[*BasicBlock]int, len(fn.Blocks)) }
    lt.dfs(root)

    /* Step 2 and 3, in decreasing DFS order */
    for i := len(lt.nodes) - 1; i > 0; i-- {
        p := lt.nodes[i]

        /* semi-dominator */
        for _, v := range p.pred {
            if q := lt.eval(v); q.semi < p.semi {
                p.semi = q.semi
            }
        }

        /* link to the ancestor */
        p.ancestor = p.parent
        lt.nodes[p.semi].bucket[p] = struct{}{}

        /* implicitly define the immediate dominators */
        for v := range p.parent.bucket {
            if q := lt.eval(v); q.semi < v.semi {
                v.dom = q
            } else {
                v.dom = p.parent
            }
        }

        /* clear the bucket */
        for v := range p.parent.bucket {
            delete(p.parent.bucket, v)
        }
    }

    /* Step 4: explicitly define the immediate dominators, in increasing order */
    for _, p := range lt.nodes[1:] {
        if p.dom != lt.nodes[p.semi] {
            p.dom = p.dom.dom
        }
    }

    /* map the dominator relations */
    for _, p := range lt.nodes[1:] {
        domby[p.node] = p.dom.node
        domof[p.dom.node] = append(domof[p.dom.node], p.node)
    }

    /* construct the dominator tree */
    return DominatorTree {
        Root        : root,
        DominatedBy : domby,
        DominatorOf : domof,
    }
}

// Reachable reports whether bb can be reached from the root.
func (self DominatorTree) Reachable(bb *BasicBlock) bool {
    _, ok := self.DominatedBy[bb]
    return ok || (bb != nil && bb == self.Root)
}

// Dominates reports whether every path from the root to b passes through a.
// A block dominates itself.
func (self DominatorTree) Dominates(a *BasicBlock, b *BasicBlock) bool {
    for b != nil {
        if a == b {
            return true
        }
        b = self.DominatedBy[b]
    }
    return false
}
