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
    `html`
    `io`
    `strings`

    `github.com/oleiade/lane`
)

func dotblock(bb *BasicBlock) string {
    buf := []string {
        `<table border="1" cellborder="0" cellspacing="0">`,
        fmt.Sprintf(`<tr><td>%s</td></tr>`, bb.Name()),
    }

    /* predecessor list */
    if len(bb.Preds) != 0 {
        pred := make([]string, 0, len(bb.Preds))
        for _, p := range bb.Preds {
            pred = append(pred, p.Name())
        }
        buf = append(buf, "<hr/>", fmt.Sprintf(`<tr><td align="left"># pred = {%s}</td></tr>`, strings.Join(pred, ", ")))
    }

    /* instructions */
    if bb.head != nil {
        buf = append(buf, "<hr/>")
        for p := bb.head; p != nil; p = p.next {
            vv := strings.ReplaceAll(html.EscapeString(p.String()), " ", "&nbsp;")
            buf = append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, vv))
        }
    }

    /* join them together */
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// WriteDot renders the control flow graph of fn in Graphviz format.
func WriteDot(w io.Writer, fn *Func) error {
    q := lane.NewQueue()
    n := make(map[int]bool)
    buf := []string {
        fmt.Sprintf("digraph %q {", fn.Name),
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize="16" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
        `    START [ shape = "circle" ]`,
    }

    /* breadth-first from the entry */
    if entry := fn.Entry(); entry != nil {
        n[entry.Id] = true
        q.Enqueue(entry)
        buf = append(buf, fmt.Sprintf(`    START -> %s`, entry.Name()))
    }

    /* add every reachable block and edge */
    for !q.Empty() {
        p := q.Dequeue().(*BasicBlock)
        buf = append(buf, fmt.Sprintf(`    %s [ label = < %s > ]`, p.Name(), dotblock(p)))

        /* label the edges by branch direction */
        for i, ln := range p.Succs() {
            if !n[ln.Id] {
                n[ln.Id] = true
                q.Enqueue(ln)
            }
            switch {
                case p.Term().Op == OP_jmp : buf = append(buf, fmt.Sprintf(`    %s -> %s [ label = "goto" ]`, p.Name(), ln.Name()))
                case i == 0                : buf = append(buf, fmt.Sprintf(`    %s -> %s [ label = "true" ]`, p.Name(), ln.Name()))
                default                    : buf = append(buf, fmt.Sprintf(`    %s -> %s [ label = "false" ]`, p.Name(), ln.Name()))
            }
        }
    }

    /* write it out */
    buf = append(buf, "}")
    _, err := io.WriteString(w, strings.Join(buf, "\n") + "\n")
    return err
}
