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
    `testing`

    `github.com/stretchr/testify/require`
)

func buildLoop() *Func {
    p := CreateBuilder("loop", "n")
    p.JMP("head")
    p.Label("head")
    c := p.LT(p.Param(0), Int(10))
    p.BR(c, "body", "exit")
    p.Label("body")
    p.CALL("work", p.Param(0))
    p.Label("exit")
    p.RET()
    return p.Build()
}

func TestBuilder_Straight(t *testing.T) {
    p := CreateBuilder("f", "x", "y")
    r1 := p.SUB(p.Param(0), Int(0))
    r2 := p.ADD(r1, p.Param(1))
    p.RET(r2)
    fn := p.Build()
    require.Equal(t, "func f(%x, %y) {\nbb_1:\n    %r1 = sub %x, 0\n    %r2 = add %r1, %y\n    ret %r2\n}", fn.String())
    require.Len(t, fn.Blocks, 1)
    require.Equal(t, 3, fn.NumInstrs())
    require.Len(t, *r1.Referrers(), 1)
    require.Same(t, r2, (*r1.Referrers())[0])
    require.Len(t, *fn.Params[0].Referrers(), 1)
    require.NoError(t, Verify(fn))
}

func TestBuilder_Labels(t *testing.T) {
    fn := buildLoop()
    require.Equal(t, "func loop(%n) {\n" +
        "bb_1:\n" +
        "    jmp bb_2\n" +
        "bb_2:\n" +
        "    %r1 = lt %n, 10\n" +
        "    br %r1, bb_3, bb_4\n" +
        "bb_3:\n" +
        "    %r2 = call @work(%n)\n" +
        "    jmp bb_4\n" +
        "bb_4:\n" +
        "    ret\n" +
        "}", fn.String())
    require.Equal(t, []*BasicBlock { fn.Blocks[0] }, fn.Blocks[1].Preds)
    require.Len(t, fn.Blocks[3].Preds, 2)
    require.Same(t, fn.Blocks[1], fn.Blocks[3].Preds[0])
    require.Same(t, fn.Blocks[2], fn.Blocks[3].Preds[1])
    require.NoError(t, Verify(fn))
}

func TestBuilder_Empty(t *testing.T) {
    fn := CreateBuilder("empty").Build()
    require.Nil(t, fn.Entry())
    require.Nil(t, fn.FirstInstr())
    require.Equal(t, 0, fn.NumInstrs())
    require.NoError(t, Verify(fn))
}

func TestBuilder_ArbitraryArity(t *testing.T) {
    p := CreateBuilder("f", "x")
    r1 := p.Emit(OP_sub, p.Param(0), Int(0), Int(1))
    r2 := p.Emit(OP_sub, Int(0))
    p.RET(r1, r2)
    fn := p.Build()
    require.Len(t, r1.Args, 3)
    require.Len(t, r2.Args, 1)
    require.Equal(t, "%r1 = sub %x, 0, 1", r1.String())
    require.NoError(t, Verify(fn))
}

func TestBuilder_Misuse(t *testing.T) {
    require.PanicsWithValue(t, "labels are not fully resolved: nowhere", func() {
        p := CreateBuilder("f")
        p.JMP("nowhere")
        p.Build()
    })
    require.PanicsWithValue(t, "basic block 1 does not terminate", func() {
        p := CreateBuilder("f", "x")
        p.NEG(p.Param(0))
        p.Build()
    })
    require.PanicsWithValue(t, "label a has already been linked", func() {
        p := CreateBuilder("f")
        p.Label("a")
        p.RET()
        p.Label("a")
    })
    require.Panics(t, func() {
        CreateBuilder("f").Emit(OP_jmp)
    })
}

func TestBuilder_CodeAfterTerminator(t *testing.T) {
    p := CreateBuilder("f", "x")
    p.RET(p.Param(0))
    p.ADD(p.Param(0), Int(1))
    p.RET()
    fn := p.Build()
    require.Len(t, fn.Blocks, 2)
    require.Empty(t, fn.Blocks[1].Preds)
    require.NoError(t, Verify(fn))
}
