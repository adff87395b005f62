// Package script provides Lua-scripted matching rules.
//
// A script rule holds a Lua chunk that defines a global
//
//	function match(text)
//	  return { {start=0, finish=3, message="..."}, ... }
//	end
//
// with half-open byte intervals, matching the engine's conventions.
//
// IMPORTANT: gopher-lua's LState is not goroutine-safe. Each Rule owns
// one state and serializes calls through a mutex; Lua execution itself
// is inherently single-threaded.
package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textmark/internal/annotation"
)

// Rule matches text through a user-supplied Lua function.
type Rule struct {
	mu sync.Mutex
	L  *lua.LState
	fn *lua.LFunction
}

// NewRule compiles and runs source, capturing its global match
// function. Compilation failure is a setup-time error; per-call
// script failures are swallowed and contribute zero ranges.
func NewRule(source string) (*Rule, error) {
	L := lua.NewState()
	sandbox(L)

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("compiling script rule: %w", err)
	}

	fn, ok := L.GetGlobal("match").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoMatchFunction
	}
	return &Rule{L: L, fn: fn}, nil
}

// Close releases the Lua state. The rule must not be used afterwards.
func (r *Rule) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.L != nil {
		r.L.Close()
		r.L = nil
	}
}

// Kind returns annotation.KindScript.
func (r *Rule) Kind() annotation.Kind { return annotation.KindScript }

// Match calls the script's match function. A runtime error, a
// non-table return, or malformed entries yield zero ranges; entries
// with out-of-bounds or inverted intervals are dropped individually.
func (r *Rule) Match(text string) []annotation.RawRange {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.L == nil {
		return nil
	}

	err := r.L.CallByParam(lua.P{Fn: r.fn, NRet: 1, Protect: true}, lua.LString(text))
	if err != nil {
		return nil
	}
	ret := r.L.Get(-1)
	r.L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil
	}

	var out []annotation.RawRange
	tbl.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		start, ok1 := toInt(entry.RawGetString("start"))
		end, ok2 := toInt(entry.RawGetString("finish"))
		if !ok1 || !ok2 {
			return
		}
		if start < 0 || end > len(text) || start >= end {
			return
		}
		msg := lua.LVAsString(entry.RawGetString("message"))
		out = append(out, annotation.RawRange{
			Start: start,
			End:   end,
			Annotation: annotation.Annotation{
				Kind:    annotation.KindScript,
				ID:      annotation.ID(annotation.KindScript, start, end),
				Match:   text[start:end],
				Message: msg,
			},
		})
	})
	return out
}

func toInt(v lua.LValue) (int, bool) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// sandbox removes the load family so rule scripts cannot pull in
// arbitrary code.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}
