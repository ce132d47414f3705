package custom

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/flarebyte/artisan-helper/internal/config"
)

const (
	sandboxTimeoutViolation     = "sandbox timeout"
	sandboxInstructionViolation = "sandbox instruction limit"
)

// Evaluator runs `when` expressions in a restricted Lua state.
type Evaluator struct {
	limits config.LuaSandbox
}

// NewEvaluator creates an evaluator bounded by limits.
func NewEvaluator(limits config.LuaSandbox) *Evaluator {
	return &Evaluator{limits: limits}
}

// Eval evaluates expr with the options and arguments tables bound and
// reports whether the result is truthy in Lua terms.
func (e *Evaluator) Eval(ctx context.Context, expr string, options, arguments map[string]any) (bool, error) {
	code := expr
	if !containsReturn(code) {
		code = "return (" + code + ")"
	}
	if instructionLimitWouldTrip(code, e.limits.InstructionLimit) {
		return false, errors.New(sandboxInstructionViolation)
	}

	L := newSandboxLuaState()
	defer L.Close()

	if e.limits.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.limits.TimeoutMs)*time.Millisecond)
		defer cancel()
	}
	L.SetContext(ctx)

	L.SetGlobal("options", toLValue(L, options))
	L.SetGlobal("arguments", toLValue(L, arguments))

	fn, err := L.LoadString(code)
	if err != nil {
		return false, fmt.Errorf("invalid condition %q: %v", expr, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if isTimeoutError(err) {
			return false, errors.New(sandboxTimeoutViolation)
		}
		return false, fmt.Errorf("condition %q failed: %v", expr, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// newSandboxLuaState opens only the base, string, table and math libraries.
func newSandboxLuaState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  1024,
		RegistryGrowStep: 0,
	})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func instructionLimitWouldTrip(code string, instructionLimit int) bool {
	if instructionLimit <= 0 {
		return false
	}
	cost := len(code) * 10
	lower := strings.ToLower(code)
	if strings.Contains(lower, "while ") || strings.Contains(lower, "repeat") || strings.Contains(lower, "for ") {
		cost += 1000000
	}
	return cost > instructionLimit
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "context canceled")
}

func containsReturn(s string) bool {
	for _, f := range strings.Fields(s) {
		if f == "return" || strings.HasPrefix(f, "return(") {
			return true
		}
	}
	return false
}

func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	case map[string]any:
		tbl := L.NewTable()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tbl.RawSetString(k, toLValue(L, x[k]))
		}
		return tbl
	default:
		return lua.LNil
	}
}
