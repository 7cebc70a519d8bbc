package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// hookName is the Lua global the recommender script must define:
//
//	function recommend(total, avg)
//	  -- return a tier id string to override the table, or nil to keep it
//	end
const hookName = "recommend"

// Recommender wraps a Lua script that may override the analysis engine's
// tier selection. Lua runtime errors are logged at warn level and never
// propagated; a failing script simply keeps the table's pick.
type Recommender struct {
	mu     sync.Mutex
	state  *lua.LState
	logger *zap.Logger
}

// LoadRecommender loads the script at path into a fresh sandboxed VM and
// verifies it defines the recommend function.
//
// Precondition: path must be a readable Lua file; logger must be non-nil.
// Postcondition: Returns a ready Recommender or a non-nil error. The caller
// must Close it when done.
func LoadRecommender(path string, logger *zap.Logger) (*Recommender, error) {
	L := NewSandboxedState(0)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	if L.GetGlobal(hookName).Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("scripting: %q does not define function %q", path, hookName)
	}
	return &Recommender{state: L, logger: logger}, nil
}

// Recommend calls the script's recommend hook with the set total and average
// success percentage.
//
// Postcondition: Returns (tierID, true) when the script returned a string,
// or ("", false) when it returned nil or failed.
func (r *Recommender) Recommend(total int, avg float64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return "", false
	}
	err := r.state.CallByParam(lua.P{
		Fn:      r.state.GetGlobal(hookName),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(total), lua.LNumber(avg))
	if err != nil {
		r.logger.Warn("recommend hook failed",
			zap.Error(err),
		)
		return "", false
	}

	ret := r.state.Get(-1)
	r.state.Pop(1)
	if s, ok := ret.(lua.LString); ok {
		return string(s), true
	}
	return "", false
}

// Close releases the underlying Lua VM. Further Recommend calls return false.
func (r *Recommender) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		r.state.Close()
		r.state = nil
	}
}
