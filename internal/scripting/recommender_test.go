package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recommend.lua")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRecommender_Valid(t *testing.T) {
	path := writeScript(t, `
function recommend(total, avg)
  if total >= 90 then
    return "heroic"
  end
  return nil
end
`)
	r, err := LoadRecommender(path, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	tier, ok := r.Recommend(95, 50)
	assert.True(t, ok)
	assert.Equal(t, "heroic", tier)

	_, ok = r.Recommend(60, 50)
	assert.False(t, ok, "nil return means no override")
}

func TestLoadRecommender_MissingHook(t *testing.T) {
	path := writeScript(t, `x = 1`)
	_, err := LoadRecommender(path, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadRecommender_MissingFile(t *testing.T) {
	_, err := LoadRecommender(filepath.Join(t.TempDir(), "nope.lua"), zap.NewNop())
	assert.Error(t, err)
}

func TestRecommend_RuntimeErrorIsSoft(t *testing.T) {
	path := writeScript(t, `
function recommend(total, avg)
  error("boom")
end
`)
	r, err := LoadRecommender(path, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	_, ok := r.Recommend(70, 50)
	assert.False(t, ok)
}

func TestRecommend_AfterClose(t *testing.T) {
	path := writeScript(t, `
function recommend(total, avg)
  return "low"
end
`)
	r, err := LoadRecommender(path, zap.NewNop())
	require.NoError(t, err)
	r.Close()

	_, ok := r.Recommend(70, 50)
	assert.False(t, ok)
}

func TestSandbox_StripsDangerousGlobals(t *testing.T) {
	L := NewSandboxedState(0)
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "global %q must be stripped", name)
	}
}

func TestSandbox_InstructionLimit(t *testing.T) {
	L := NewSandboxedState(1000)
	defer L.Close()

	err := L.DoString(`while true do end`)
	assert.Error(t, err, "unbounded loop must hit the instruction limit")
}
