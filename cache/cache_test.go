/*
File    : mana/cache/cache_test.go
*/
package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_HashStable(t *testing.T) {
	a := ComputeHash("fn main() -> i32 { return 0 }")
	b := ComputeHash("fn main() -> i32 { return 0 }")
	assert.Equal(t, a, b)

	c := ComputeHash("fn main() -> i32 { return 1 }")
	assert.NotEqual(t, a, c)

	// Position weighting distinguishes transpositions
	assert.NotEqual(t, ComputeHash("ab"), ComputeHash("ba"))
}

func TestCache_StoreAndGet(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	assert.NoError(t, err)

	src := "module m\nfn main() -> i32 { return 0 }"
	out := "// emitted\nint32_t main() { return 0; }\n"

	assert.False(t, c.IsCached("main.mana", src))
	assert.NoError(t, c.Store("main.mana", src, out))
	assert.True(t, c.IsCached("main.mana", src))

	cached, ok := c.Get("main.mana")
	assert.True(t, ok)
	assert.Equal(t, out, cached)

	// Changed source misses
	assert.False(t, c.IsCached("main.mana", src+" "))
}

func TestCache_IndexRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	assert.NoError(t, err)
	assert.NoError(t, c.Store("a.mana", "source a", "output a"))
	assert.NoError(t, c.Store("b.mana", "source b", "output b"))

	// A fresh open reads the same entries back from cache_index.txt
	reopened, err := Open(dir)
	assert.NoError(t, err)
	assert.Equal(t, 2, reopened.Size())
	assert.True(t, reopened.IsCached("a.mana", "source a"))

	cached, ok := reopened.Get("b.mana")
	assert.True(t, ok)
	assert.Equal(t, "output b", cached)
}

func TestCache_IndexFormat(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	assert.NoError(t, err)
	assert.NoError(t, c.Store("x.mana", "content", "output"))

	data, err := os.ReadFile(filepath.Join(dir, "cache_index.txt"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "x.mana|"+ComputeHash("content")+"|")
}

func TestCache_InvalidateAndClear(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	assert.NoError(t, err)
	assert.NoError(t, c.Store("a.mana", "sa", "oa"))
	assert.NoError(t, c.Store("b.mana", "sb", "ob"))

	assert.NoError(t, c.Invalidate("a.mana"))
	assert.False(t, c.IsCached("a.mana", "sa"))
	assert.Equal(t, 1, c.Size())

	assert.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Size())
	_, ok := c.Get("b.mana")
	assert.False(t, ok)
}
