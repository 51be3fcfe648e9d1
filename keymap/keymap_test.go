package keymap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipe/action"
)

func TestLookupMiss(t *testing.T) {
	tbl := New()
	_, ok := tbl.Lookup("cmd+ctrl+9")
	assert.False(t, ok)

	tbl = Defaults()
	_, ok = tbl.Lookup("cmd+ctrl+7")
	assert.False(t, ok)
	_, ok = tbl.Lookup("")
	assert.False(t, ok)
}

func TestInsertLastWriteWins(t *testing.T) {
	tbl := New()
	tbl.Insert("cmd+ctrl+9", action.CaptureRegion)
	tbl.Insert("cmd+ctrl+9", action.Ocr)

	a, ok := tbl.Lookup("cmd+ctrl+9")
	require.True(t, ok)
	assert.Equal(t, action.Ocr, a)
	assert.Equal(t, 1, tbl.Len())
}

func TestDefaults(t *testing.T) {
	tbl := Defaults()
	want := map[string]action.Action{
		"cmd+ctrl+9": action.CaptureRegion,
		"cmd+ctrl+8": action.Ocr,
		"cmd+ctrl+0": action.CaptureFullscreen,
	}
	assert.Equal(t, []string{"cmd+ctrl+0", "cmd+ctrl+8", "cmd+ctrl+9"}, tbl.Combos())
	for id, a := range want {
		got, ok := tbl.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, a, got, id)
	}
}

func TestReplace(t *testing.T) {
	live := Defaults()
	next := New()
	next.Insert("ctrl+shift+s", action.CaptureFullscreen)

	live.Replace(next)
	assert.Equal(t, []string{"ctrl+shift+s"}, live.Combos())

	// later writes to the source must not leak into the live table
	next.Insert("ctrl+shift+o", action.Ocr)
	assert.Equal(t, 1, live.Len())
}

func TestConcurrentLookupDuringReplace(t *testing.T) {
	live := Defaults()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				live.Lookup("cmd+ctrl+9")
			}
		}()
	}
	for j := 0; j < 100; j++ {
		live.Replace(Defaults())
	}
	wg.Wait()
	assert.Equal(t, 3, live.Len())
}
