package control

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	feram "github.com/autoferam/goferam"
)

func section(n int) string {
	return fmt.Sprintf("TIME_STEP %d\ndipo_kinetic = 0.01\ntotal_energy = -0.5\nTIME_STEP_END\n", n)
}

func TestLogWatcher(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "bto.log")
	require.NoError(Te, os.WriteFile(path, []byte(section(1)), 0644))
	W := &LogWatcher{Path: path, Logger: zaptest.NewLogger(Te)}

	var mu sync.Mutex
	var got []int
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- W.Watch(ctx, func(s feram.TimeStep) {
			mu.Lock()
			got = append(got, s.TimeStep)
			mu.Unlock()
		})
	}()
	steps := func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), got...)
	}
	require.Eventually(Te, func() bool { return len(steps()) == 1 }, 5*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(Te, err)
	//an unfinished section is not reported
	_, err = f.WriteString("TIME_STEP 2\ndipo_kinetic = 0.01\n")
	require.NoError(Te, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(Te, []int{1}, steps())
	_, err = f.WriteString("TIME_STEP_END\n" + section(3))
	require.NoError(Te, err)
	require.NoError(Te, f.Close())
	require.Eventually(Te, func() bool { return len(steps()) == 3 }, 5*time.Second, 10*time.Millisecond)

	//a new run truncates the log and starts over
	require.NoError(Te, os.WriteFile(path, []byte(section(7)), 0644))
	require.Eventually(Te, func() bool { return len(steps()) == 4 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(Te, <-done)
	assert.Equal(Te, []int{1, 2, 3, 7}, steps())
}

func TestLogWatcherIncremental(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "bto.log")
	W := &LogWatcher{Path: path}
	var got []int
	fn := func(s feram.TimeStep) { got = append(got, s.TimeStep) }
	log := zaptest.NewLogger(Te)

	//no log yet
	W.update(fn, log)
	assert.Empty(Te, got)

	require.NoError(Te, os.WriteFile(path, []byte(section(1)+"TIME_STEP 2\ndipo_"), 0644))
	W.update(fn, log)
	assert.Equal(Te, []int{1}, got)
	first := W.offset
	assert.Equal(Te, "\nTIME_STEP 2\ndipo_", W.pending)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(Te, err)
	_, err = f.WriteString("kinetic = 0.01\nTIME_STEP_END\n")
	require.NoError(Te, err)
	require.NoError(Te, f.Close())
	W.update(fn, log)
	assert.Equal(Te, []int{1, 2}, got)
	assert.Greater(Te, W.offset, first)
	assert.Equal(Te, "\n", W.pending)

	//nothing new
	W.update(fn, log)
	assert.Equal(Te, []int{1, 2}, got)

	require.NoError(Te, os.WriteFile(path, []byte(section(5)), 0644))
	W.update(fn, log)
	assert.Equal(Te, []int{1, 2, 5}, got)
}

func TestLogWatcherNoDir(Te *testing.T) {
	W := &LogWatcher{Path: filepath.Join(Te.TempDir(), "missing", "bto.log")}
	assert.Error(Te, W.Watch(context.Background(), func(feram.TimeStep) {}))
}
