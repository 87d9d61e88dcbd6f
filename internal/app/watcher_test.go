package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeWatcher is a ports.Watcher driven by the test.
type fakeWatcher struct {
	mu       sync.Mutex
	root     string
	onChange func(string)
	stops    int
	err      error
}

func (w *fakeWatcher) Watch(root string, onChange func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.root, w.onChange = root, onChange
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stops++
	return nil
}

func (w *fakeWatcher) trigger(path string) {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	fn(path)
}

type runOutcome struct {
	res *CollectResult
	err error
}

func startLoop(t *testing.T, fs afero.Fs, w *fakeWatcher) (<-chan runOutcome, func()) {
	t.Helper()
	runs := make(chan runOutcome, 16)
	loop := &WatchLoop{
		Collector: newTestCollector(fs),
		Watcher:   w,
		Discovery: DiscoveryConfig{Root: "/src", Sort: true},
		Out:       "/out.json",
		Quiet:     20 * time.Millisecond,
		OnRun:     func(res *CollectResult, err error) { runs <- runOutcome{res, err} },
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	stop := func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watch loop did not stop")
		}
	}
	return runs, stop
}

func waitRun(t *testing.T, runs <-chan runOutcome) runOutcome {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no collection run")
		return runOutcome{}
	}
}

func readOut(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, "/out.json")
	require.NoError(t, err)
	return string(data)
}

func TestWatchLoop_RerunsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/A.idl": "interface A {};"})
	w := &fakeWatcher{}
	runs, stop := startLoop(t, fs, w)

	first := waitRun(t, runs)
	require.NoError(t, first.err)
	assert.Equal(t, 1, first.res.Interfaces)
	assert.Contains(t, readOut(t, fs), `"A"`)
	assert.Equal(t, "/src", w.root)

	writeFiles(t, fs, map[string]string{"/src/B.idl": "interface B {};"})
	w.trigger("/src/B.idl")
	second := waitRun(t, runs)
	require.NoError(t, second.err)
	assert.Equal(t, 2, second.res.Interfaces)
	assert.Contains(t, readOut(t, fs), `"B"`)

	stop()
	assert.Equal(t, 1, w.stops)
}

func TestWatchLoop_FailedRunKeepsPreviousOutput(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/A.idl": "interface A {};"})
	w := &fakeWatcher{}
	runs, stop := startLoop(t, fs, w)
	defer stop()

	require.NoError(t, waitRun(t, runs).err)
	before := readOut(t, fs)

	writeFiles(t, fs, map[string]string{"/src/C.idl": "interface C { attribute long; };"})
	w.trigger("/src/C.idl")
	r := waitRun(t, runs)
	require.Error(t, r.err)
	assert.True(t, IsInputError(r.err))
	assert.Equal(t, before, readOut(t, fs))

	// fixing the file recovers
	writeFiles(t, fs, map[string]string{"/src/C.idl": "interface C { attribute long c; };"})
	w.trigger("/src/C.idl")
	r = waitRun(t, runs)
	require.NoError(t, r.err)
	assert.Contains(t, readOut(t, fs), `"C"`)
}

func TestWatchLoop_CoalescesBursts(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/A.idl": "interface A {};"})
	w := &fakeWatcher{}
	runs, stop := startLoop(t, fs, w)
	defer stop()

	waitRun(t, runs)
	for i := 0; i < 5; i++ {
		w.trigger("/src/A.idl")
	}
	waitRun(t, runs)

	select {
	case <-runs:
		t.Fatal("burst of changes caused more than one rerun")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatchLoop_WatchError(t *testing.T) {
	w := &fakeWatcher{err: errors.New("no such directory")}
	loop := &WatchLoop{
		Collector: newTestCollector(afero.NewMemMapFs()),
		Watcher:   w,
		Discovery: DiscoveryConfig{Root: "/src"},
		Out:       "/out.json",
	}
	err := loop.Run(context.Background())
	assert.EqualError(t, err, "no such directory")
	assert.Equal(t, 0, w.stops)
}
