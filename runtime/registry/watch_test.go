package registry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "sigs.json", `{"commands": [{"name": "before"}]}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		sigs []*types.Signature
		err  error
	}
	results := make(chan result, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{path}, func(sigs []*types.Signature, err error) {
			results <- result{sigs, err}
		})
	}()

	// The watcher starts asynchronously; keep rewriting until a reload lands
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(10 * time.Second)

	for {
		select {
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(`{"commands": [{"name": "after"}]}`), 0o644))
			continue
		case r := <-results:
			require.NoError(t, r.err)
			require.Len(t, r.sigs, 1)
			assert.Equal(t, "after", r.sigs[0].Name)
		case <-deadline:
			t.Fatal("no reload observed")
		}
		break
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchReportsInvalidFile(t *testing.T) {
	path := writeFile(t, "sigs.json", `{"commands": []}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 16)
	go func() {
		_ = Watch(ctx, []string{path}, func(_ []*types.Signature, err error) {
			errs <- err
		})
	}()

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(10 * time.Second)

	for {
		select {
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(`{"commands": "nope"}`), 0o644))
		case err := <-errs:
			require.Error(t, err)
			var le *LoadError
			assert.ErrorAs(t, err, &le)
			return
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchRequiresCancellableContext(t *testing.T) {
	assert.Panics(t, func() {
		_ = Watch(context.Background(), nil, func([]*types.Signature, error) {})
	})
}
