package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/b11005/blink-idl-diff/internal/ports"
)

// DefaultQuietPeriod is how long a watch loop waits after the last change
// before it reruns the collection.
const DefaultQuietPeriod = 200 * time.Millisecond

// WatchLoop keeps an output file in sync with a definition tree. Every burst
// of changes reported by Watcher triggers a full rediscovery and collection.
// A failing rerun is logged and leaves the previous output in place.
type WatchLoop struct {
	Collector *Collector
	Watcher   ports.Watcher
	Discovery DiscoveryConfig
	Out       string
	Quiet     time.Duration // <= 0 means DefaultQuietPeriod

	// OnRun, if set, is called after every collection with its outcome.
	OnRun func(*CollectResult, error)
}

// Run performs an initial collection, then reruns on change until ctx is
// done. It stops the watcher before returning. Errors of individual runs
// are not returned; only a failure to start watching is.
func (l *WatchLoop) Run(ctx context.Context) error {
	log := l.Collector.logger()
	quiet := l.Quiet
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	changes := make(chan struct{}, 1)
	err := l.Watcher.Watch(l.Discovery.Root, func(path string) {
		log.Debug("definition changed", zap.String("path", path))
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer l.Watcher.Stop()

	l.refresh(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-changes:
			if timer == nil {
				timer = time.NewTimer(quiet)
			} else {
				timer.Reset(quiet)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			l.refresh(ctx)
		}
	}
}

func (l *WatchLoop) refresh(ctx context.Context) {
	log := l.Collector.logger()
	res, err := l.collect(ctx)
	switch {
	case ctx.Err() != nil:
		return
	case err != nil:
		log.Error("collection failed; keeping previous output", zap.String("out", l.Out), zap.Error(err))
	default:
		log.Info("output updated", zap.String("out", l.Out), zap.Int("interfaces", res.Interfaces))
	}
	if l.OnRun != nil {
		l.OnRun(res, err)
	}
}

func (l *WatchLoop) collect(ctx context.Context) (*CollectResult, error) {
	paths, err := Discover(l.Collector.Fs, l.Discovery)
	if err != nil {
		return nil, err
	}
	return l.Collector.Run(ctx, paths, l.Out)
}
