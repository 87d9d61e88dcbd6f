package cmd

import (
	"go.uber.org/zap"

	"github.com/b11005/blink-idl-diff/internal/adapters/bbolt"
	"github.com/b11005/blink-idl-diff/internal/adapters/webidl"
	"github.com/b11005/blink-idl-diff/internal/app"
)

// collector builds an app.Collector from the effective configuration.
// relativeTo is used when no relative_to is configured. The returned func
// closes the parse cache, if any.
func (st *state) collector(relativeTo string) (*app.Collector, func(), error) {
	c := &app.Collector{
		Fs:         st.fs,
		Parser:     webidl.NewParser(),
		Logger:     st.log,
		Workers:    st.cfg.Workers,
		RelativeTo: st.cfg.RelativeTo,
		Indent:     st.cfg.Indent,
	}
	if c.RelativeTo == "" {
		c.RelativeTo = relativeTo
	}
	if st.cfg.Cache == "" {
		return c, func() {}, nil
	}

	store, err := bbolt.NewStore(st.cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	c.Cache = store
	st.log.Debug("parse cache enabled", zap.String("path", st.cfg.Cache))
	return c, func() {
		if err := store.Close(); err != nil {
			st.log.Warn("close parse cache", zap.Error(err))
		}
	}, nil
}

func (st *state) discover(root string) ([]string, error) {
	paths, err := app.Discover(st.fs, st.cfg.Discovery(root))
	if err != nil {
		return nil, err
	}
	st.log.Debug("discovered", zap.String("root", root), zap.Int("files", len(paths)))
	return paths, nil
}
