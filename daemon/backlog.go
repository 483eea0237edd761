package daemon

import (
	"github.com/sirupsen/logrus"

	"github.com/terrorizer1980/hh-ide-daemon/errs"
	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
)

// processOneBacklogPath implements one Change-Backlog Processor turn
// (spec.md §4.3): it takes exactly one path out of the backlog, applies
// Trigger B through the Invalidation Engine, and returns the Processing
// or Done notification to emit. A failure while processing the path is
// logged and swallowed (spec.md §7.5, BacklogFailure) — the path is
// removed from the backlog regardless, so a single bad file can never
// wedge the backlog.
func (d *Daemon) processOneBacklogPath(logger *logrus.Logger) *Notification {
	st := d.initialized
	st.Backend.Lock()
	defer st.Backend.Unlock()

	path, ok := st.Backlog.take()
	if !ok {
		return nil
	}

	eng := cachestate.NewEngine(st.Context, st.SymbolIndex)
	if err := eng.ProcessChangedPath(path); err != nil {
		bf := errs.NewBacklogFailure(path.String(), err)
		if logger != nil {
			logger.WithField("path", path.String()).WithError(bf).Warn("failed to process changed file")
		}
	}

	processed, total := st.Backlog.progress()
	if st.Backlog.len() == 0 {
		return &Notification{Done: true}
	}
	return &Notification{Processing: &ProcessingNotification{Processed: processed, Total: total}}
}

// hasBacklogWork reports whether there is a backlog turn to take right
// now (spec.md §4.4's fairness condition (b): "process one backlog path
// if queue empty AND input has no readable bytes AND backlog non-empty").
func (d *Daemon) hasBacklogWork() bool {
	return d.state == StateInitialized && d.initialized != nil && d.initialized.Backlog.len() > 0
}
