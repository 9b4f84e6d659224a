package reporter

import (
	"github.com/sirupsen/logrus"

	"github.com/ferat-verify/ferat/scan"
)

// Handler routes parser and checker diagnostics to a structured logger,
// suppressing output in silent mode and firing "warn once" classes (the
// per-run replacement for the source's singleton warned_free set) at most
// once each.
type Handler struct {
	Logger logrus.FieldLogger
	Silent bool

	warned map[string]struct{}
}

// NewHandler constructs a Handler. A nil logger defaults to
// logrus.StandardLogger().
func NewHandler(logger logrus.FieldLogger, silent bool) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Logger: logger,
		Silent: silent,
		warned: make(map[string]struct{}),
	}
}

// Warn logs a non-fatal diagnostic at pos. class is a dedup key: once a
// class has fired, subsequent Warn calls with the same class are no-ops.
// An empty class disables dedup for that call. In silent mode nothing is
// logged, but the class is still recorded and counted by WarnCount.
func (h *Handler) Warn(pos scan.Position, class string, err error) {
	if class != "" {
		if _, seen := h.warned[class]; seen {
			return
		}
		h.warned[class] = struct{}{}
	}
	if h.Silent {
		return
	}
	h.Logger.WithFields(logrus.Fields{
		"line":   pos.Line,
		"column": pos.Column,
		"class":  class,
	}).Warn(err)
}

// Warnf is Warn with a printf-style message.
func (h *Handler) Warnf(pos scan.Position, class, format string, args ...interface{}) {
	h.Warn(pos, class, Errorf(pos, format, args...).Unwrap())
}

// Fatal builds a FatalError at pos, tagged with kind. It never terminates
// the process; the caller is responsible for propagating the returned
// error and, if it owns the process, choosing an exit code from Kind.
func (h *Handler) Fatal(kind Kind, pos scan.Position, err error) *FatalError {
	return Fatal(kind, pos, err)
}

// WarnCount reports how many distinct warning classes have fired so far.
func (h *Handler) WarnCount() int {
	return len(h.warned)
}
