package client

// Logger receives non-fatal warnings from the extraction pipeline, e.g.
// persona attempts that failed before a later one succeeded.
type Logger interface {
	Warnf(format string, args ...any)
}

// nopLogger is the default when Config.Logger is nil.
type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
