package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry enables error capture when a DSN is configured. An empty
// DSN yields a no-op flush func.
func InitSentry(dsn, env string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports an error to Sentry if one is configured. Used for
// best-effort failures that are swallowed rather than surfaced.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
