// Package report forwards unexpected errors to Sentry. Every function is a
// no-op until Init is called with a DSN.
package report

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pavelc4/aether-dl-bot/pkg/logger"
)

func Init(dsn, environment, release string) error {
	if dsn == "" {
		logger.Info("SENTRY_DSN empty, error reporting disabled")
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Chat ids and names never leave the process.
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Sentry initialized", "environment", environment)
	return nil
}

func Flush() {
	sentry.Flush(2 * time.Second)
}

func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
