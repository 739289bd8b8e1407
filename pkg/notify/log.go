package notify

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

// Debug goes to trace: retryablehttp logs full request URLs here
func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

// redact replaces secret in the error text
func redact(err error, secret string) error {
	if err == nil || secret == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, secret) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, secret, "<redacted>"))
}
