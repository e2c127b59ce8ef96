package launcher

import (
	"fmt"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// setupLogging builds the logger every command runs with. Logs go to stderr
// so piped result output stays clean. When a Sentry DSN is configured,
// Error and worse additionally ship to Sentry.
func setupLogging(cfg LoggingConfig, sentry SentryConfig) (*logrus.Logger, error) {
	level, err := verbosityToLevel(cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetLevel(level)

	switch cfg.Format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format: %q (valid: text, json)", cfg.Format)
	}

	if sentry.DSN != "" {
		hook, err := logrus_sentry.NewSentryHook(sentry.DSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("attach sentry hook: %w", err)
		}
		log.Hooks.Add(hook)
	}
	return log, nil
}

func verbosityToLevel(v int) (logrus.Level, error) {
	switch v {
	case 0:
		return logrus.FatalLevel, nil
	case 1:
		return logrus.ErrorLevel, nil
	case 2:
		return logrus.WarnLevel, nil
	case 3:
		return logrus.InfoLevel, nil
	case 4:
		return logrus.DebugLevel, nil
	case 5:
		return logrus.TraceLevel, nil
	}
	return 0, fmt.Errorf("unknown log verbosity: %d (valid: 0..5)", v)
}
