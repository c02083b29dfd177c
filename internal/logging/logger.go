package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/healthtracker/internal/config"
	"github.com/2beens/healthtracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	sentryServerName = "health-tracker"

	logFileMaxSizeMB  = 50
	logFileMaxBackups = 20
)

// Options control where and how the service logs.
type Options struct {
	// File is the log file path; empty logs to stdout only.
	File   string
	Stdout bool
	Level  string
	JSON   bool
	Env    string
	// SentryDSN enables the sentry hook when set.
	SentryDSN string
}

// OptionsFromConfig builds logging options from the service config.
// The sentry DSN only applies when sentry is enabled in the config.
func OptionsFromConfig(cfg *config.Config, sentryDSN string) Options {
	opts := Options{
		File:   cfg.LogsPath,
		Stdout: cfg.LogToStdout,
		Level:  cfg.LogLevel,
		JSON:   cfg.LogFormatJSON,
		Env:    cfg.Environment,
	}
	if cfg.SentryEnabled {
		opts.SentryDSN = sentryDSN
	}
	return opts
}

func Setup(opts Options) {
	if opts.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(opts.Level))

	if opts.SentryDSN != "" {
		setupSentry(opts)
	}

	logrus.SetOutput(Output(opts))
	logrus.Debugf("logging at [%s], file: [%s], stdout: %t", logrus.GetLevel(), opts.File, opts.Stdout || opts.File == "")
}

func setupSentry(opts Options) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      opts.Env,
		Dsn:              opts.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       sentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry hook added")
}

// Output is the writer logs go to: stdout, a rotated log file, or both.
func Output(opts Options) io.Writer {
	if opts.File == "" {
		return os.Stdout
	}

	fileName := opts.File
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	logFile := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		Compress:   true,
	}

	if opts.Stdout {
		return pkg.NewTeeWriter(os.Stdout, logFile)
	}
	return logFile
}

// GetLevel parses a level name; unknown names log at info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
