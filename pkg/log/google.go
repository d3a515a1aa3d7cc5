package log

import (
	"context"
	"fmt"
	"io/ioutil"
	"sync"

	"cloud.google.com/go/logging"
	"github.com/gamedb/gridview/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newGoogleCore() zapcore.Core {

	ctx := context.Background()

	googleClient, err := logging.NewClient(ctx, config.C.GoogleProject)
	if err != nil {
		fmt.Println(err)
		return zapcore.NewNopCore()
	}

	return googleCore{
		client:  googleClient,
		context: ctx,
		loggers: &googleLoggers{loggers: map[string]*logging.Logger{}},

		levelEnabler: zap.NewAtomicLevelAt(zapcore.InfoLevel),
		encoder:      zapcore.NewConsoleEncoder(googleEncoderConfig()),
		output:       zapcore.AddSync(ioutil.Discard),
	}
}

type googleLoggers struct {
	loggers map[string]*logging.Logger
	lock    sync.Mutex
}

type googleCore struct {
	client  *logging.Client
	context context.Context
	loggers *googleLoggers

	levelEnabler zapcore.LevelEnabler
	encoder      zapcore.Encoder
	output       zapcore.WriteSyncer
}

func (g googleCore) clone() googleCore {

	return googleCore{
		client:  g.client,
		context: g.context,
		loggers: g.loggers,

		levelEnabler: g.levelEnabler,
		encoder:      g.encoder.Clone(),
		output:       g.output,
	}
}

func (g googleCore) getLogger(name string) *logging.Logger {

	g.loggers.lock.Lock()
	defer g.loggers.lock.Unlock()

	if val, ok := g.loggers.loggers[name]; ok {
		return val
	}

	common := map[string]string{
		"env":     config.C.Environment,
		"commits": config.C.Commits,
		"hash":    config.C.CommitHash,
	}
	g.loggers.loggers[name] = g.client.Logger(name, logging.CommonLabels(common))

	return g.loggers.loggers[name]
}

func (g googleCore) Enabled(level zapcore.Level) bool {
	return g.levelEnabler.Enabled(level)
}

func (g googleCore) With(fields []zapcore.Field) zapcore.Core {

	clone := g.clone()
	for k := range fields {
		fields[k].AddTo(clone.encoder)
	}
	return clone
}

func (g googleCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {

	if g.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, g)
	}
	return checkedEntry
}

func (g googleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {

	buf, err := g.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}

	var level logging.Severity

	switch entry.Level {
	case zapcore.DebugLevel:
		level = logging.Debug
	case zapcore.InfoLevel:
		level = logging.Info
	case zapcore.WarnLevel:
		level = logging.Warning
	case zapcore.ErrorLevel:
		level = logging.Error
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		level = logging.Critical
	default:
		level = logging.Debug
	}

	g.getLogger(entry.LoggerName).Log(logging.Entry{
		Timestamp: entry.Time,
		Severity:  level,
		Payload:   buf.String(),
	})

	return nil
}

func (g googleCore) Sync() error {

	g.loggers.lock.Lock()
	defer g.loggers.lock.Unlock()

	for _, logger := range g.loggers.loggers {

		err := logger.Flush()
		if err != nil {
			return err
		}
	}

	return g.output.Sync()
}

// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry
func googleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logName",
		CallerKey:      "caller",
		MessageKey:     "textPayload",
		StacktraceKey:  "trace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
