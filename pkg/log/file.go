package log

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newFileCore(path string) (zapcore.Core, error) {

	err := os.MkdirAll(filepath.Dir(path), os.ModePerm)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}

	return fileCore{
		file:         f,
		levelEnabler: zap.NewAtomicLevelAt(zapcore.DebugLevel),
		encoder:      zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}, nil
}

// fileCore writes one JSON entry per line, so the file can be tailed into other tools
type fileCore struct {
	file         *os.File
	levelEnabler zapcore.LevelEnabler
	encoder      zapcore.Encoder
}

func (g fileCore) clone() fileCore {

	return fileCore{
		file:         g.file,
		levelEnabler: g.levelEnabler,
		encoder:      g.encoder.Clone(),
	}
}

func (g fileCore) Enabled(level zapcore.Level) bool {
	return g.levelEnabler.Enabled(level)
}

func (g fileCore) With(fields []zapcore.Field) zapcore.Core {

	clone := g.clone()
	for k := range fields {
		fields[k].AddTo(clone.encoder)
	}
	return clone
}

func (g fileCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {

	if g.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, g)
	}
	return checkedEntry
}

func (g fileCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {

	buf, err := g.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	_, err = g.file.Write(buf.Bytes())
	return err
}

func (g fileCore) Sync() error {
	return g.file.Sync()
}
