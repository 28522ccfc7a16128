package log

import (
	"fmt"

	"gopkg.in/Sirupsen/logrus.v0"
)

// logf emits a printf-style message if mod is enabled at lvl.
func (mod Module) logf(lvl Level, format string, args ...any) {
	if !mod.Enabled(lvl) {
		return
	}
	entry := logrus.StandardLogger().WithField("_mod", mod.String())
	emit(entry, lvl, fmt.Sprintf(format, args...))
}

func emit(entry *logrus.Entry, lvl Level, msg string) {
	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	case FatalLevel:
		entry.Fatal(msg)
	case PanicLevel:
		entry.Panic(msg)
	}
}
