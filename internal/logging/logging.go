package logging

import (
	"io"

	"github.com/mattn/go-colorable"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const (
	DefaultErrorLog = "error.log"

	errorLogMaxSizeMB  = 1
	errorLogMaxBackups = 3
)

type Config struct {
	Debug    bool
	// ErrorLog receives warnings and errors in plain text. Empty disables it.
	ErrorLog string
	Output   io.Writer
}

// New returns a console logger with the prefixed formatter. Per environment
// loggers set the "prefix" field.
func New(config *Config) *logrus.Logger {
	logger := logrus.New()
	formatter := &prefixed.TextFormatter{ForceColors: true, ForceFormatting: true}
	formatter.SetColorScheme(&prefixed.ColorScheme{
		PrefixStyle: "white",
	})
	logger.SetFormatter(formatter)
	if config.Output != nil {
		logger.SetOutput(config.Output)
	} else {
		logger.SetOutput(colorable.NewColorableStdout())
	}
	if config.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if config.ErrorLog != "" {
		logger.AddHook(NewFileHook(&lumberjack.Logger{
			Filename:   config.ErrorLog,
			MaxSize:    errorLogMaxSizeMB,
			MaxBackups: errorLogMaxBackups,
		}))
	}
	return logger
}

// FileHook copies warnings and errors to a writer without colors.
type FileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func NewFileHook(w io.Writer) *FileHook {
	return &FileHook{
		writer:    w,
		formatter: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true},
	}
}

func (h *FileHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (h *FileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

// Close releases the error log file, if the logger has one.
func Close(logger *logrus.Logger) {
	for _, hooks := range logger.Hooks {
		for _, hook := range hooks {
			if fh, ok := hook.(*FileHook); ok {
				if c, ok := fh.writer.(io.Closer); ok {
					_ = c.Close()
				}
			}
		}
	}
}
