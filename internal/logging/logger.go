package logging

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает имя уровня без учёта регистра; неизвестное имя даёт INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case TRACE:
		return logrus.TraceLevel
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Options настройки создаваемых логгеров
type Options struct {
	Dir          string   // каталог файлов логов; пусто = только консоль
	Format       string   // "text" или "json"
	ConsoleLevel LogLevel // минимальный уровень для консоли
	FileLevel    LogLevel // минимальный уровень для файла
	MaxSizeMB    int      // размер файла до ротации
	MaxBackups   int
	MaxAgeDays   int
}

var (
	optsMu  sync.RWMutex
	options = defaultOptions()
)

// defaultOptions читает LOG_LEVEL и LOG_FORMAT из окружения
func defaultOptions() Options {
	opts := Options{
		Dir:          "logs",
		Format:       "text",
		ConsoleLevel: INFO,
		FileLevel:    DEBUG,
		MaxSizeMB:    50,
		MaxBackups:   5,
		MaxAgeDays:   14,
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		opts.ConsoleLevel = ParseLevel(lvl)
	}
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		opts.Format = strings.ToLower(f)
	}
	return opts
}

// Configure задаёт настройки для логгеров, создаваемых после вызова
func Configure(opts Options) {
	optsMu.Lock()
	defer optsMu.Unlock()
	options = opts
}

func currentOptions() Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return options
}

// Logger логгер компонента: консоль + ротируемый файл logs/<component>.log
type Logger struct {
	component string

	mu              sync.RWMutex
	console         *logrus.Logger
	file            *logrus.Logger
	rotator         *lumberjack.Logger
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

func newFormatter(format string, colors bool) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true, ForceColors: colors, DisableColors: !colors}
}

// NewLogger создаёт логгер компонента с текущими настройками
func NewLogger(component string) (*Logger, error) {
	return newLogger(component, currentOptions(), os.Stdout)
}

func newLogger(component string, opts Options, out io.Writer) (*Logger, error) {
	l := &Logger{
		component:       component,
		minConsoleLevel: opts.ConsoleLevel,
		minFileLevel:    opts.FileLevel,
	}

	l.console = logrus.New()
	l.console.SetOutput(out)
	l.console.SetFormatter(newFormatter(opts.Format, out == os.Stdout))
	l.console.SetLevel(logrus.TraceLevel)

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории %s: %w", opts.Dir, err)
		}
		l.rotator = &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, component+".log"),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		l.file = logrus.New()
		l.file.SetOutput(l.rotator)
		l.file.SetFormatter(newFormatter(opts.Format, false))
		l.file.SetLevel(logrus.TraceLevel)
	}
	return l, nil
}

// Component имя компонента
func (l *Logger) Component() string {
	return l.component
}

// SetLevels меняет пороги консоли и файла
func (l *Logger) SetLevels(consoleLevel, fileLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minConsoleLevel = consoleLevel
	l.minFileLevel = fileLevel
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.RLock()
	consoleOn := level >= l.minConsoleLevel
	fileOn := l.file != nil && level >= l.minFileLevel
	l.mu.RUnlock()
	if !consoleOn && !fileOn {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if consoleOn {
		l.console.WithField("component", l.component).Log(level.logrus(), msg)
	}
	if fileOn {
		l.file.WithField("component", l.component).Log(level.logrus(), msg)
	}
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) { l.log(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) { l.log(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) { l.log(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l == nil || l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// HexDump создает hex дамп данных (не больше 256 байт)
func HexDump(data []byte) string {
	if len(data) == 0 {
		return "No data"
	}
	size := min(len(data), 256)
	return hex.Dump(data[:size])
}

// Логгер по умолчанию для пакетных функций
var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// InitDefaultLogger создаёт логгер по умолчанию для компонента (обычно имя бинарника)
func InitDefaultLogger(component string) error {
	l, err := GetLoggerManager().GetLogger(component)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return nil
}

// CloseDefaultLogger закрывает все логгеры
func CloseDefaultLogger() {
	_ = GetLoggerManager().CloseAll()
	defaultMu.Lock()
	defaultLogger = nil
	defaultMu.Unlock()
}

func getDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Trace логирует через логгер по умолчанию
func Trace(format string, args ...interface{}) { getDefault().log(TRACE, format, args...) }

// Debug логирует через логгер по умолчанию
func Debug(format string, args ...interface{}) { getDefault().log(DEBUG, format, args...) }

// Info логирует через логгер по умолчанию
func Info(format string, args ...interface{}) { getDefault().log(INFO, format, args...) }

// Warn логирует через логгер по умолчанию
func Warn(format string, args ...interface{}) { getDefault().log(WARN, format, args...) }

// Error логирует через логгер по умолчанию
func Error(format string, args ...interface{}) { getDefault().log(ERROR, format, args...) }
