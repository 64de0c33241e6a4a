package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	AppLogger    *log.Logger
	AccessLogger *log.Logger
	ErrorLogger  *log.Logger

	logLevel      string
	appLogFile    *os.File
	accessLogFile *os.File
	initialized   bool
)

// openLogWriter opens (or creates) a log file, falling back to io.Discard when the
// directory or file cannot be created. The second return is the path actually used.
func openLogWriter(path string) (io.Writer, *os.File, string) {
	if path == "" {
		return io.Discard, nil, "(discarded)"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		ErrorLogger.Errorf("Failed to create log directory %s: %v. Logs will be discarded.", filepath.Dir(path), err)
		return io.Discard, nil, "(discarded)"
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		ErrorLogger.Errorf("Failed to open log file %s: %v. Logs will be discarded.", path, err)
		return io.Discard, nil, "(discarded)"
	}
	return f, f, path
}

func parseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// InitGlobalLoggers (re)creates the application, access and error loggers.
// Calling it again with the same level is a no-op once the files are open.
func InitGlobalLoggers(appLogPath, accessLogPath, level string) error {
	if initialized && appLogFile != nil && accessLogFile != nil && strings.ToUpper(level) == logLevel {
		return nil
	}
	if appLogFile != nil {
		appLogFile.Close()
		appLogFile = nil
	}
	if accessLogFile != nil {
		accessLogFile.Close()
		accessLogFile = nil
	}

	logLevel = strings.ToUpper(level)
	if logLevel == "" {
		logLevel = "INFO"
	}
	lvl := parseLevel(logLevel)

	ErrorLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dbconsole",
		Level:           log.ErrorLevel,
	})

	var appWriter io.Writer
	var actualAppLogPath string
	appWriter, appLogFile, actualAppLogPath = openLogWriter(appLogPath)
	AppLogger = log.NewWithOptions(appWriter, log.Options{
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		Prefix:          "APP",
		Level:           lvl,
	})

	var accessWriter io.Writer
	var actualAccessLogPath string
	accessWriter, accessLogFile, actualAccessLogPath = openLogWriter(accessLogPath)
	AccessLogger = log.NewWithOptions(accessWriter, log.Options{
		ReportTimestamp: true,
		Prefix:          "ACCESS",
		Level:           log.InfoLevel,
	})

	if !initialized {
		AppLogger.Infof("App logger initialized. Log level: %s. Output file: %s", logLevel, actualAppLogPath)
		AccessLogger.Infof("Access logger initialized. Output file: %s", actualAccessLogPath)
	}
	initialized = true
	return nil
}

// SetOutput redirects the application logger, mostly for tests.
func SetOutput(w io.Writer, level string) {
	AppLogger = log.NewWithOptions(w, log.Options{Prefix: "APP", Level: parseLevel(level)})
	AccessLogger = log.NewWithOptions(w, log.Options{Prefix: "ACCESS"})
	ErrorLogger = log.NewWithOptions(w, log.Options{Prefix: "dbconsole", Level: log.ErrorLevel})
	logLevel = strings.ToUpper(level)
}

func Info(format string, v ...interface{}) {
	if AppLogger != nil {
		AppLogger.Infof(format, v...)
	}
}

func Debug(format string, v ...interface{}) {
	if AppLogger != nil {
		AppLogger.Debugf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if AppLogger != nil {
		AppLogger.Warnf(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf(format, v...)
	}
	if AppLogger != nil && appLogFile != nil {
		AppLogger.Errorf(format, v...)
	}
}

func Fatal(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Fatalf(format, v...)
	}
	log.Fatalf(format, v...)
}

// Access records one served request in the access log.
func Access(method, path string, status int, durationMs int64, requestID string) {
	if AccessLogger != nil {
		AccessLogger.Info("request", "method", method, "path", path, "status", status, "duration_ms", durationMs, "request_id", requestID)
	}
}

func CloseLogFiles() {
	if appLogFile != nil {
		AppLogger.Info("Closing app log file.")
		appLogFile.Close()
		appLogFile = nil
	}
	if accessLogFile != nil {
		accessLogFile.Close()
		accessLogFile = nil
	}
	initialized = false
}
