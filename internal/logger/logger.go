package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

var (
	Info  = log.New(os.Stdout, "INFO: ", logFlags)
	Error = log.New(os.Stdout, "ERROR: ", logFlags)
)

// Init points the loggers at stdout, and also at logDir/warehouse.log when logDir is set.
// The returned closer releases the log file.
func Init(logDir string) (io.Closer, error) {
	if logDir == "" {
		SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filepath.Join(logDir, "warehouse.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	SetOutput(io.MultiWriter(os.Stdout, logFile))
	return logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetOutput redirects both loggers to w.
func SetOutput(w io.Writer) {
	Info.SetOutput(w)
	Error.SetOutput(w)
}
