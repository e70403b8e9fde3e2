package logging

import (
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the std logger and gin's writers at stderr and, when path is
// set, at a rotating log file as well. The returned closer flushes the file.
func Setup(path string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if path == "" {
		log.SetOutput(os.Stderr)
		gin.DefaultWriter = os.Stdout
		gin.DefaultErrorWriter = os.Stderr
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	gin.DefaultWriter = io.MultiWriter(os.Stdout, file)
	gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, file)
	log.Printf("📝 Logging to %s", path)
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
