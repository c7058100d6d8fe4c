package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hcsolakoglu/country-list-updated-weekly/cmd/countries/cmd"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	var out io.Writer = os.Stderr
	noColor := false

	// the weekly automation sets COUNTRIES_LOG_FILE so failed runs can
	// be inspected after the fact
	if logFile := os.Getenv("COUNTRIES_LOG_FILE"); logFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
		})
		noColor = true
	}

	logger := slog.New(tint.NewHandler(out, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
	slog.SetDefault(logger)

	cmd.Execute()
}
