package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New настраивает логгер: в development — консольный вывод,
// иначе — JSON в stdout.
func New(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if environment == "development" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
