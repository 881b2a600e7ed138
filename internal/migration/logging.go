package migration

import (
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// GooseAdapter routes goose output through zerolog.
type GooseAdapter struct {
	logger zerolog.Logger
}

func NewGooseAdapter(logger zerolog.Logger) goose.Logger {
	return &GooseAdapter{
		logger: logger.With().Str("component", "goose").Logger(),
	}
}

func (a *GooseAdapter) Fatalf(format string, v ...interface{}) {
	a.logger.Fatal().Msg(clean(format, v...))
}

func (a *GooseAdapter) Printf(format string, v ...interface{}) {
	a.logger.Info().Msg(clean(format, v...))
}

func clean(format string, v ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, v...))
}
