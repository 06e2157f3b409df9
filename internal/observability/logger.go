package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/prcctl/internal/logging"
)

// InitLogger configures the global runtime logger and returns a child
// tagged with the tool name. Env overrides from the logging package apply.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
