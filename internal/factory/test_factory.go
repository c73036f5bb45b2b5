package factory

import (
	"log/slog"

	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/clock"
	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/random"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/party"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage/memory"
)

// NewForTest creates a fully wired App with injectable clock and
// random, an in-memory store, and the given party configuration.
// Intended for integration tests.
func NewForTest(clk clock.Clock, rnd random.Random, controlSecret string, partyCfg party.Config, logger *slog.Logger) *App {
	return newWithDependencies(memory.New(), clk, rnd, controlSecret, partyCfg, logger)
}
