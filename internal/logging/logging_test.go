package logging_test

import (
	"testing"

	"github.com/plus3/skirmish/internal/config"
	"github.com/plus3/skirmish/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggingConfig
		level zapcore.Level
	}{
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"json warn", config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"unknown level", config.LoggingConfig{Level: "loud"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := logging.New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			assert.False(t, logger.Core().Enabled(tt.level-1))
		})
	}
}
