package logger_test

import (
	"errors"
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	log.WithComponent("parser").Info("parsed block",
		"source", "showrooms",
		"count", 3,
		"cause", errors.New("boom"),
		zap.Bool("ok", true),
	)

	entries := logs.FilterMessage("parsed block").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "parser", fields["component"])
	assert.Equal(t, "showrooms", fields["source"])
	assert.EqualValues(t, 3, fields["count"])
	assert.Equal(t, "boom", fields["cause"])
	assert.Equal(t, true, fields["ok"])
}

func TestLoggerDanglingKey(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	log.Debug("odd fields", "orphan")

	assert.Equal(t, 1, logs.FilterMessage("Missing value for field key").Len())
	assert.Equal(t, 1, logs.FilterMessage("odd fields").Len())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     logger.Config
		wantErr error
	}{
		{name: "defaults", cfg: logger.Config{}},
		{name: "json debug", cfg: logger.Config{Level: logger.DebugLevel, Encoding: "json"}},
		{name: "bad level", cfg: logger.Config{Level: "loud"}, wantErr: logger.ErrInvalidLevel},
		{name: "bad encoding", cfg: logger.Config{Encoding: "xml"}, wantErr: logger.ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := logger.New(&logger.Config{Level: "loud"})
	require.ErrorIs(t, err, logger.ErrInvalidLevel)

	log, err := logger.New(&logger.Config{Level: logger.WarnLevel})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
