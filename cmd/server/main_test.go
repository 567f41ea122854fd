package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/godilite/ticket-classifier/internal/config"
)

func TestStartupFields(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      config.Config
		expected map[string]any
	}{
		{
			name: "legacy names the model path",
			cfg:  config.Config{AppEnv: "production", HTTPPort: 8000, GRPCPort: 50051, UseLegacy: true, ModelPath: "model/classifier.pkl"},
			expected: map[string]any{
				"env": "production", "http_port": int64(8000), "grpc_port": int64(50051),
				"prediction_cache": false, "strategy": "legacy", "model_path": "model/classifier.pkl",
			},
		},
		{
			name: "zero-shot names the provider",
			cfg:  config.Config{AppEnv: "development", HTTPPort: 9000, GRPCPort: 9001, RedisAddr: "redis:6379", ZeroShotProvider: "anthropic"},
			expected: map[string]any{
				"env": "development", "http_port": int64(9000), "grpc_port": int64(9001),
				"prediction_cache": true, "strategy": "zero-shot", "provider": "anthropic",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			zap.New(core).Info("starting", startupFields(&tc.cfg)...)

			assert.Equal(t, tc.expected, logs.All()[0].ContextMap())
		})
	}
}
