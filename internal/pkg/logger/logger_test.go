package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk-abc...wxyz", MaskKey("sk-abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "***", MaskKey("sk-short"))
	assert.Equal(t, "***", MaskKey(""))
}

func TestWithAction(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "Ask")
	ctx = AddFields(ctx, zap.String("model", "gpt-4o"))
	ctxzap.Info(ctx, "hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "Ask", fields["action"])
		assert.Equal(t, "gpt-4o", fields["model"])
	}
}
