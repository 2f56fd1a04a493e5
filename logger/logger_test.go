package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vortex-fintech/go-redisconn/logger"
)

func TestNop(t *testing.T) {
	l := logger.Nop()
	assert.NotNil(t, l)
	// must be safe to use straight away
	l.Infow("ignored", "k", "v")
	l.SafeSync()
}

func TestFromZap(t *testing.T) {
	z := zap.NewNop()
	l := logger.FromZap(z)
	assert.NotNil(t, l)
	l.Debugw("ignored")
}

func TestFromZap_NilFallsBackToNop(t *testing.T) {
	l := logger.FromZap(nil)
	assert.NotNil(t, l)
	l.Warnw("ignored")
}

func TestWith_ReturnsInterface(t *testing.T) {
	var i logger.Interface = logger.Nop()
	child := i.With("component", "redisconn")
	assert.NotNil(t, child)
	child.Errorw("ignored", "err", "none")
}

func TestSafeSync_NilReceiver(t *testing.T) {
	var l *logger.Logger
	l.SafeSync()
}
