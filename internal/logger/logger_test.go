package logger

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAsyncHook_FlushesOnClose(t *testing.T) {
	out := &syncBuffer{}
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(bytes.NewBuffer(nil))

	hook := NewAsyncHook([]io.Writer{out}, 10)
	l.AddHook(hook)

	l.WithField("reportType", "sales").Info("generated")
	assert.NoError(t, hook.Close())

	assert.Contains(t, out.String(), "reportType=sales")
	assert.Contains(t, out.String(), "generated")
}

func TestRedactHook_MasksSensitiveFields(t *testing.T) {
	out := &bytes.Buffer{}
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(out)
	l.AddHook(NewRedactHook(map[string]bool{"authorization": true, "token": true}))

	l.WithFields(logrus.Fields{
		"Authorization": "Bearer abc.def",
		"token":         "secret",
		"user_id":       7,
	}).Info("request")

	assert.NotContains(t, out.String(), "abc.def")
	assert.NotContains(t, out.String(), "secret")
	assert.Contains(t, out.String(), "user_id=7")
}

func TestDefaultConfig_ByEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	t.Setenv("GO_ENV", "development")
	cfg = DefaultConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.redactSet()["authorization"])
}
