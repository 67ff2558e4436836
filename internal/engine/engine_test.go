package engine_test

import (
	"testing"

	"github.com/iamNilotpal/journal/internal/engine"
	"github.com/iamNilotpal/journal/internal/journalfile"
	"github.com/iamNilotpal/journal/pkg/logger"
	"github.com/iamNilotpal/journal/pkg/options"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	e, err := engine.New(t.TempDir(), "events", &engine.Config{Options: &opts, Logger: logger.New("test")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngineDelegatesAppendAndRead(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	n, err := e.Append([]journalfile.Entry{{Data: []byte("payload")}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	entries, err := e.Read(1, make([]byte, 4096))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, []byte("payload"), entries[0].Data)
}

func TestEngineCloseIsOnceOnly(t *testing.T) {
	t.Parallel()

	opts := options.NewDefaultOptions()
	e, err := engine.New(t.TempDir(), "events", &engine.Config{Options: &opts, Logger: logger.New("test")})
	require.NoError(t, err)

	require.NoError(t, e.Close())
	require.Error(t, e.Close())
}

func TestEngineSetFsyncTakesEffectOnNextAppend(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	e.SetFsync(true)
	_, err := e.Append([]journalfile.Entry{{Data: []byte("durable")}})
	require.NoError(t, err)
}
