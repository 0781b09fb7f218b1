package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/config"
	"github.com/randomizedcoder/taskwdt/internal/system"
	"github.com/randomizedcoder/taskwdt/internal/watchdog"
	"github.com/stretchr/testify/require"
)

func TestRun_InterruptShutsDownCleanly(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	require.NoError(t, run(ctx, &buf))

	out := buf.String()
	require.Contains(t, out, "[SISTEMA] Inicializando sistema multitarefa...")
	require.Contains(t, out, "[WDT] Watchdog inicializado")
	require.Contains(t, out, "[SISTEMA] Tarefas iniciadas com sucesso!")
	require.Contains(t, out, "[SISTEMA] Sistema encerrado")
	require.Contains(t, out, "[FILA] Dado enviado com sucesso!")
	require.Contains(t, out, "sys=Matheus-RM:87560")
}

func TestRun_InvalidLoggingEnv(t *testing.T) {
	t.Setenv("TASKWDT_LOGGING_LEVEL", "loud")

	err := run(context.Background(), new(bytes.Buffer))
	require.ErrorContains(t, err, "logging.level")
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.Error(t, cmd.Execute())
}

func TestRun_WedgedTaskReturnsWatchdogError(t *testing.T) {
	if testing.Short() {
		t.Skip("runs for the full watchdog timeout")
	}

	block := make(chan struct{})
	defer close(block)

	errCh := make(chan error, 1)
	var buf syncBuffer
	go func() {
		errCh <- run(context.Background(), &buf, system.WithProcessFunc(func(context.Context, int) error {
			<-block
			return nil
		}))
	}()

	select {
	case err := <-errCh:
		require.Equal(t, watchdog.FailureToRespondError{TaskName: "TaskReceive"}, err)
	case <-time.After(config.WatchdogTimeout + 5*time.Second):
		t.Fatal("run did not return after the watchdog fired")
	}

	require.Contains(t, buf.String(), "[WDT] Task watchdog disparado")
	require.Contains(t, buf.String(), "[SISTEMA] Sistema encerrado pelo watchdog")
}

// syncBuffer is a bytes.Buffer safe to read while the wedged task
// may still hold the logger.
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
