package player

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/mpv-handler/mpv-handler/log"
	"github.com/mpv-handler/mpv-handler/ticks"
)

const quitTimeout = 3 * time.Second

// MPV launches the mpv executable at Path.
type MPV struct {
	Path string
}

// NewMPV returns a launcher for the executable at path, looked up in PATH when not absolute.
func NewMPV(path string) *MPV {
	return &MPV{Path: path}
}

// Launch starts one player for opts. The returned Process must be closed.
func (m *MPV) Launch(ctx context.Context, opts Options) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Source == "" {
		opts.Source = SourceIPC
	}

	args := BuildArgs(opts)
	cmd := exec.Command(m.Path, args...)

	// Detach from our process group so the player outlives a closed console.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = nil

	p := &Process{
		cmd:     cmd,
		ipcPath: opts.ipcPath(),
		exited:  make(chan struct{}),
	}

	var drained <-chan struct{}
	switch opts.Source {
	case SourceStdout:
		reader, writer, err := os.Pipe()
		if err != nil {
			return nil, fmt.Errorf("create output pipe: %w", err)
		}

		// status output may land on either stream
		cmd.Stdout = writer
		cmd.Stderr = writer

		if err := cmd.Start(); err != nil {
			_ = reader.Close()
			_ = writer.Close()
			return nil, fmt.Errorf("start %s: %w", m.Path, err)
		}
		_ = writer.Close()

		source := NewStdoutSource()
		go func() {
			defer reader.Close()
			source.Consume(reader)
		}()

		p.source = source
		drained = source.Drained()
	default:
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start %s: %w", m.Path, err)
		}
		p.source = NewIPCSource(p.ipcPath)
	}

	log.Infof("started %s (pid %d) with %d arguments", m.Path, cmd.Process.Pid, len(args))

	// reap the process; in stdout mode it only counts as exited once its output is consumed
	go func() {
		err := cmd.Wait()
		if drained != nil {
			<-drained
		}
		p.waitErr = err
		close(p.exited)
	}()

	return p, nil
}

// Process is a running player owned by a single session.
type Process struct {
	cmd     *exec.Cmd
	source  PositionSource
	ipcPath string

	exited  chan struct{}
	waitErr error

	closeOnce sync.Once
}

// Pid of the player process.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// IsRunning reports whether the player is still alive. It never blocks.
func (p *Process) IsRunning() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// Exited is closed when the player has exited.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Err is the exit status of a finished player.
func (p *Process) Err() error {
	select {
	case <-p.exited:
		return p.waitErr
	default:
		return nil
	}
}

// Position reads the playback position from the configured source.
func (p *Process) Position(ctx context.Context) (ticks.Ticks, error) {
	return p.source.Position(ctx)
}

// Source is the position source bound to this process.
func (p *Process) Source() PositionSource {
	return p.source
}

// Close stops a player that is still running and releases its control endpoint.
// It is safe to call more than once.
func (p *Process) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.close()
	})
	return err
}

func (p *Process) close() error {
	if p.IsRunning() {
		if ipc, ok := p.source.(*IPCSource); ok {
			ctx, cancel := context.WithTimeout(context.Background(), quitTimeout)
			_ = ipc.Quit(ctx)
			cancel()
		}

		select {
		case <-p.exited:
		case <-time.After(quitTimeout):
			log.Warnf("killing player (pid %d): it did not quit", p.Pid())
			_ = killProcess(p.cmd)
			<-p.exited
		}
	}

	if _, ok := p.source.(*IPCSource); ok {
		return removeIPC(p.ipcPath)
	}
	return nil
}
