package encoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// process is the slice of an encoder subprocess the manager drives. The
// real implementation wraps exec.Cmd; tests substitute their own.
type process interface {
	Stdin() io.WriteCloser
	Wait() (int, string, error)
	Kill() error
}

type spawnFunc func(args []string) (process, error)

// Manager runs one encoder process from spawn to exit. Frames are
// streamed over the process's stdin pipe; writes block while the pipe is
// full, which is what paces the producer. A Manager is single use.
type Manager struct {
	mu     sync.Mutex
	state  State
	proc   process
	stdin  io.WriteCloser
	spawn  spawnFunc
	result error

	done      chan struct{}
	closeOnce sync.Once
}

func New() *Manager {
	return &Manager{
		spawn: spawnFfmpeg,
		done:  make(chan struct{}),
	}
}

// State returns the current lifecycle stage.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start spawns the encoder with args and begins watching for its exit.
func (m *Manager) Start(args []string) error {
	m.mu.Lock()
	if m.state != StateIdle {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("encoder already started (state %s)", state)
	}
	m.state = StateSpawning
	m.mu.Unlock()

	proc, err := m.spawn(args)
	if err != nil {
		spawnErr := &SpawnError{Err: err}
		m.mu.Lock()
		if m.state == StateSpawning {
			m.state = StateFailed
			m.result = spawnErr
		}
		m.mu.Unlock()
		m.closeDone()
		return spawnErr
	}

	m.mu.Lock()
	if m.state != StateSpawning {
		// Abort reached a terminal state while the process was coming
		// up. The fresh process has no owner, so reap it here.
		result := m.result
		m.mu.Unlock()
		if err := proc.Kill(); err != nil {
			log.Debugf("kill encoder: %v", err)
		}
		go proc.Wait()
		return result
	}
	m.proc = proc
	m.stdin = proc.Stdin()
	m.state = StateStreaming
	m.mu.Unlock()

	go m.watch()
	return nil
}

// WriteFrame sends one encoded frame down the pipe. It blocks while the
// encoder is not consuming, and fails once the manager has left the
// streaming state.
func (m *Manager) WriteFrame(frame []byte) error {
	m.mu.Lock()
	if m.state != StateStreaming {
		state := m.state
		m.mu.Unlock()
		return &StreamWriteError{Err: fmt.Errorf("encoder is %s, not streaming", state)}
	}
	stdin := m.stdin
	m.mu.Unlock()

	// The write happens outside the lock so a stalled pipe never blocks
	// State or Abort.
	if _, err := stdin.Write(frame); err != nil {
		m.mu.Lock()
		if !m.state.Terminal() {
			m.state = StateFailed
		}
		m.mu.Unlock()
		return &StreamWriteError{Err: err}
	}
	return nil
}

// Finish closes the write side of the pipe, signalling end of stream.
// The process keeps running until it has flushed the container, so
// callers must still Wait.
func (m *Manager) Finish() error {
	m.mu.Lock()
	if m.state != StateStreaming {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("finish while encoder is %s", state)
	}
	m.state = StateFinishing
	stdin := m.stdin
	m.mu.Unlock()

	if err := stdin.Close(); err != nil {
		return fmt.Errorf("close encoder input: %w", err)
	}
	return nil
}

// Abort tears the encoder down without waiting for it to drain. Safe to
// call at any point and more than once.
func (m *Manager) Abort() {
	m.mu.Lock()
	if m.state.Terminal() {
		m.mu.Unlock()
		return
	}
	proc := m.proc
	stdin := m.stdin
	if proc == nil {
		m.state = StateFailed
		m.result = errors.New("aborted before spawn")
		m.mu.Unlock()
		m.closeDone()
		return
	}
	m.state = StateFailed
	m.mu.Unlock()

	if stdin != nil {
		stdin.Close()
	}
	if err := proc.Kill(); err != nil {
		log.Debugf("kill encoder: %v", err)
	}
}

// Wait blocks until the encoder reaches a terminal state and returns its
// failure, if any. A nil return means the process exited zero after the
// stream was finished.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// watch observes the process exit and settles the terminal state. The
// exit code decides success, never the close of the pipe.
func (m *Manager) watch() {
	code, stderr, err := m.proc.Wait()

	m.mu.Lock()
	finishing := m.state == StateFinishing
	switch {
	case err != nil:
		m.state = StateFailed
		m.result = fmt.Errorf("wait for encoder: %w", err)
	case code != 0:
		m.state = StateFailed
		m.result = &EncodingError{ExitCode: code, Stderr: stderr}
	case !finishing:
		// A zero exit before Finish means the encoder gave up on its
		// input early. The output is not the video we asked for.
		m.state = StateFailed
		m.result = fmt.Errorf("encoder exited before the stream was finished")
	default:
		m.state = StateCompleted
		m.result = nil
	}
	result := m.result
	m.mu.Unlock()

	if result != nil {
		log.Errorln(result)
	}
	m.closeDone()
}

func (m *Manager) closeDone() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}
