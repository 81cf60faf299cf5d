package encoder

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"strings"

	"quartz-render/config"
)

// execProcess wraps a live ffmpeg subprocess. Stderr is buffered in full
// so a failure can be reported with the encoder's own diagnostics.
type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

func spawnFfmpeg(args []string) (process, error) {
	bin := config.GetFfmpegPath()
	log.Infoln(bin, strings.Join(args, " "))

	p := &execProcess{cmd: exec.Command(bin, args...)}
	p.cmd.Stderr = &p.stderr

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	p.stdin = stdin

	if err := p.cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *execProcess) Stdin() io.WriteCloser {
	return p.stdin
}

// Wait blocks for process exit. exec.Cmd.Wait only returns once the
// stderr copy is done, so reading the buffer afterwards is safe.
func (p *execProcess) Wait() (int, string, error) {
	err := p.cmd.Wait()
	stderr := p.stderr.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stderr, nil
		}
		return 0, stderr, err
	}
	return 0, stderr, nil
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}
