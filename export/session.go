package export

import (
	"context"
	"sync"

	"quartz-render/audiograph"
	"quartz-render/config"
	"quartz-render/encoder"
	"quartz-render/timeline"
)

// encoderManager is the slice of encoder.Manager the session drives.
// Tests substitute their own.
type encoderManager interface {
	Start(args []string) error
	WriteFrame(frame []byte) error
	Finish() error
	Abort()
	Wait(ctx context.Context) error
}

// Session binds one encoder process to one timeline snapshot. The audio
// graph is derived up front so the ffmpeg invocation is fixed before the
// process spawns.
type Session struct {
	opts    timeline.RenderOptions
	graph   audiograph.Graph
	manager encoderManager

	onDone func(error)
	notify sync.Once
}

// NewSession snapshots nothing itself; callers pass elements already in
// snapshot order so the graph's input numbering matches the compositor.
func NewSession(opts timeline.RenderOptions, elements []timeline.Element) *Session {
	graph := audiograph.Build(elements, audiograph.Options{
		TotalDurationMs:  opts.TotalDuration,
		ScaleTrimBySpeed: config.GetScaleTrimBySpeed(),
	})
	return &Session{
		opts:    opts,
		graph:   graph,
		manager: encoder.New(),
	}
}

// OnComplete registers fn to run exactly once when the encoder settles.
// fn receives nil on success. Must be called before Start.
func (s *Session) OnComplete(fn func(error)) {
	s.onDone = fn
}

// Graph exposes the derived audio graph, mostly for logging.
func (s *Session) Graph() audiograph.Graph {
	return s.graph
}

func (s *Session) Start() error {
	if err := s.manager.Start(s.graph.EncoderArgs(s.opts)); err != nil {
		s.notifyDone(err)
		return err
	}
	go func() {
		s.notifyDone(s.manager.Wait(context.Background()))
	}()
	return nil
}

func (s *Session) SendFrame(frame []byte) error {
	return s.manager.WriteFrame(frame)
}

func (s *Session) FinishStream() error {
	return s.manager.Finish()
}

func (s *Session) Abort() {
	s.manager.Abort()
}

func (s *Session) Wait(ctx context.Context) error {
	return s.manager.Wait(ctx)
}

func (s *Session) notifyDone(err error) {
	s.notify.Do(func() {
		if s.onDone != nil {
			s.onDone(err)
		}
	})
}
