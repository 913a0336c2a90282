package test

import (
	"sync"

	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks instead of running them, so tests can
// drive OnStart/OnStop directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub closes Called on the first Shutdown, letting tests wait for
// the notification without racing repeated invocations.
type ShutdownerStub struct {
	Called chan struct{}

	once sync.Once
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		s.once.Do(func() { close(s.Called) })
	}
	return nil
}
