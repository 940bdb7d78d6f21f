package mocks

import "hostly/infras/otel"

type noopScope struct{}

func (noopScope) End()                         {}
func (noopScope) TraceError(error)             {}
func (noopScope) TraceIfError(error)           {}
func (noopScope) AddEvent(string)              {}
func (noopScope) SetAttribute(string, any)     {}
func (noopScope) SetAttributes(map[string]any) {}

func NewScope() otel.Scope {
	return noopScope{}
}

type recordingScope struct {
	noopScope

	recorder *Recorder
}

func (s *recordingScope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	s.recorder.errors = append(s.recorder.errors, err)
	s.recorder.mu.Unlock()
}

func (s *recordingScope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *recordingScope) AddEvent(name string) {
	s.recorder.mu.Lock()
	s.recorder.events = append(s.recorder.events, name)
	s.recorder.mu.Unlock()
}
