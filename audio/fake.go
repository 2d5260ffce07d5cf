package audio

import "sync"

// FakeServer is an in-memory Server for tests and dry runs.
type FakeServer struct {
	mu            sync.Mutex
	sources       []SourceInfo
	defaultSource string
	err           error
	calls         int
	closed        bool
}

func NewFakeServer(defaultSource string, sources ...SourceInfo) *FakeServer {
	return &FakeServer{sources: sources, defaultSource: defaultSource}
}

func (f *FakeServer) Sources() ([]SourceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]SourceInfo, len(f.sources))
	copy(out, f.sources)
	return out, nil
}

func (f *FakeServer) DefaultSourceName() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.defaultSource, nil
}

func (f *FakeServer) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// SetSources replaces the source list returned by later calls.
func (f *FakeServer) SetSources(sources ...SourceInfo) {
	f.mu.Lock()
	f.sources = sources
	f.mu.Unlock()
}

// SetError makes every later call fail with err.
func (f *FakeServer) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Calls returns the number of server round trips made.
func (f *FakeServer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeServer) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
