package tensor

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownBackend is returned when selecting a backend that was never registered.
	ErrUnknownBackend = errors.New("tensor: unknown backend")
	// ErrNoBackend is returned when creating a tensor before any backend is active.
	ErrNoBackend = errors.New("tensor: no active backend")
	// ErrDisposed is the panic value for operations on a disposed tensor.
	ErrDisposed = errors.New("tensor: tensor is disposed")
)

// Engine owns backend selection and the bookkeeping of live tensors.
//
// Exactly one backend is active at a time. Tensors are created on the active
// backend and stay bound to it; operations on a tensor always run on the
// backend that created it.
type Engine struct {
	mu        sync.Mutex
	factories map[string]Factory
	backends  map[string]Backend
	active    string

	live   map[*RawTensor]struct{}
	kept   map[*RawTensor]struct{}
	scopes [][]*RawTensor

	// runMu serializes exclusive users (see Use).
	runMu sync.Mutex
}

// NewEngine creates an engine with no registered backends.
func NewEngine() *Engine {
	return &Engine{
		factories: make(map[string]Factory),
		backends:  make(map[string]Backend),
		live:      make(map[*RawTensor]struct{}),
		kept:      make(map[*RawTensor]struct{}),
	}
}

// Register adds a backend factory under name. The factory runs on first selection.
// Registering an existing name replaces it and drops any cached instance.
func (e *Engine) Register(name string, f Factory) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.backends[name]; ok {
		releaseBackend(b)
		delete(e.backends, name)
		if e.active == name {
			e.active = ""
		}
	}
	e.factories[name] = f
}

// RegisterBackend adds an already constructed backend under name.
func (e *Engine) RegisterBackend(name string, b Backend) {
	e.Register(name, func() (Backend, error) { return b, nil })
}

// Backends returns the registered backend names in sorted order.
func (e *Engine) Backends() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.factories))
	for name := range e.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetBackend makes name the active backend, constructing it if needed.
// On failure the previously active backend stays active.
func (e *Engine) SetBackend(name string) (Backend, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.backends[name]; ok {
		e.active = name
		return b, nil
	}

	f, ok := e.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	b, err := f()
	if err != nil {
		return nil, fmt.Errorf("tensor: init backend %q: %w", name, err)
	}
	e.backends[name] = b
	e.active = name
	return b, nil
}

// Backend returns the active backend, or nil if none was selected.
func (e *Engine) Backend() Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backends[e.active]
}

// BackendName returns the name of the active backend ("" if none).
func (e *Engine) BackendName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Use selects name and holds the engine exclusively until the returned
// release function is called. Callers that interleave benchmark runs block
// here instead of racing on the active backend.
func (e *Engine) Use(name string) (release func(), err error) {
	e.runMu.Lock()
	if _, err := e.SetBackend(name); err != nil {
		e.runMu.Unlock()
		return nil, err
	}

	var once sync.Once
	return func() { once.Do(e.runMu.Unlock) }, nil
}

// NumTensors returns the number of tensors created and not yet disposed.
func (e *Engine) NumTensors() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Tidy runs fn and disposes every tensor created while it runs, except those
// passed to Keep. Disposal also happens when fn panics.
func (e *Engine) Tidy(fn func() error) error {
	e.mu.Lock()
	e.scopes = append(e.scopes, nil)
	depth := len(e.scopes)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		created := e.scopes[depth-1]
		e.scopes = e.scopes[:depth-1]
		for _, raw := range created {
			if _, keep := e.kept[raw]; keep {
				continue
			}
			e.disposeLocked(raw)
		}
		e.mu.Unlock()
	}()

	return fn()
}

// Close releases every constructed backend that holds native resources.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for name, b := range e.backends {
		releaseBackend(b)
		delete(e.backends, name)
	}
	e.active = ""
}

// track registers raw as live and records it in the innermost scope.
func (e *Engine) track(raw *RawTensor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live[raw] = struct{}{}
	if n := len(e.scopes); n > 0 {
		e.scopes[n-1] = append(e.scopes[n-1], raw)
	}
}

func (e *Engine) keep(raw *RawTensor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.live[raw]; ok {
		e.kept[raw] = struct{}{}
	}
}

func (e *Engine) dispose(raw *RawTensor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposeLocked(raw)
}

func (e *Engine) disposeLocked(raw *RawTensor) {
	if _, ok := e.live[raw]; !ok {
		return
	}
	delete(e.live, raw)
	delete(e.kept, raw)
	raw.Release()
}

func (e *Engine) isLive(raw *RawTensor) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.live[raw]
	return ok
}

func releaseBackend(b Backend) {
	if r, ok := b.(Releaser); ok {
		r.Release()
	}
}
