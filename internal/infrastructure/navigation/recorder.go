// Package navigation provides ports.Navigator implementations that do not
// depend on a specific front end.
package navigation

import "sync"

// Recorder remembers the current page and the last redirect target.
// Front ends read Target after a call to decide what to render.
type Recorder struct {
	mu      sync.Mutex
	current string
	target  string
}

func NewRecorder(current string) *Recorder {
	return &Recorder{current: current}
}

func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Redirect records target and makes it the current page.
func (r *Recorder) Redirect(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
	r.current = target
}

// Target returns the last redirect target, or "" if none happened.
func (r *Recorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Redirected reports whether any redirect was requested.
func (r *Recorder) Redirected() bool {
	return r.Target() != ""
}
