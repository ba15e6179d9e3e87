package navigation

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal tells a command-line user where to go next. Pages are command
// paths such as "/tasks/list"; a redirect to "/login" prints the command to
// run.
type Terminal struct {
	*Recorder
	mu      sync.Mutex
	out     io.Writer
	program string
}

func NewTerminal(out io.Writer, program, current string) *Terminal {
	return &Terminal{Recorder: NewRecorder(current), out: out, program: program}
}

// Redirect prints the hint once per target, however many calls fail.
func (t *Terminal) Redirect(target string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Recorder.Target() == target {
		return
	}
	t.Recorder.Redirect(target)
	cmd := strings.TrimSpace(strings.ReplaceAll(strings.Trim(target, "/"), "/", " "))
	fmt.Fprintf(t.out, "You are not signed in. Run `%s %s` to continue.\n", t.program, cmd)
}
