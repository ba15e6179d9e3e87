package ports

// Navigator moves the user between pages. Front ends decide what a
// redirect means (an HTTP 302, a terminal hint).
type Navigator interface {
	// Current returns the page the user is on.
	Current() string
	Redirect(target string)
}
