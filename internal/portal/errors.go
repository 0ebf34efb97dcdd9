package portal

import "errors"

// Failure taxonomy for portal-driving steps. Every error is fatal to the
// fetch that hit it; the chat layer maps them to different user messages.
var (
	// ErrAuthTimeout means the login form or the post-login calendar never
	// rendered in time.
	ErrAuthTimeout = errors.New("portal authentication timed out")

	// ErrStudentNotFound means the impersonation search rendered its result
	// list but no option matched the requested full name.
	ErrStudentNotFound = errors.New("student not found on the portal")

	// ErrRenderTimeout means an expected element did not render in time for
	// reasons other than an empty search result.
	ErrRenderTimeout = errors.New("portal render timed out")

	// ErrNavigationTimeout means the calendar did not re-render after the
	// week switch.
	ErrNavigationTimeout = errors.New("week navigation timed out")
)
