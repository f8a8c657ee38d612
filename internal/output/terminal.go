package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ClearScreen clears the terminal screen and moves cursor to top-left
func ClearScreen(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[2J\033[H")
}

// HideCursor hides the terminal cursor
func HideCursor(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor
func ShowCursor(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25h")
}

// RenderWatchHeader renders the status line shown above each watch-mode frame
func RenderWatchHeader(w io.Writer, now time.Time, interval time.Duration, opts TableOptions) {
	c := colorsOrDefault(opts.Colors)
	_, _ = fmt.Fprintf(w, "%s | %s | %s\n\n",
		c.Header("Last update: %s", now.Format("15:04:05")),
		c.Muted("Next refresh in %s", interval),
		c.Muted("Press Ctrl+C to exit"),
	)
}

// SignalContext returns a context cancelled on interrupt or SIGTERM.
// Call stop to release the signal handler.
func SignalContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
