package display

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agent-platform/worldclock/internal/ui"
)

// Watch redraws the board for every instant received on ticks, starting with
// first. It blocks until ctx is cancelled or ticks is closed.
func Watch(ctx context.Context, w io.Writer, first time.Time, ticks <-chan time.Time, board func(time.Time) Board) {
	frame := func(now time.Time) {
		fmt.Fprint(w, ui.ClearScreen+ui.CursorHome)
		Render(w, board(now))
		fmt.Fprintf(w, "%s\n", ui.Dimf("Press Ctrl+C to exit"))
	}

	frame(first)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(w, ui.ClearScreen+ui.CursorHome)
			fmt.Fprintln(w, "Goodbye!")
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			frame(now)
		}
	}
}
