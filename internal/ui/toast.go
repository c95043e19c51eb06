package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/desertthunder/staybook/internal/wishlist"
)

// Toaster prints store notifications as single styled lines.
type Toaster struct {
	mu sync.Mutex
	w  io.Writer
}

// NewToaster writes to w, or stderr when w is nil.
func NewToaster(w io.Writer) *Toaster {
	if w == nil {
		w = os.Stderr
	}
	return &Toaster{w: w}
}

// Notify implements [wishlist.Notifier].
func (t *Toaster) Notify(n wishlist.Notification) {
	var title string
	switch n.Level {
	case wishlist.LevelSuccess:
		title = styles.ok.Render("✓ " + n.Title)
	case wishlist.LevelError:
		title = styles.err.Render("✗ " + n.Title)
	default:
		title = styles.warn.Render("• " + n.Title)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s  %s\n", title, n.Message)
}
