package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// NotificationBadge is the admin header badge, polled by htmx every 30s.
func NotificationBadge(unread int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class := "badge"
		if unread > 0 {
			class += " badge-unread"
		}
		_, err := fmt.Fprintf(w,
			`<span id="notification-badge" class="%s" hx-get="/admin/fragments/notifications" hx-trigger="every 30s" hx-swap="outerHTML">%d</span>`,
			templ.EscapeString(class), unread)
		return err
	})
}
