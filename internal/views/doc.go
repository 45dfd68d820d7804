// Package views holds the server-side state behind each page of the site.
// A view loads its data from the backend when mounted, subscribes to the
// change topic it cares about, and refreshes itself when notified. Views
// never talk to each other directly: the hub is the only channel between
// them.
package views
