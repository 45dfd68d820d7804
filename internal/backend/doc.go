// Package backend is the HTTP client for the external property API. The
// site never persists or authenticates anything itself: reads and writes go
// through this client, and the bearer token obtained from Login is forwarded
// on every privileged call.
//
//	client, err := backend.New("https://api.example.com",
//	    backend.WithRetries(3),
//	    backend.WithLogger(logger),
//	)
//	props, err := client.Properties.List(ctx)
package backend
