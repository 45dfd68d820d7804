package backend

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

type oneShotKey struct{}

// idempotent reports whether a request can be repeated without creating a
// second resource on the backend.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// withOneShot marks ctx so that checkRetry only retries the request when it
// never reached the backend.
func withOneShot(ctx context.Context) context.Context {
	return context.WithValue(ctx, oneShotKey{}, true)
}

// checkRetry applies retryablehttp's default policy to idempotent requests.
// A non-idempotent request may already have been committed once it got a
// response, so it is retried only after a failed dial.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if oneShot, _ := ctx.Value(oneShotKey{}).(bool); !oneShot {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	var opErr *net.OpError
	if err != nil && errors.As(err, &opErr) && opErr.Op == "dial" {
		return true, nil
	}
	return false, nil
}
