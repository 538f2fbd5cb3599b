package http

import (
	"net/http"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	"github.com/AlibekovAA/dh-notes/internal/common/httpmetrics"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware every route shares.
// Listed outermost first.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		SecurityHeadersMiddleware,
		TraceIDMiddleware,
		RecoveryMiddleware(log),
		MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize),
		httpmetrics.New().Wrap,
	}

	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}
