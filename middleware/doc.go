// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /next-song", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# CORS Middleware

Enable cross-origin requests from the survey front end:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin)(mux),
	}

The configured origin is echoed back with credentials allowed; "*"
reflects any origin.

# Rate Limiting

One golang.org/x/time/rate token bucket per client IP:

	rl := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustedProxies)
	mux.HandleFunc("POST /submit", rl.Wrap(handler))

A zero rate returns a nil limiter, and a nil limiter's Wrap is a no-op.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Bodies are either JSON (IsJSON) or forms:

	if middleware.IsJSON(r) {
		err = middleware.ParseJSONBody(r, &req)
	}

# Client IP Extraction

	ip := middleware.ClientIP(r, cfg.TrustedProxies)

Returns the RemoteAddr host unless the peer is a trusted proxy. Behind a
trusted proxy, X-Forwarded-For is read right to left and the first hop
outside the trusted set wins; X-Real-IP is the fallback.
*/
package middleware
