// Package middlewares provides HTTP middleware for Qtask applications.
//
// This package includes, among others, the following middlewares:
//
// # Request ID
//
// RequestID middleware assigns a unique ID to each request for tracing and debugging.
// It checks incoming headers for existing IDs or generates new ones using ULID.
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// Use RequestIDExtractor() with WithLogger for automatic request_id in all logs:
//
//	app := qtask.New(
//	    qtask.WithLogger("api", qtask.RequestIDExtractor()),
//	    qtask.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover middleware catches panics and converts them to typed errors.
// The PanicError can be handled by the global ErrorHandler.
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.Recover(),
//	    ),
//	    qtask.WithErrorHandler(func(c qtask.Context, err error) error {
//	        if qtask.IsPanicError(err) {
//	            pe, _ := qtask.AsPanicError(err)
//	            c.LogError("panic", "value", pe.Value, "stack", string(pe.Stack))
//	            return c.Error(500, "Internal Server Error")
//	        }
//	        return c.Error(500, err.Error())
//	    }),
//	)
//
// # Timeout
//
// Timeout middleware enforces request timeouts and returns typed TimeoutError.
// Note: The handler goroutine continues after timeout; use context.Done() for early termination.
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.Timeout(5*time.Second),
//	    ),
//	    qtask.WithErrorHandler(func(c qtask.Context, err error) error {
//	        if qtask.IsTimeoutError(err) {
//	            return c.Error(504, "Gateway Timeout")
//	        }
//	        return c.Error(500, err.Error())
//	    }),
//	)
//
// # CORS
//
// CORS middleware handles Cross-Origin Resource Sharing headers.
// It processes preflight (OPTIONS) requests and adds CORS headers to all responses.
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.CORS(),  // Allow all origins (default)
//	    ),
//	)
//
// Configure specific origins and credentials:
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.CORS(
//	            middlewares.WithAllowOrigins("https://app.example.com"),
//	            middlewares.WithAllowCredentials(),
//	        ),
//	    ),
//	)
//
// Use dynamic origin validation:
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.CORS(
//	            middlewares.WithAllowOriginFunc(func(origin string) bool {
//	                // Custom logic to validate origin
//	                return strings.HasSuffix(origin, ".example.com")
//	            }),
//	        ),
//	    ),
//	)
//
// # JWT
//
// JWT middleware extracts a JWT from the request, validates it, and stores
// the parsed claims in the context. It uses generics so handlers can work
// with custom claims types.
//
// Basic usage with standard claims:
//
//	jwtSvc, _ := jwt.NewFromString(os.Getenv("JWT_SECRET"))
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.JWT[jwt.StandardClaims](jwtSvc),
//	    ),
//	)
//
// Access claims in a handler:
//
//	func (h *Handler) Routes(r qtask.Router) {
//	    r.GET("/me", h.me)
//	}
//
//	func (h *Handler) me(c qtask.Context) error {
//	    claims := qtask.GetJWTClaims[jwt.StandardClaims](c)
//	    return c.JSON(200, map[string]string{"user": claims.Subject})
//	}
//
// Custom claims with additional fields:
//
//	type MyClaims struct {
//	    jwt.StandardClaims
//	    Role   string `json:"role"`
//	    TeamID string `json:"team_id"`
//	}
//
//	func (c MyClaims) Valid() error { return c.StandardClaims.Valid() }
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.JWT[MyClaims](jwtSvc),
//	    ),
//	)
//
//	// In handler:
//	claims := qtask.GetJWTClaims[MyClaims](c)
//	if claims.Role == "admin" { ... }
//
// Custom token extractor (e.g., from query parameter):
//
//	app := qtask.New(
//	    qtask.WithMiddleware(
//	        middlewares.JWT[jwt.StandardClaims](jwtSvc,
//	            middlewares.WithJWTExtractor(
//	                qtask.NewExtractor(qtask.FromQuery("token")),
//	            ),
//	        ),
//	    ),
//	)
//
// # Recommended Middleware Order
//
// Apply middlewares in this order for best results:
//
//	qtask.WithMiddleware(
//	    middlewares.CORS(),       // First: handle preflight before other processing
//	    middlewares.RequestID(),  // Second: assign ID for all subsequent logging
//	    middlewares.Recover(),    // Third: catch panics from timeout and handlers
//	    middlewares.Timeout(5*time.Second), // Fourth: enforce timeout
//	)
//
// # Complete Example
//
//	import (
//	    "github.com/ardentq/qtask"
//	    "github.com/ardentq/qtask/middlewares"
//	)
//
//	app := qtask.New(
//	    qtask.WithLogger("api", qtask.RequestIDExtractor()),
//	    qtask.WithMiddleware(
//	        middlewares.CORS(),
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(5*time.Second),
//	    ),
//	    qtask.WithErrorHandler(func(c qtask.Context, err error) error {
//	        switch {
//	        case qtask.IsPanicError(err):
//	            return c.Error(500, "Internal Server Error")
//	        case qtask.IsTimeoutError(err):
//	            return c.Error(504, "Gateway Timeout")
//	        default:
//	            return c.Error(500, err.Error())
//	        }
//	    }),
//	)
package middlewares
