package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ardentq/qtask/pkg/cookie"
	"github.com/ardentq/qtask/pkg/health"
	"github.com/ardentq/qtask/pkg/logger"
	"github.com/ardentq/qtask/pkg/queue"
	"github.com/ardentq/qtask/pkg/session"
	"github.com/ardentq/qtask/pkg/storage"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	qtask.New(
//	    qtask.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.FileServerFS(subFS)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
//
// Example:
//
//	qtask.WithErrorHandler(func(c qtask.Context, err error) error {
//	    // Log error, render error page, etc.
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
//
// Example:
//
//	qtask.WithNotFoundHandler(func(c qtask.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
//
// Example:
//
//	qtask.WithMethodNotAllowedHandler(func(c qtask.Context) error {
//	    return c.String(http.StatusMethodNotAllowed, "Method not allowed")
//	})
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	qtask.WithHealthChecks(
//	    qtask.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    qtask.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
//
// Example:
//
//	qtask.New(
//	    qtask.WithLogger("api", requestIDExtractor, userIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	qtask.New(
//	    qtask.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	qtask.New(
//	    qtask.WithCookieOptions(
//	        qtask.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        qtask.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession enables server-side session management.
// A session.Store implementation must be provided (e.g., PostgresStore).
// Sessions are loaded lazily and saved automatically before the response is written.
//
// Example:
//
//	pgStore := postgres.NewSessionStore(pool)
//	qtask.New(
//	    qtask.WithSession(pgStore,
//	        qtask.WithSessionCookieName("__sid"),
//	        qtask.WithSessionMaxAge(86400 * 30),
//	        qtask.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithTasks enables both task enqueueing and worker processing against the
// given pool. Workers are started automatically when the app runs and
// stopped gracefully during shutdown.
//
// Example:
//
//	qtask.New(
//	    qtask.WithTasks(pool,
//	        queue.WithScheduledTask("cleanup_sessions", "0 3 * * *", cleanupSessions),
//	        queue.WithMaxWorkers(10),
//	    ),
//	)
func WithTasks(pool *pgxpool.Pool, opts ...queue.Option) Option {
	return func(a *App) {
		tm, err := NewTaskManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("task manager: %v", err))
		}
		a.taskWorker = tm
		a.taskSubmitter = NewTaskSubmitter(pool)
	}
}

// WithTaskSubmitter enables task enqueueing without running any worker loop.
// Use this on an App instance that only submits work for another process to
// pick up.
//
// Example:
//
//	qtask.New(
//	    qtask.WithTaskSubmitter(pool),
//	)
func WithTaskSubmitter(pool *pgxpool.Pool) Option {
	return func(a *App) {
		a.taskSubmitter = NewTaskSubmitter(pool)
	}
}

// WithTaskWorker enables task processing without enqueueing capability on
// this App. If handlers need to enqueue follow-up tasks, use WithTasks
// instead.
//
// Example:
//
//	qtask.New(
//	    qtask.WithTaskWorker(pool,
//	        queue.WithMaxWorkers(20),
//	    ),
//	)
func WithTaskWorker(pool *pgxpool.Pool, opts ...queue.Option) Option {
	return func(a *App) {
		tm, err := NewTaskManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("task manager: %v", err))
		}
		a.taskWorker = tm
	}
}

// WithBaseDomain configures the base domain for subdomain extraction.
// This enables c.Subdomain() to work without parameters.
//
// Example:
//
//	qtask.New(
//	    qtask.WithBaseDomain("example.com"),
//	)
func WithBaseDomain(domain string) Option {
	return func(a *App) {
		a.baseDomain = domain
	}
}

// WithRoles configures role-based access control for the application.
// The permissions map defines which permissions each role grants; the
// extractor determines the current user's role from the request context.
// Roles are extracted lazily (once per request) and cached.
//
// Example:
//
//	qtask.New(
//	    qtask.WithRoles(
//	        qtask.RolePermissions{
//	            "admin":  {"users.read", "users.write"},
//	            "member": {"users.read"},
//	        },
//	        func(c qtask.Context) string {
//	            return qtask.ContextValue[string](c, roleKey{})
//	        },
//	    ),
//	)
func WithRoles(permissions RolePermissions, extractor RoleExtractorFunc) Option {
	return func(a *App) {
		a.rolePermissions = permissions
		a.roleExtractor = extractor
	}
}

// WithStorage configures file storage for the application, enabling
// c.Upload(), c.Download(), c.DeleteFile(), and c.FileURL().
//
// Example:
//
//	s3, err := storage.New(storage.Config{Bucket: "my-bucket"})
//	qtask.New(
//	    qtask.WithStorage(s3),
//	)
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}
