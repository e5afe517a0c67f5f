// Package rest is the HTTP/JSON transport of the bloglist server.
package rest

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/dmitrijs2005/bloglist/internal/logging"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/dmitrijs2005/bloglist/internal/server/services"
)

// UserService is the account logic the handlers need.
type UserService interface {
	Register(ctx context.Context, username, name, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	List(ctx context.Context) ([]*models.User, error)
}

// BlogService is the blog logic the handlers need.
type BlogService interface {
	List(ctx context.Context) ([]*models.Blog, error)
	Create(ctx context.Context, owner *models.User, in services.BlogInput) (*models.Blog, error)
	UpdateLikes(ctx context.Context, id string, in services.LikesInput) (*models.Blog, error)
	Delete(ctx context.Context, caller *models.User, id string) error
}

// IdentityGuard resolves the request token to a user.
type IdentityGuard interface {
	RequireIdentity(ctx context.Context) (context.Context, *models.User, error)
}

// Options configures a Server.
type Options struct {
	Address         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// AllowOrigins is the comma-separated CORS origin list; empty means "*".
	AllowOrigins string
}

type Server struct {
	opts   Options
	app    *fiber.App
	logger logging.Logger
	users  UserService
	blogs  BlogService
	guard  IdentityGuard

	// root is the parent of every request context.
	root context.Context
}

func NewServer(opts Options, l logging.Logger, us UserService, bs BlogService, g IdentityGuard) *Server {
	s := &Server{
		opts:   opts,
		logger: l.With("module", "rest_server"),
		users:  us,
		blogs:  bs,
		guard:  g,
		root:   context.Background(),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()

	return s
}

// App exposes the underlying fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(s.requestLogger, cors.New(cors.Config{
		AllowOrigins: s.opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}), s.requestContext, tokenExtractor)

	s.app.Get("/healthz", s.health)

	s.mount(s.app)

	api := s.app.Group("/api")
	s.mount(api)
	// older frontends address the blog collection in the singular
	s.mountBlogs(api.Group("/blog"))

	s.app.Use(unknownEndpoint)
}

func (s *Server) mount(r fiber.Router) {
	s.mountBlogs(r.Group("/blogs"))

	r.Get("/users", s.listUsers)
	r.Post("/users", s.createUser)

	r.Post("/login", s.login)
}

func (s *Server) mountBlogs(r fiber.Router) {
	r.Get("/", s.listBlogs)
	r.Post("/", s.createBlog)
	r.Put("/:id", s.updateBlog)
	r.Delete("/:id", s.deleteBlog)
}

// Run serves until ctx is canceled, then drains in-flight requests for at
// most ShutdownTimeout. Requests still running after that are canceled
// through their context.
func (s *Server) Run(ctx context.Context) error {
	rootCtx, cancelRequests := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRequests()
	s.root = rootCtx

	// announces address
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		errCh <- s.app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	shutdownErr := s.app.ShutdownWithContext(shutdownCtx)
	cancelRequests()

	// Serve may not have registered the listener yet.
	_ = ln.Close()

	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return shutdownErr
}
