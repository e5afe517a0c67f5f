package rest

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/server/auth"
)

// tokenExtractor attaches the bearer token, if any, to the request
// context. It never rejects a request; routes that need an identity ask
// the guard.
func tokenExtractor(c *fiber.Ctx) error {
	header := c.Get(common.AuthorizationHeaderName)
	if strings.HasPrefix(header, common.BearerPrefix) {
		token := strings.TrimPrefix(header, common.BearerPrefix)
		c.SetUserContext(auth.WithRawToken(c.UserContext(), token))
	}
	return c.Next()
}

// requestContext bounds the request's storage work by RequestTimeout and
// ties it to the server lifetime.
func (s *Server) requestContext(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(s.root, s.opts.RequestTimeout)
	defer cancel()

	c.SetUserContext(ctx)
	return c.Next()
}

// requestLogger logs one line per request. Bodies are not logged, they
// carry passwords.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
	)
	return nil
}

func unknownEndpoint(*fiber.Ctx) error {
	return common.ErrUnknownEndpoint
}
