package rest

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/bloglist/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

// translation is the response for a classified failure. A nil body means
// an empty response.
type translation struct {
	status int
	body   *errorBody
}

func withBody(status int, msg string) translation {
	return translation{status: status, body: &errorBody{Error: msg}}
}

// translateError maps a classified failure to its response. ok is false
// for anything that is not a *common.Error of a known kind.
func translateError(err error) (t translation, ok bool) {
	var e *common.Error
	if !errors.As(err, &e) {
		return translation{}, false
	}

	switch e.Kind {
	case common.KindDuplicateUsername:
		return withBody(http.StatusBadRequest, "expected username to be unique"), true
	case common.KindMalformedID:
		return withBody(http.StatusBadRequest, "malformed id"), true
	case common.KindValidation:
		return withBody(http.StatusBadRequest, e.Message), true
	case common.KindInvalidToken:
		return withBody(http.StatusBadRequest, "token missing or invalid"), true
	case common.KindCredentialLength:
		return withBody(http.StatusBadRequest, "User and Password length should be at least 3 chars."), true
	case common.KindMissingToken, common.KindUnauthorized:
		return withBody(http.StatusUnauthorized, "token invalid"), true
	case common.KindForbidden:
		return withBody(http.StatusUnauthorized, "not permitted to user"), true
	case common.KindInvalidCredentials:
		return withBody(http.StatusUnauthorized, "invalid username or password"), true
	case common.KindNotFound:
		return translation{status: http.StatusNotFound}, true
	case common.KindUnknownEndpoint:
		return withBody(http.StatusNotFound, "unknown endpoint"), true
	}

	return translation{}, false
}

// handleError is the fiber ErrorHandler and the outer boundary for every
// failure. Unclassified errors are logged and answered with 500.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	if t, ok := translateError(err); ok {
		s.logger.Debug(c.UserContext(), "request failed",
			"path", c.Path(),
			"kind", common.KindOf(err).String(),
			"status", t.status,
		)
		if t.body == nil {
			c.Status(t.status)
			c.Response().ResetBody()
			return nil
		}
		return c.Status(t.status).JSON(t.body)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorBody{Error: fe.Message})
	}

	s.logger.Error(c.UserContext(), "unhandled error",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "internal server error"})
}
