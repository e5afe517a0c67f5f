package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/server/auth"
	"github.com/dmitrijs2005/bloglist/internal/server/services"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// decodeBody reads a JSON object body into v. An empty body leaves v at
// its zero value.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return common.ValidationError("malformed JSON body", err)
	}
	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) listBlogs(c *fiber.Ctx) error {
	blogs, err := s.blogs.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(blogs)
}

// createBlog validates the body before asking for an identity, so an
// incomplete submission is rejected with 400 even without a token.
func (s *Server) createBlog(c *fiber.Ctx) error {
	var in services.BlogInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	ctx, user, err := s.guard.RequireIdentity(c.UserContext())
	if err != nil {
		return err
	}
	c.SetUserContext(ctx)

	blog, err := s.blogs.Create(ctx, user, in)
	if err != nil {
		return err
	}

	userID, _ := auth.UserIDFrom(ctx)
	s.logger.Info(ctx, "Blog created", "id", blog.ID, "user_id", userID)
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (s *Server) updateBlog(c *fiber.Ctx) error {
	var in services.LikesInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	blog, err := s.blogs.UpdateLikes(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(blog)
}

func (s *Server) deleteBlog(c *fiber.Ctx) error {
	ctx, user, err := s.guard.RequireIdentity(c.UserContext())
	if err != nil {
		return err
	}
	c.SetUserContext(ctx)

	id := c.Params("id")
	if err := s.blogs.Delete(ctx, user, id); err != nil {
		return err
	}

	userID, _ := auth.UserIDFrom(ctx)
	s.logger.Info(ctx, "Blog deleted", "id", id, "user_id", userID)
	c.Status(fiber.StatusNoContent)
	return nil
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	user, err := s.users.Register(c.UserContext(), req.Username, req.Name, req.Password)
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "Registered", "username", user.UserName)
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	res, err := s.users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
