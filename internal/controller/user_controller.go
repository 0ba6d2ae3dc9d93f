package controller

import (
	"asset-management-be/internal/dto"
	"asset-management-be/internal/pkg/serverutils"
	"asset-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Me(ctx *fiber.Ctx) error
	UpdateMe(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	me := r.Group("/me", auth)
	me.Get("/", c.Me)
	me.Put("/", c.UpdateMe)

	users := r.Group("/users", auth)
	users.Get("/", c.List)
	users.Get("/:id", c.Show)
	users.Put("/:id", c.Update)
	users.Delete("/:id", c.Delete)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	res, err := c.service.Me(ctx.UserContext(), serverutils.Principal(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *userController) UpdateMe(ctx *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateMe(ctx.UserContext(), serverutils.Principal(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update profile", res))
}

func (c *userController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), serverutils.Principal(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all users", res))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "User")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), serverutils.Principal(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show user", res))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "User")
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), serverutils.Principal(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update user", res))
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "User")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.Principal(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete user", nil))
}
