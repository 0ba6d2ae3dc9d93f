package controller

import (
	"asset-management-be/internal/dto"
	"asset-management-be/internal/pkg/serverutils"
	"asset-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICategoryController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type categoryController struct {
	service service.ICategoryService
}

func NewCategoryController(service service.ICategoryService) ICategoryController {
	return &categoryController{service: service}
}

func (c *categoryController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/categories", auth)
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *categoryController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), serverutils.Principal(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all categories", res))
}

func (c *categoryController) Show(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Category")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), serverutils.Principal(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show category", res))
}

func (c *categoryController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.Principal(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create category", res))
}

func (c *categoryController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Category")
	if err != nil {
		return err
	}

	var req dto.UpdateCategoryRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Success update category", res))
}

func (c *categoryController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Category")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.Principal(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete category", nil))
}
