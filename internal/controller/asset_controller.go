package controller

import (
	"asset-management-be/internal/dto"
	"asset-management-be/internal/pkg/serverutils"
	"asset-management-be/internal/service"
	"asset-management-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type IAssetController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	MyAssets(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type assetController struct {
	service service.IAssetService
}

func NewAssetController(service service.IAssetService) IAssetController {
	return &assetController{service: service}
}

func (c *assetController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/assets", auth)
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/my_assets", c.MyAssets) // before /:id
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func parseFilter(ctx *fiber.Ctx) (*dto.AssetListFilter, error) {
	var filter dto.AssetListFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return nil, apperror.Validation("Invalid query parameters")
	}
	return &filter, nil
}

func (c *assetController) List(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), serverutils.Principal(ctx), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all assets", res))
}

func (c *assetController) MyAssets(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.MyAssets(ctx.UserContext(), serverutils.Principal(ctx), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get my assets", res))
}

func (c *assetController) Show(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Asset")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), serverutils.Principal(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show asset", res))
}

func (c *assetController) Create(ctx *fiber.Ctx) error {
	var req dto.AssetRequest
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
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create asset", res))
}

func (c *assetController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Asset")
	if err != nil {
		return err
	}

	var req dto.AssetRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Success update asset", res))
}

func (c *assetController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Asset")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.Principal(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete asset", nil))
}
