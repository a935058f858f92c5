package controllers

import (
	"fmt"
	"log/slog"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/helpers"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type resourceInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type serviceInput struct {
	Organization string  `json:"organization"`
	Location     string  `json:"location"`
	Phone        string  `json:"phone"`
	Website      *string `json:"website"`
	Description  *string `json:"description"`
}

func GetAllResources(c *fiber.Ctx) error {
	resources := []models.Resource{}
	query := app.DB().Model(&models.Resource{})

	if category := c.Query("category"); len(category) > 0 && utils.IsValidSearch(category) {
		query = query.Where(&models.Resource{Category: category})
	}

	opts := helpers.PaginatedItemOpts{RouteName: "api.resources.index", TableAlias: helpers.GetModelSchema(&models.Resource{}).Table}

	return helpers.PaginateQuery(resources, query, c, opts)
}

func PostResource(c *fiber.Ctx) error {
	input := &resourceInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid resource data."},
		})
	}

	errs := validateResource(input)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	resource := &models.Resource{
		Title:    utils.CleanString(input.Title),
		Content:  utils.CleanString(input.Content),
		Category: utils.CleanString(input.Category),
	}
	if err := app.DB().Create(&resource).Error; err != nil {
		slog.Error(fmt.Sprintf("Error creating resource: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not create resource."},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(&resource)
}

func UpdateResource(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested resource is invalid."},
		})
	}

	input := &resourceInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid resource data."},
		})
	}

	errs := validateResource(input)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	resource := &models.Resource{ID: id}
	if err := app.DB().Where(&resource).First(&resource).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"error": []string{"The requested resource does not exist."},
		})
	}

	if err := app.DB().Model(&resource).Updates(&models.Resource{
		Title:    utils.CleanString(input.Title),
		Content:  utils.CleanString(input.Content),
		Category: utils.CleanString(input.Category),
	}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error updating resource: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not update resource."},
		})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func DeleteResource(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested resource is invalid."},
		})
	}

	if err := app.DB().Delete(&models.Resource{ID: id}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error deleting resource: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not delete resource."},
		})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func validateResource(input *resourceInput) fiber.Map {
	errs := fiber.Map{}

	if len(utils.CleanString(input.Title)) < 1 {
		errs = utils.AddError(errs, "title", "Please, provide a title.")
	}

	if len(utils.CleanString(input.Content)) < 1 {
		errs = utils.AddError(errs, "content", "Please, provide the content.")
	}

	if len(utils.CleanString(input.Category)) < 1 {
		errs = utils.AddError(errs, "category", "Please, provide a category.")
	}

	return errs
}

func GetAllServices(c *fiber.Ctx) error {
	services := []models.Service{}
	query := app.DB().Model(&models.Service{})

	if location := c.Query("location"); len(location) > 0 && utils.IsValidSearch(location) {
		query = query.Where("lower(location) LIKE lower(?)", "%"+location+"%")
	}

	opts := helpers.PaginatedItemOpts{RouteName: "api.services.index", TableAlias: helpers.GetModelSchema(&models.Service{}).Table}

	return helpers.PaginateQuery(services, query, c, opts)
}

func PostService(c *fiber.Ctx) error {
	input := &serviceInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid service data."},
		})
	}

	errs := validateService(input)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	service := &models.Service{
		Organization: utils.CleanString(input.Organization),
		Location:     utils.CleanString(input.Location),
		Phone:        utils.CleanString(input.Phone),
		Website:      input.Website,
		Description:  input.Description,
	}
	if err := app.DB().Create(&service).Error; err != nil {
		slog.Error(fmt.Sprintf("Error creating service: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not create service."},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(&service)
}

func UpdateService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested service is invalid."},
		})
	}

	input := &serviceInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid service data."},
		})
	}

	errs := validateService(input)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	service := &models.Service{ID: id}
	if err := app.DB().Where(&service).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"error": []string{"The requested service does not exist."},
		})
	}

	if err := app.DB().Model(&service).Updates(&models.Service{
		Organization: utils.CleanString(input.Organization),
		Location:     utils.CleanString(input.Location),
		Phone:        utils.CleanString(input.Phone),
		Website:      input.Website,
		Description:  input.Description,
	}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error updating service: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not update service."},
		})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func DeleteService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested service is invalid."},
		})
	}

	if err := app.DB().Delete(&models.Service{ID: id}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error deleting service: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not delete service."},
		})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func validateService(input *serviceInput) fiber.Map {
	errs := fiber.Map{}

	if len(utils.CleanString(input.Organization)) < 1 {
		errs = utils.AddError(errs, "organization", "Please, provide the organization name.")
	}

	if len(utils.CleanString(input.Location)) < 1 {
		errs = utils.AddError(errs, "location", "Please, provide a location.")
	}

	if len(utils.CleanString(input.Phone)) < 1 {
		errs = utils.AddError(errs, "phone", "Please, provide a contact phone.")
	}

	if input.Website != nil && len(*input.Website) > 0 {
		if _, err := utils.GetDomainHostname(*input.Website); err != nil {
			errs = utils.AddError(errs, "website", "Please, provide a valid website URL.")
		}
	}

	return errs
}
