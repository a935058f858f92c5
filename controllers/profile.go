package controllers

import (
	"fmt"
	"log/slog"
	"slices"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/helpers"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/gofiber/fiber/v2"
)

type profileInput struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type preferencesInput struct {
	Language                  *string `json:"language"`
	Theme                     *string `json:"theme"`
	EmailNotifications        *bool   `json:"email_notifications"`
	ReportStatusNotifications *bool   `json:"report_status_notifications"`
	ResourceUpdates           *bool   `json:"resource_updates"`
	PrivacyLevel              *string `json:"privacy_level"`
}

var (
	validThemes        = []string{"system", "light", "dark"}
	validPrivacyLevels = []string{"low", "medium", "high"}
)

func GetProfile(c *fiber.Ctx) error {
	userID := helpers.GetUserID(c)

	user := &models.User{ID: userID}
	if err := app.DB().Where(&user).First(&user).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting user: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not get profile."},
		})
	}

	return c.Status(fiber.StatusOK).JSON(&user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := helpers.GetUserID(c)

	input := &profileInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid profile data."},
		})
	}

	errs := fiber.Map{}

	if input.DisplayName != nil && len(*input.DisplayName) > 100 {
		errs = utils.AddError(errs, "display_name", "Your display name is longer than the length allowed.")
	}

	if input.AvatarURL != nil && len(*input.AvatarURL) > 0 {
		if _, err := utils.GetDomainHostname(*input.AvatarURL); err != nil {
			errs = utils.AddError(errs, "avatar_url", "Please, provide a valid avatar URL.")
		}
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	if err := app.DB().Where(&models.User{ID: userID}).Updates(&models.User{
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
	}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error updating profile: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not update profile."},
		})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func GetPreferences(c *fiber.Ctx) error {
	userID := helpers.GetUserID(c)

	prefs := &models.UserPreference{UserID: userID}
	if err := app.DB().Where(&models.UserPreference{UserID: userID}).FirstOrCreate(&prefs).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting preferences: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not get preferences."},
		})
	}

	return c.Status(fiber.StatusOK).JSON(&prefs)
}

func UpdatePreferences(c *fiber.Ctx) error {
	userID := helpers.GetUserID(c)

	input := &preferencesInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid preferences data."},
		})
	}

	errs := fiber.Map{}

	if input.Language != nil && !slices.Contains(supportedLanguages, *input.Language) {
		errs = utils.AddError(errs, "language", "The requested language is not supported.")
	}

	if input.Theme != nil && !slices.Contains(validThemes, *input.Theme) {
		errs = utils.AddError(errs, "theme", "The requested theme is invalid.")
	}

	if input.PrivacyLevel != nil && !slices.Contains(validPrivacyLevels, *input.PrivacyLevel) {
		errs = utils.AddError(errs, "privacy_level", "The requested privacy level is invalid.")
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	prefs := &models.UserPreference{UserID: userID}
	if err := app.DB().Where(&models.UserPreference{UserID: userID}).FirstOrCreate(&prefs).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting preferences: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not update preferences."},
		})
	}

	updates := map[string]interface{}{}

	if input.Language != nil {
		updates["language"] = *input.Language
	}

	if input.Theme != nil {
		updates["theme"] = *input.Theme
	}

	if input.EmailNotifications != nil {
		updates["email_notifications"] = *input.EmailNotifications
	}

	if input.ReportStatusNotifications != nil {
		updates["report_status_notifications"] = *input.ReportStatusNotifications
	}

	if input.ResourceUpdates != nil {
		updates["resource_updates"] = *input.ResourceUpdates
	}

	if input.PrivacyLevel != nil {
		updates["privacy_level"] = *input.PrivacyLevel
	}

	if len(updates) > 0 {
		if err := app.DB().Model(&prefs).Updates(updates).Error; err != nil {
			slog.Error(fmt.Sprintf("Error updating preferences: %v", err))
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{"Could not update preferences."},
			})
		}
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// GetMyReports lists the reports the signed-in user chose to link to their
// account at submission time.
func GetMyReports(c *fiber.Ctx) error {
	userID := helpers.GetUserID(c)

	reports := []models.Report{}
	query := app.DB().Model(&models.Report{}).Where(&models.Report{UserID: &userID})
	opts := helpers.PaginatedItemOpts{RouteName: "api.profile.reports", TableAlias: helpers.GetModelSchema(&models.Report{}).Table}

	return helpers.PaginateQuery(reports, query, c, opts)
}
