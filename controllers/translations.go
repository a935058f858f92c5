package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

var supportedLanguages = []string{"en", "sw"}

type translationInput struct {
	Key      string `json:"key"`
	En       string `json:"en"`
	Sw       string `json:"sw"`
	Category string `json:"category"`
}

func translationCacheKey(lang string) string {
	return fmt.Sprintf("translations:%s", lang)
}

func invalidateTranslationCache() {
	for _, lang := range supportedLanguages {
		if err := app.Cache().Do(context.Background(), app.Cache().B().Del().Key(translationCacheKey(lang)).Build()).Error(); err != nil {
			slog.Error(fmt.Sprintf("Could not invalidate translation cache '%s': %v", lang, err))
		}
	}
}

// GetTranslations returns the whole key to text map for one language. The
// map is small and read on every page load, so it is served from cache and
// only rebuilt after an admin edit.
func GetTranslations(c *fiber.Ctx) error {
	lang := c.Query("lang", "en")

	if !slices.Contains(supportedLanguages, lang) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested language is not supported."},
		})
	}

	strings := map[string]string{}

	cached, err := app.Cache().DoCache(context.Background(), app.Cache().B().Get().Key(translationCacheKey(lang)).Cache(), 5*time.Minute).ToString()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not get cached translations: %v", err))
	}

	if len(cached) > 0 {
		if err := json.Unmarshal([]byte(cached), &strings); err == nil {
			return c.Status(fiber.StatusOK).JSON(&strings)
		}

		slog.Error("Could not decode cached translations.")
	}

	translations := []models.Translation{}
	if err := app.DB().Find(&translations).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting translations: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not get translations."},
		})
	}

	for _, t := range translations {
		if lang == "sw" {
			strings[t.Key] = t.Sw
			continue
		}

		strings[t.Key] = t.En
	}

	encoded, err := json.Marshal(strings)
	if err != nil {
		slog.Error(fmt.Sprintf("Could not serialize translations for cache: %v", err))
	} else if err := app.Cache().Do(context.Background(), app.Cache().B().Set().Key(translationCacheKey(lang)).Value(string(encoded)).Ex(time.Hour).Build()).Error(); err != nil {
		slog.Error(fmt.Sprintf("Could not save translations to cache: %v", err))
	}

	return c.Status(fiber.StatusOK).JSON(&strings)
}

func PostTranslation(c *fiber.Ctx) error {
	input := &translationInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid translation data."},
		})
	}

	errs := validateTranslation(input)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	translation := &models.Translation{
		Key:      utils.CleanString(input.Key),
		En:       input.En,
		Sw:       input.Sw,
		Category: utils.CleanString(input.Category),
	}
	if err := app.DB().Create(&translation).Error; err != nil {
		slog.Error(fmt.Sprintf("Error creating translation: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not create translation."},
		})
	}

	invalidateTranslationCache()

	return c.Status(fiber.StatusCreated).JSON(&translation)
}

func UpdateTranslation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested translation is invalid."},
		})
	}

	input := &translationInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid translation data."},
		})
	}

	errs := validateTranslation(input)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	translation := &models.Translation{ID: id}
	if err := app.DB().Where(&translation).First(&translation).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"error": []string{"The requested translation does not exist."},
		})
	}

	if err := app.DB().Model(&translation).Updates(&models.Translation{
		Key:      utils.CleanString(input.Key),
		En:       input.En,
		Sw:       input.Sw,
		Category: utils.CleanString(input.Category),
	}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error updating translation: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not update translation."},
		})
	}

	invalidateTranslationCache()

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func DeleteTranslation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested translation is invalid."},
		})
	}

	if err := app.DB().Delete(&models.Translation{ID: id}).Error; err != nil {
		slog.Error(fmt.Sprintf("Error deleting translation: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not delete translation."},
		})
	}

	invalidateTranslationCache()

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func validateTranslation(input *translationInput) fiber.Map {
	errs := fiber.Map{}

	if len(utils.CleanString(input.Key)) < 1 {
		errs = utils.AddError(errs, "key", "Please, provide a translation key.")
	}

	if len(input.En) < 1 {
		errs = utils.AddError(errs, "en", "Please, provide the English text.")
	}

	if len(input.Sw) < 1 {
		errs = utils.AddError(errs, "sw", "Please, provide the Swahili text.")
	}

	if len(utils.CleanString(input.Category)) < 1 {
		errs = utils.AddError(errs, "category", "Please, provide a category.")
	}

	return errs
}
