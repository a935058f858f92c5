package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

func UserExists(id uuid.UUID, email string) bool {
	if !utils.IsValidUuid(id) || !utils.IsValidEmail(email) {
		return false
	}

	cachedUser, err := app.Cache().DoCache(context.Background(), app.Cache().B().Get().Key(fmt.Sprintf("user:%s", id.String())).Cache(), 5*time.Minute).ToString()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not get cached user: %v", err))
	}

	if len(cachedUser) > 0 && cachedUser == email {
		return true
	}

	user := &models.User{}
	if err := app.DB().Where(&models.User{ID: id, Email: email}).First(&user).Error; err != nil {
		return false
	}

	exists := utils.IsValidUuid(user.ID)

	if exists {
		if err := app.Cache().Do(context.Background(), app.Cache().B().Set().Key(fmt.Sprintf("user:%s", id.String())).Value(user.Email).Ex(time.Hour).Build()).Error(); err != nil {
			slog.Error(fmt.Sprintf("Could not save user to cache: %v", err))
		}
	}

	return exists
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	jwe := c.Locals(utils.AccessTokenContextKey()).(string)
	claims, err := utils.ParseJWEClaims(jwe)
	if err != nil {
		panic(err)
	}

	return uuid.MustParse(claims.User.ID.String())
}

// GetOptionalUserID resolves the caller's account when a valid token rides
// along on an otherwise-public request, so a signed-in submitter can link a
// report to their profile. The token goes through the same issuer, window
// and revocation checks as on protected routes; anything less gets nil, the
// report stays anonymous and the request proceeds.
func GetOptionalUserID(c *fiber.Ctx) *uuid.UUID {
	header := c.Get("Authorization")
	if len(header) <= 7 {
		return nil
	}

	claims, err := utils.ParseJWEClaims(header[7:])
	if err != nil || !utils.IsValidUuid(claims.User.ID) {
		return nil
	}

	now := time.Now().In(utils.DefaultLocation())

	if err := ValidateTokenClaims(claims, AccessTokenRevocationKey, now); err != nil {
		slog.Warn(fmt.Sprintf("Ignoring invalid token on public request: %v", err))
		return nil
	}

	if !UserExists(claims.User.ID, claims.User.Email) {
		return nil
	}

	id := claims.User.ID

	return &id
}
