package middlewares

import (
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/survivor-hub/helpers"
	"alfredoramos.mx/survivor-hub/jwt"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/getsentry/sentry-go"
	"github.com/go-jose/go-jose/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
		"error": []string{msg},
	})
}

func ValidateJWT() fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessJWE := c.Locals(utils.AccessTokenContextKey()).(string)

		if len(accessJWE) < 1 || len(c.Get("Authorization")) <= 7 {
			return forbidden(c, "Invalid access token.")
		}

		if accessJWE != c.Get("Authorization")[7:] {
			return forbidden(c, "Invalid provided access token.")
		}

		accessClaims, err := utils.ParseJWEClaims(accessJWE)
		if err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Invalid access token claims: %v", err))
			return forbidden(c, "Invalid access token.")
		}

		now := time.Now().In(utils.DefaultLocation())

		if err := helpers.ValidateTokenClaims(accessClaims, helpers.AccessTokenRevocationKey, now); err != nil {
			slog.Error(fmt.Sprintf("Access token rejected: %v", err))
			return forbidden(c, "The access token is not valid.")
		}

		if !helpers.UserExists(accessClaims.User.ID, accessClaims.User.Email) {
			return forbidden(c, "The access token is not valid.")
		}

		refreshJWE := c.Cookies(utils.RefreshTokenContextKey())
		if len(refreshJWE) < 1 {
			return forbidden(c, "The refresh token is not valid.")
		}

		refreshClaims, err := utils.ParseJWEClaims(refreshJWE)
		if err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Invalid refresh token claims: %v", err))
			return forbidden(c, "Invalid refresh token.")
		}

		if err := helpers.ValidateTokenClaims(refreshClaims, helpers.RefreshTokenRevocationKey, now); err != nil {
			slog.Error(fmt.Sprintf("Refresh token rejected: %v", err))
			return forbidden(c, "The refresh token is not valid.")
		}

		// The refresh token always outlives the access token it was issued with.
		if refreshClaims.IssuedAt.Time().Before(accessClaims.IssuedAt.Time()) ||
			refreshClaims.NotBefore.Time().Before(accessClaims.NotBefore.Time()) ||
			refreshClaims.Expiry.Time().Before(accessClaims.Expiry.Time()) {
			slog.Error("Refresh token time window is inconsistent with the access token.")
			return forbidden(c, "The refresh token is not valid.")
		}

		if accessClaims.User.ID != refreshClaims.User.ID {
			return forbidden(c, "The token subject is not valid.")
		}

		return c.Next()
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	sentry.CaptureException(err)
	slog.Error(fmt.Sprintf("Access token error: %v", err))
	return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{"error": []string{"Invalid or expired access token."}})
}

func AuthProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Get("Authorization")) <= 7 {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{"Invalid access token."},
			})
		}

		tokenStr := c.Get("Authorization")[7:]

		jwe, err := jose.ParseEncryptedCompact(
			tokenStr,
			[]jose.KeyAlgorithm{jose.ECDH_ES_A256KW},
			[]jose.ContentEncryption{jose.A256GCM},
		)
		if err != nil {
			slog.Error(fmt.Sprintf("Error parsing JWE: %v", err))
			return jwtError(c, err)
		}

		decrypted, err := jwe.Decrypt(jwt.EncryptionKeys().Private)
		if err != nil {
			slog.Error(fmt.Sprintf("Error decrypting JWE: %v", err))
			return jwtError(c, err)
		}

		parsedJWT, err := jose.ParseSigned(string(decrypted), []jose.SignatureAlgorithm{jose.SignatureAlgorithm(jwt.SigningKeys().Private.Algorithm)})
		if err != nil {
			slog.Error(fmt.Sprintf("Error parsing JWT: %v", err))
			return jwtError(c, err)
		}

		if _, err := parsedJWT.Verify(jwt.SigningKeys().Public); err != nil {
			slog.Error(fmt.Sprintf("Error verifying JWT: %v", err))
			return jwtError(c, err)
		}

		jweStr, err := jwe.CompactSerialize()
		if err != nil {
			slog.Error(fmt.Sprintf("Error generating JWE access token: %v", err))
			return jwtError(c, err)
		}

		c.Locals(utils.AccessTokenContextKey(), jweStr)

		return c.Next()
	}
}

func CheckPermissions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := helpers.GetUserID(c)

		if helpers.HasPermission(id, c.Path(), c.Method()) {
			return c.Next()
		}

		return forbidden(c, "You are not allowed to access this resource.")
	}
}

func AuthLimiter() fiber.Handler {
	cfg := limiter.Config{
		Max:        25,
		Expiration: 5 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(&fiber.Map{"error": []string{"Too many requests received within a short amount of time."}})
		},
	}

	return limiter.New(cfg)
}

// ReportLimiter throttles anonymous submission and tracking lookups per
// client address. Tracking tokens have a small keyspace, so unthrottled
// lookups would make enumeration practical.
func ReportLimiter() fiber.Handler {
	cfg := limiter.Config{
		Max:        15,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(&fiber.Map{"error": []string{"Too many requests received within a short amount of time."}})
		},
	}

	return limiter.New(cfg)
}
