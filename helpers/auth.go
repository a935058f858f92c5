package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/jwt"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/getsentry/sentry-go"
	jose_jwt "github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

const (
	AccessTokenRevocationKey  string = "access-tokens:revoked"
	RefreshTokenRevocationKey string = "refresh-tokens:revoked"
)

// ValidateTokenClaims runs the checks shared by every token consumer:
// issuer, time window, subject consistency and revocation set membership.
// The revocation lookup comes last so garbage tokens never reach the cache.
func ValidateTokenClaims(claims *utils.CustomJwtClaims, revocationKey string, now time.Time) error {
	if !utils.IsValidIssuer(claims.Issuer) {
		return fmt.Errorf("Invalid token issuer '%s'.", claims.Issuer)
	}

	if len(claims.ID) < 1 {
		return errors.New("The token ID is missing.")
	}

	if now.Before(claims.IssuedAt.Time()) || now.Before(claims.NotBefore.Time()) {
		return errors.New("The token is not valid yet.")
	}

	if now.After(claims.Expiry.Time()) {
		return errors.New("The token is no longer valid.")
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil || !utils.IsValidUuid(sub) || claims.User.ID != sub {
		return errors.New("The token subject is not valid.")
	}

	isRevoked, err := app.Cache().DoCache(context.Background(), app.Cache().B().Sismember().Key(revocationKey).Member(claims.ID).Cache(), 5*time.Minute).AsBool()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		return fmt.Errorf("Could not check token revocation '%s': %w", claims.ID, err)
	}

	if isRevoked {
		return fmt.Errorf("The token '%s' is revoked.", claims.ID)
	}

	return nil
}

func NewAccessToken(u *models.User) (string, error) {
	return newToken(u, utils.AccessTokenExpiration(), true)
}

func NewRefreshToken(u *models.User) (string, error) {
	return newToken(u, utils.RefreshTokenExpiration(), false)
}

func newToken(u *models.User, expiration time.Duration, withProfile bool) (string, error) {
	roles, err := GetUserRoles(u.ID)
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("User roles error: %w", err)
	}

	issuer, err := utils.GetJwtIssuer()
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("Invalid token issuer '%s': %w", issuer, err)
	}

	now := time.Now().In(utils.DefaultLocation())

	claims := &utils.CustomJwtClaims{
		Claims: jose_jwt.Claims{
			ID:        utils.HashString(u.ID.String()),
			Issuer:    issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jose_jwt.NewNumericDate(now),
			NotBefore: jose_jwt.NewNumericDate(now),
			Expiry:    jose_jwt.NewNumericDate(now.Add(expiration)),
		},
		User: utils.UserClaimData{
			ID:    u.ID,
			Email: u.Email,
			Roles: roles.Names(),
		},
	}

	if withProfile {
		claims.User.DisplayName = u.DisplayName
	}

	jwtStr, err := jose_jwt.Signed(jwt.Signer()).Claims(claims).Serialize()
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("Error generating JWT: %w", err)
	}

	jwe, err := jwt.Encrypter().Encrypt([]byte(jwtStr))
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("Error generating JWE: %w", err)
	}

	jweStr, err := jwe.CompactSerialize()
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("Error generating token: %w", err)
	}

	return jweStr, nil
}
