package helpers

import (
	"testing"
	"time"

	"alfredoramos.mx/survivor-hub/utils"
	jose_jwt "github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// testClaims builds claims that pass every check that runs before the
// revocation lookup. Each test breaks exactly one of them.
func testClaims(t *testing.T, now time.Time) *utils.CustomJwtClaims {
	t.Helper()
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("APP_DOMAIN", "https://survivorhub.example")

	id := uuid.New()

	return &utils.CustomJwtClaims{
		Claims: jose_jwt.Claims{
			ID:        "token-id",
			Issuer:    "survivorhub.example",
			Subject:   id.String(),
			IssuedAt:  jose_jwt.NewNumericDate(now.Add(-time.Minute)),
			NotBefore: jose_jwt.NewNumericDate(now.Add(-time.Minute)),
			Expiry:    jose_jwt.NewNumericDate(now.Add(time.Hour)),
		},
		User: utils.UserClaimData{
			ID:    id,
			Email: "user@survivorhub.example",
		},
	}
}

func TestValidateTokenClaimsRejectsForeignIssuer(t *testing.T) {
	now := time.Now()
	claims := testClaims(t, now)
	claims.Issuer = "evil.example"

	assert.Error(t, ValidateTokenClaims(claims, AccessTokenRevocationKey, now))
}

func TestValidateTokenClaimsRejectsMissingID(t *testing.T) {
	now := time.Now()
	claims := testClaims(t, now)
	claims.ID = ""

	assert.Error(t, ValidateTokenClaims(claims, AccessTokenRevocationKey, now))
}

func TestValidateTokenClaimsRejectsExpired(t *testing.T) {
	now := time.Now()
	claims := testClaims(t, now)
	claims.Expiry = jose_jwt.NewNumericDate(now.Add(-time.Minute))

	assert.Error(t, ValidateTokenClaims(claims, AccessTokenRevocationKey, now))
}

func TestValidateTokenClaimsRejectsNotYetValid(t *testing.T) {
	now := time.Now()
	claims := testClaims(t, now)
	claims.NotBefore = jose_jwt.NewNumericDate(now.Add(time.Hour))

	assert.Error(t, ValidateTokenClaims(claims, AccessTokenRevocationKey, now))
}

func TestValidateTokenClaimsRejectsSubjectMismatch(t *testing.T) {
	now := time.Now()
	claims := testClaims(t, now)
	claims.Subject = uuid.NewString()

	assert.Error(t, ValidateTokenClaims(claims, RefreshTokenRevocationKey, now))
}
