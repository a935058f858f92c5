package utils

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
)

const (
	minAccessTokenExpiration      int64 = 1
	defaultAccessTokenExpiration  int64 = 1
	maxAccessTokenExpiration      int64 = 2
	minRefreshTokenExpiration     int64 = 1
	defaultRefreshTokenExpiration int64 = 6
	maxRefreshTokenExpiration     int64 = 12

	minEvidenceRetention     int64 = 1
	defaultEvidenceRetention int64 = 48
	maxEvidenceRetention     int64 = 168
)

func IsDebug() bool {
	isDebug, err := strconv.ParseBool(os.Getenv("APP_DEBUG"))
	if err != nil {
		isDebug = false
	}

	return isDebug
}

func CanRegisterUsers() bool {
	canRegister, err := strconv.ParseBool(os.Getenv("ALLOW_USER_REGISTRATION"))
	if err != nil {
		canRegister = true
	}

	return canRegister
}

func SupportEmail() string {
	e := os.Getenv("SUPPORT_EMAIL")

	if len(e) < 1 {
		slog.Error("Support email is empty.")
		return ""
	}

	if !IsValidEmail(e) {
		slog.Error("Support email is invalid.")
		return ""
	}

	return e
}

// AdminNotificationEmail is the address new-report notifications go to.
func AdminNotificationEmail() string {
	e := os.Getenv("ADMIN_NOTIFICATION_EMAIL")

	if len(e) < 1 {
		slog.Error("Admin notification email is empty.")
		return ""
	}

	if !IsValidEmail(e) {
		slog.Error("Admin notification email is invalid.")
		return ""
	}

	return e
}

func EvidencePath() string {
	p := os.Getenv("EVIDENCE_PATH")

	if len(p) < 1 {
		p = "evidence"
	}

	return p
}

// EvidenceRetention is how long uploaded evidence is kept before the purge
// task removes it. Clamped between 1 hour and 7 days, 48 hours by default.
func EvidenceRetention() time.Duration {
	hours, err := strconv.ParseInt(os.Getenv("EVIDENCE_RETENTION_HOURS"), 10, 64)
	if err != nil {
		hours = defaultEvidenceRetention
	}

	if hours < minEvidenceRetention {
		hours = minEvidenceRetention
	}

	if hours > maxEvidenceRetention {
		hours = maxEvidenceRetention
	}

	return time.Duration(hours) * time.Hour
}

func ChatUpstreamURL() string {
	u := os.Getenv("CHAT_API_URL")

	if len(u) < 1 {
		u = "https://api.openai.com/v1/chat/completions"
	}

	return u
}

func ChatModel() string {
	m := os.Getenv("CHAT_API_MODEL")

	if len(m) < 1 {
		m = "gpt-4o-mini"
	}

	return m
}

func AccessTokenExpiration() time.Duration {
	exp, err := strconv.ParseInt(os.Getenv("JWT_ACCESS_TOKEN_EXPIRATION"), 10, 64)
	if err != nil {
		exp = defaultAccessTokenExpiration
	}

	if exp < minAccessTokenExpiration {
		exp = minAccessTokenExpiration
	}

	if exp > maxAccessTokenExpiration {
		exp = maxAccessTokenExpiration
	}

	return time.Duration(exp) * time.Hour
}

func RefreshTokenExpiration() time.Duration {
	exp, err := strconv.ParseInt(os.Getenv("JWT_REFRESH_TOKEN_EXPIRATION"), 10, 64)
	if err != nil {
		exp = defaultRefreshTokenExpiration
	}

	if exp < minRefreshTokenExpiration {
		exp = minRefreshTokenExpiration
	}

	if exp > maxRefreshTokenExpiration {
		exp = maxRefreshTokenExpiration
	}

	return time.Duration(exp) * time.Hour
}

func DefaultTimeZone() string {
	tz := os.Getenv("TZ")
	if len(tz) < 1 {
		tz = "Africa/Nairobi"
	}

	return tz
}

func DefaultLocation() *time.Location {
	tz := DefaultTimeZone()

	loc, err := time.LoadLocation(tz)
	if err != nil {
		sentry.CaptureException(err)
		return time.Now().Location()
	}

	return loc
}

func EmailLang() string {
	l := os.Getenv("EMAIL_LANG")

	if len(l) < 1 {
		slog.Warn("Empty email language. Falling back to 'en'.")
		l = "en"
	}

	return l
}
