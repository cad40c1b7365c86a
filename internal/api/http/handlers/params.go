package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/auth"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidField(name, "must be a positive integer")
	}
	return id, nil
}

// expectedVersion prefers the body version and falls back to If-Match.
// Zero means the caller did not pin a version.
func expectedVersion(c *fiber.Ctx, bodyVersion int64) (int64, error) {
	if bodyVersion > 0 {
		return bodyVersion, nil
	}
	header := strings.Trim(strings.TrimPrefix(c.Get(fiber.HeaderIfMatch), "W/"), `"`)
	if header == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(header, 10, 64)
	if err != nil || v <= 0 {
		return 0, invalidField("If-Match", "must be a report version")
	}
	return v, nil
}

func actorID(c *fiber.Ctx) string {
	session, ok := auth.SessionFromContext(c)
	if !ok || session == nil {
		return ""
	}
	return session.UserID
}

func setVersionTag(c *fiber.Ctx, version int64) {
	c.Set(fiber.HeaderETag, strconv.Quote(strconv.FormatInt(version, 10)))
}

func invalidField(field, message string) error {
	return apperrors.NewValidationError("validation failed", map[string]any{
		"fields": map[string]string{field: message},
	})
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
