package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/api/dto"
	"github.com/spec-kit/litreview/internal/auth"
	"github.com/spec-kit/litreview/internal/domain"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// bindForm decodes a JSON, urlencoded or multipart body into req. An empty body leaves
// req zero so the form validation reports the missing fields.
func bindForm(c *fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

// rerender answers a rejected submission with the form and its field errors, status
// 200, as a server-rendered page would. Any other error is returned unchanged.
func rerender(c *fiber.Ctx, form dto.FormSchema, err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != apperrors.CodeValidation {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": dto.NewFormState(form, domainErr.Code, domainErr.Message, domainErr.Details)})
}

func truthy(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// imageUpload opens the "image" file of a multipart request. It returns nil when no
// file was sent.
func imageUpload(c *fiber.Ctx) (io.ReadCloser, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	header, err := c.FormFile("image")
	if err != nil || header.Size == 0 {
		return nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid image", map[string]any{"image": "could not read the uploaded file"})
	}
	return file, nil
}

// uploadReader keeps a nil ReadCloser from turning into a non-nil io.Reader.
func uploadReader(rc io.ReadCloser) io.Reader {
	if rc == nil {
		return nil
	}
	return rc
}

func requireUser(c *fiber.Ctx) (*domain.User, error) {
	user := auth.CurrentUser(c)
	if user == nil {
		return nil, apperrors.NewUnauthorized("login required")
	}
	return user, nil
}

func pathID(c *fiber.Ctx, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound(resource, map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

// pageParam reads ?page. Missing or non-numeric values mean page 1; numbers too large
// for int saturate so pagination clamps them to the last page.
func pageParam(c *fiber.Ctx) int {
	raw := strings.TrimSpace(c.Query("page"))
	page, err := strconv.Atoi(raw)
	switch {
	case err == nil:
		return page
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
		return math.MaxInt
	default:
		return 1
	}
}

// success writes the standard mutation envelope.
func success(c *fiber.Ctx, status int, data any, redirect string) error {
	return c.Status(status).JSON(fiber.Map{"data": data, "redirect": redirect})
}
