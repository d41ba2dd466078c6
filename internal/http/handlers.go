package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"metagrab/internal/services"
	"metagrab/internal/source"
)

func healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// metadataHandler serves any supported URL.
func metadataHandler(c *fiber.Ctx) error {
	return handleMetadata(c, nil, "")
}

func instaMetadataHandler(c *fiber.Ctx) error {
	only := source.InstagramReel
	return handleMetadata(c, &only, "Only Instagram Reels are supported")
}

func ytMetadataHandler(c *fiber.Ctx) error {
	only := source.YouTubeShort
	return handleMetadata(c, &only, "Only YouTube Shorts are supported")
}

// handleMetadata parses the request body, optionally restricts the source
// kind and runs the metadata service.
func handleMetadata(c *fiber.Ctx, only *source.Kind, rejectMsg string) error {
	var reqBody MetadataRequest
	if err := c.BodyParser(&reqBody); err != nil || reqBody.URL == "" {
		return badRequest(c, services.ErrURLRequired.Error())
	}

	if only != nil && source.Classify(reqBody.URL) != *only {
		return badRequest(c, rejectMsg)
	}

	svc := c.Locals("metadata").(services.MetadataService)

	res, err := svc.Fetch(c.UserContext(), reqBody.URL)
	if err != nil {
		return writeServiceError(c, err)
	}

	c.Locals("platform", string(res.Metadata.Platform))
	c.Locals("strategy", res.Strategy)
	if res.CategoryKind != "" {
		c.Set("X-Category-Kind", string(res.CategoryKind))
	}

	return c.Status(fiber.StatusOK).JSON(MetadataResponse{
		Success: true,
		Data:    res.Metadata,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Code:    "BAD_REQUEST",
		Error:   msg,
	})
}

func writeServiceError(c *fiber.Ctx, err error) error {
	var se *services.Error
	if errors.As(err, &se) {
		return c.Status(se.Kind.Status()).JSON(ErrorResponse{
			Success: false,
			Code:    se.Kind.Code(),
			Error:   se.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Success: false,
		Code:    "INTERNAL_ERROR",
		Error:   err.Error(),
	})
}
