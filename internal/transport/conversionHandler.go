package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ds124wfegd/gif-converter/internal/entity"
	"github.com/ds124wfegd/gif-converter/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *ConversionHandler) Convert(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "Upload exceeds %d bytes", tooLarge.Limit)
			return
		}
		c.String(http.StatusBadRequest, "No video file uploaded")
		return
	}

	// non-numeric fps falls back to the default inside the service
	fps, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("fps")))

	sourcePath, err := h.service.SaveUpload(file)
	if err != nil {
		logrus.WithError(err).Error("Failed to store upload")
		c.String(http.StatusInternalServerError, "Failed to store upload")
		return
	}

	result, err := h.service.Convert(c.Request.Context(), entity.ConversionRequest{
		SourceFilePath: sourcePath,
		FPS:            fps,
		Scale:          strings.TrimSpace(c.PostForm("scale")),
	})
	if err != nil {
		c.String(statusFor(err), "%s", err.Error())
		return
	}

	c.Set(middleware.TokenKey, result.Token)
	c.JSON(http.StatusOK, result)
}

func (h *ConversionHandler) FFmpegVersion(c *gin.Context) {
	out, err := h.service.FFmpegVersion(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "FFmpeg not available: %s", err.Error())
		return
	}
	c.String(http.StatusOK, out)
}

// ServePublic serves generated artifacts from the public directory.
func (h *ConversionHandler) ServePublic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if name == "" {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	info, err := h.public.Stat(name)
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	path, err := h.public.Path(name)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	c.File(path)
}

func statusFor(err error) int {
	if errors.Is(err, entity.ErrMissingFile) {
		return http.StatusBadRequest
	}
	// palette and encoding failures are upstream tool errors
	return http.StatusInternalServerError
}
