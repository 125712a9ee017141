package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/feedlink/backend/internal/domain"
	"github.com/feedlink/backend/internal/infrastructure/export"
	"github.com/feedlink/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "feedlink-backend"
	serviceVersion = "1.0.0"

	formatJSON = "json"

	// maxUploadBytes bounds directly supplied XML documents
	maxUploadBytes = 64 << 20
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	feeds    *usecase.FeedService
	commands *usecase.CommandService
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(feeds *usecase.FeedService, commands *usecase.CommandService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		feeds:    feeds,
		commands: commands,
		logger:   logger,
		now:      time.Now,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ListFeeds returns the configured supplier feeds
func (h *Handler) ListFeeds(c *gin.Context) {
	sources := h.feeds.Sources()
	c.JSON(http.StatusOK, gin.H{
		"feeds": sources,
		"total": len(sources),
	})
}

// ConvertFeed fetches a configured feed and returns it normalized
func (h *Handler) ConvertFeed(c *gin.Context) {
	filter, format, ok := h.bindConvertOptions(c)
	if !ok {
		return
	}

	conversion, err := h.feeds.ConvertSource(c.Request.Context(), c.Param("source"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.writeConversion(c, conversion, filter, format)
}

// ConvertUpload parses an XML document sent in the body or as multipart field "file"
func (h *Handler) ConvertUpload(c *gin.Context) {
	filter, format, ok := h.bindConvertOptions(c)
	if !ok {
		return
	}

	data, err := readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	conversion, err := h.feeds.ConvertDocument(data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.writeConversion(c, conversion, filter, format)
}

// TranslateCommand resolves a command to an API call descriptor without running it
func (h *Handler) TranslateCommand(c *gin.Context) {
	var req domain.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	c.JSON(http.StatusOK, h.commands.Translate(req.Command))
}

// ExecuteCommand translates a command and runs the resulting API call
func (h *Handler) ExecuteCommand(c *gin.Context) {
	var req domain.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	execution, err := h.commands.Execute(c.Request.Context(), req.Command)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("command execution failed", zap.String("command", req.Command), zap.Error(err))
		c.JSON(status, gin.H{
			"error":    err.Error(),
			"result":   execution.Result,
			"response": execution.Response,
		})
		return
	}

	c.JSON(http.StatusOK, execution)
}

// bindConvertOptions reads the filter and output format query parameters
func (h *Handler) bindConvertOptions(c *gin.Context) (domain.ProductFilter, string, bool) {
	var filter domain.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil || filter.MinStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return filter, "", false
	}

	format := strings.ToLower(c.DefaultQuery("format", formatJSON))
	if format != formatJSON {
		if _, err := export.ParseFormat(format); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return filter, "", false
		}
	}
	return filter, format, true
}

// writeConversion renders a conversion as JSON or as a file download
func (h *Handler) writeConversion(c *gin.Context, conversion *domain.FeedConversion, filter domain.ProductFilter, format string) {
	filtered := usecase.FilterProducts(conversion.Products, filter)

	if format == formatJSON {
		c.JSON(http.StatusOK, gin.H{
			"source":    conversion.Source,
			"dialect":   conversion.Dialect,
			"detected":  conversion.Dialect.Label(),
			"summary":   usecase.Summarize(conversion.Products, filtered),
			"producers": usecase.UniqueProducers(conversion.Products),
			"products":  filtered,
		})
		return
	}

	exportFormat, _ := export.ParseFormat(format)
	var buf bytes.Buffer
	if err := h.feeds.Export(&buf, exportFormat, filtered); err != nil {
		h.respondError(c, err)
		return
	}

	filename := export.Filename(conversion.Source, exportFormat, h.now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, exportFormat.ContentType(), buf.Bytes())
}

// readUpload returns the uploaded document bytes
func readUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidRequest, err)
		}
		file, err := header.Open()
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidRequest, err)
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidRequest, err)
	}
	return data, nil
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownSource):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedDocument),
		errors.Is(err, domain.ErrUnrecognizedFormat),
		errors.Is(err, domain.ErrUnknownDialect):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrFeedFetchFailure),
		errors.Is(err, domain.ErrBaseLinkerFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrBaseLinkerNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
