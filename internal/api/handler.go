// Package api exposes the reconciliation pipeline over HTTP for the
// portal's upload screen.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/conciliador/internal/buildinfo"
	"github.com/cleared-dev/conciliador/internal/importer"
	"github.com/cleared-dev/conciliador/internal/logger"
	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/reconcile"
	"github.com/cleared-dev/conciliador/internal/review"
)

// multipart envelope allowance on top of the file limit
const formOverhead = 64 << 10

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ExtractResponse is the body of POST /api/extract.
type ExtractResponse struct {
	Success      bool                      `json:"success"`
	File         string                    `json:"file"`
	Count        int                       `json:"count"`
	Transactions []model.SystemTransaction `json:"transactions"`
}

// ReconcileResponse is the body of POST /api/reconcile.
type ReconcileResponse struct {
	Success      bool `json:"success"`
	PendingBills int  `json:"pendingBills"`
	review.Document
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	svc      *reconcile.Service
	maxBytes int64
	log      zerolog.Logger
}

// NewHandler creates a Handler. maxBytes <= 0 uses the importer default.
func NewHandler(svc *reconcile.Service, maxBytes int64, log zerolog.Logger) *Handler {
	if maxBytes <= 0 {
		maxBytes = importer.DefaultMaxBytes
	}
	return &Handler{svc: svc, maxBytes: maxBytes, log: log}
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "conciliador",
		BodyLimit:             int(h.maxBytes) + formOverhead,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return writeError(c, code, err.Error())
		},
	})
	app.Use(Recovery(h.log))
	app.Use(RequestLogger(h.log))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/extract", h.HandleExtract)
	api.Post("/reconcile", h.HandleReconcile)
}

// HandleHealth handles GET /api/health.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// HandleExtract handles POST /api/extract: the statement's transactions in
// the portal's storage shape, without matching.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	name, data, err := h.upload(c)
	if err != nil {
		return err
	}

	txns, err := h.svc.Extract(c.UserContext(), name, data, c.FormValue("password"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(ExtractResponse{
		Success:      true,
		File:         name,
		Count:        len(txns),
		Transactions: importer.FormatTransactionsForSystem(txns),
	})
}

// HandleReconcile handles POST /api/reconcile. The multipart form carries
// "file" and an optional PDF "password". ?format=csv returns the review CSV
// instead of JSON.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	name, data, err := h.upload(c)
	if err != nil {
		return err
	}

	report, err := h.svc.Reconcile(c.UserContext(), name, data, c.FormValue("password"))
	if err != nil {
		return h.fail(c, err)
	}

	entries := review.Entries(report.Candidates, h.svc.Thresholds())
	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := review.WriteCSV(&buf, entries); err != nil {
			return h.fail(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="conciliacion.csv"`)
		return c.Send(buf.Bytes())
	}

	return c.JSON(ReconcileResponse{
		Success:      true,
		PendingBills: report.PendingBills,
		Document: review.Document{
			File:    report.File,
			Entries: entries,
			Stats:   report.Stats,
		},
	})
}

// upload reads the "file" form field, enforcing the size limit. Errors
// are *fiber.Error for the app's error handler.
func (h *Handler) upload(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "no file uploaded, use form field 'file'")
	}
	if fh.Size > h.maxBytes {
		return "", nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file is %d bytes, limit is %d bytes", fh.Size, h.maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}
	return fh.Filename, data, nil
}

// fail maps pipeline errors to status codes.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	log := logger.FromContext(c.UserContext())

	var (
		formatErr *importer.FileFormatError
		parseErr  *importer.ParseError
		status    int
	)
	switch {
	case errors.As(err, &formatErr) && formatErr.TooLarge:
		status = fiber.StatusRequestEntityTooLarge
	case errors.As(err, &formatErr):
		status = fiber.StatusUnsupportedMediaType
	case errors.As(err, &parseErr), errors.Is(err, importer.ErrNoTransactions):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrNoPendingBills):
		status = fiber.StatusConflict
	default:
		log.Error().Err(err).Msg("reconciliation failed")
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}

	log.Warn().Err(err).Int("status", status).Msg("statement rejected")
	return writeError(c, status, err.Error())
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: msg})
}
