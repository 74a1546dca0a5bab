// Package api is the HTTP surface: statement uploads, transaction feedback,
// duplicate handling, learned-map inspection, and the aggregation endpoint.
package api

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/budgetglass/budgetglass/internal/categorize"
	"github.com/budgetglass/budgetglass/internal/extractor"
	"github.com/budgetglass/budgetglass/internal/ledger"
	"github.com/budgetglass/budgetglass/internal/merchant"
	"github.com/budgetglass/budgetglass/internal/models"
	"github.com/budgetglass/budgetglass/internal/pipeline"
)

const version = "1.0.0"

// FileResult reports what happened to one file of an upload batch.
// Status is "ok", "empty", "unsupported", or "failed"; the batch continues
// past failures, which are surfaced here rather than aborting the upload.
type FileResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// UploadResponse is the JSON envelope for /api/upload.
type UploadResponse struct {
	Success    bool         `json:"success"`
	Files      []FileResult `json:"files"`
	Added      int          `json:"added"`
	TotalCount int          `json:"totalCount"`
	Duplicates int          `json:"duplicates"`
}

// TransactionView decorates a transaction with its smart hint, offered only
// when categorization fell through to "Other" and never applied
// automatically.
type TransactionView struct {
	models.Transaction
	Hint *merchant.Hint `json:"hint,omitempty"`
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	Ledger   *ledger.Ledger
	Engine   *categorize.Engine
	Pipeline *pipeline.Pipeline
	Log      *slog.Logger
}

// Register sets up the API routes.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", h.handleHealth)
	api.Post("/upload", h.handleUpload)
	api.Post("/upload/undo", h.handleUndo)

	api.Get("/transactions", h.handleListTransactions)
	api.Put("/transactions/:id/category", h.handleSetCategory)
	api.Delete("/transactions/:id", h.handleDeleteTransaction)
	api.Delete("/transactions", h.handleClearTransactions)
	api.Post("/refresh", h.handleRefresh)

	api.Get("/duplicates", h.handleDuplicateCount)
	api.Post("/duplicates/remove", h.handleRemoveDuplicates)

	api.Get("/categories", h.handleCategories)
	api.Get("/hints", h.handleHints)
	api.Get("/learned", h.handleListLearned)
	api.Delete("/learned", h.handleClearLearned)

	api.Get("/summary", h.handleSummary)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// handleUpload processes a multipart batch of statement files sequentially.
// Each file fully completes (or fails) before the next begins; a corrupt PDF
// is a per-file notice, not a batch abort. All accepted transactions land as
// one batch so undo restores the full pre-upload state.
func (h *Handler) handleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "expected multipart form with statement files under 'files'")
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		return badRequest(c, "no files uploaded; use form field 'files'")
	}

	var results []FileResult
	var batch []models.Transaction

	for _, fh := range files {
		result := FileResult{Name: fh.Filename}

		f, err := fh.Open()
		if err != nil {
			result.Status = "failed"
			result.Error = "could not read upload"
			results = append(results, result)
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			result.Status = "failed"
			result.Error = "could not read upload"
			results = append(results, result)
			continue
		}

		txns, err := h.Pipeline.ProcessFile(fh.Filename, data)
		switch {
		case errors.Is(err, pipeline.ErrUnsupported):
			result.Status = "unsupported"
			result.Error = err.Error()
		case errors.Is(err, extractor.ErrUnreadable):
			result.Status = "failed"
			result.Error = err.Error()
		case err != nil:
			result.Status = "failed"
			result.Error = err.Error()
			h.Log.Error("process upload", "file", fh.Filename, "error", err)
		case len(txns) == 0:
			// Parsing ran and found nothing: an empty statement or a layout
			// we do not recognize. Reported distinctly from failure.
			result.Status = "empty"
		default:
			result.Status = "ok"
			result.Count = len(txns)
			batch = append(batch, txns...)
		}
		results = append(results, result)
	}

	h.Ledger.AddBatch(batch)

	return c.JSON(UploadResponse{
		Success:    true,
		Files:      results,
		Added:      len(batch),
		TotalCount: h.Ledger.Count(),
		Duplicates: h.Ledger.DuplicateCount(),
	})
}

func (h *Handler) handleUndo(c *fiber.Ctx) error {
	if !h.Ledger.Undo() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "nothing to undo",
		})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"totalCount": h.Ledger.Count(),
	})
}

func (h *Handler) handleListTransactions(c *fiber.Ctx) error {
	txns := h.Ledger.All()
	views := make([]TransactionView, len(txns))
	for i, t := range txns {
		views[i] = TransactionView{Transaction: t}
		if t.Category == categorize.DefaultCategory {
			if hint, ok := merchant.HintFor(t.Description); ok {
				views[i].Hint = &hint
			}
		}
	}
	return c.JSON(fiber.Map{
		"transactions": views,
		"count":        len(views),
	})
}

func (h *Handler) handleSetCategory(c *fiber.Ctx) error {
	var body struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil || body.Category == "" {
		return badRequest(c, "expected JSON body with 'category'")
	}

	err := h.Ledger.SetCategory(c.Params("id"), body.Category)
	if errors.Is(err, ledger.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) handleDeleteTransaction(c *fiber.Ctx) error {
	if err := h.Ledger.Delete(c.Params("id")); err != nil {
		return notFound(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) handleClearTransactions(c *fiber.Ctx) error {
	h.Ledger.Clear()
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) handleRefresh(c *fiber.Ctx) error {
	h.Ledger.Refresh()
	return c.JSON(fiber.Map{
		"success": true,
		"count":   h.Ledger.Count(),
	})
}

func (h *Handler) handleDuplicateCount(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"duplicates": h.Ledger.DuplicateCount()})
}

func (h *Handler) handleRemoveDuplicates(c *fiber.Ctx) error {
	removed := h.Ledger.RemoveDuplicates()
	return c.JSON(fiber.Map{
		"success":    true,
		"removed":    removed,
		"totalCount": h.Ledger.Count(),
	})
}

func (h *Handler) handleCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.Engine.Rules().Categories})
}

func (h *Handler) handleHints(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"hints": merchant.AllHints()})
}

func (h *Handler) handleListLearned(c *fiber.Ctx) error {
	store := h.Engine.Store()
	return c.JSON(fiber.Map{
		"count":    store.Count(),
		"mappings": store.All(),
	})
}

func (h *Handler) handleClearLearned(c *fiber.Ctx) error {
	if err := h.Engine.Store().Clear(); err != nil {
		h.Log.Error("clear learned store", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "could not clear learned categories",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) handleSummary(c *fiber.Ctx) error {
	return c.JSON(h.Ledger.Summarize(time.Now()))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "transaction not found",
	})
}
