package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"bursar/internal/api/flash"
	"bursar/internal/api/middleware"
	"bursar/internal/engine/receipt"
	apperrors "bursar/internal/pkg/errors"
	"bursar/internal/pkg/validation"
	"bursar/internal/platform/audit"
	"bursar/internal/platform/metrics"
	"bursar/internal/web"
)

const msgInvalidUpload = "Only JPG/PNG passport image required."

type ReceiptHandler struct {
	receipts  *receipt.Service
	views     *web.Templates
	metrics   *metrics.Metrics
	audit     *audit.Logger
	maxUpload int64
}

func NewReceiptHandler(receipts *receipt.Service, views *web.Templates, m *metrics.Metrics, auditLog *audit.Logger, maxUpload int64) *ReceiptHandler {
	return &ReceiptHandler{
		receipts:  receipts,
		views:     views,
		metrics:   m,
		audit:     auditLog,
		maxUpload: maxUpload,
	}
}

func (h *ReceiptHandler) Form(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.views, http.StatusOK, "index", web.Page{
		Title:    "e-Receipt",
		User:     username(r),
		Messages: flash.Pop(w, r),
	})
}

func (h *ReceiptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.UploadsRejected.WithLabelValues("too_large").Inc()
			apperrors.WriteError(w, r, http.StatusRequestEntityTooLarge, apperrors.ErrCodePayloadTooLarge, "Upload too large", nil)
			return
		}
		apperrors.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("passport")
	if errors.Is(err, http.ErrMissingFile) {
		h.rejectUpload(w, r, "missing_file")
		return
	}
	if err != nil {
		apperrors.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid passport upload", nil)
		return
	}
	defer file.Close()

	req := receipt.RequestFromForm(r.PostForm)
	rc, err := h.receipts.Generate(r.Context(), req, receipt.Upload{Filename: header.Filename, Body: file})

	var fields validation.FieldErrors
	switch {
	case errors.Is(err, receipt.ErrInvalidUpload):
		h.rejectUpload(w, r, "invalid_image")
		return
	case errors.As(err, &fields):
		h.metrics.UploadsRejected.WithLabelValues("missing_fields").Inc()
		apperrors.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Missing required fields", map[string]string(fields))
		return
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Str("regno", req.RegNo).Msg("failed to generate receipt")
		apperrors.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to generate receipt", nil)
		return
	}

	h.metrics.ReceiptsRendered.Inc()
	h.metrics.RenderSeconds.Observe(rc.Elapsed.Seconds())
	h.audit.Log(r, audit.ActionReceiptIssued, username(r), map[string]string{"regno": req.RegNo, "rrr": req.RRR})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(rc.PDF)))
	w.WriteHeader(http.StatusOK)
	w.Write(rc.PDF)
}

func (h *ReceiptHandler) rejectUpload(w http.ResponseWriter, r *http.Request, reason string) {
	h.metrics.UploadsRejected.WithLabelValues(reason).Inc()
	h.audit.Log(r, audit.ActionUploadRejected, username(r), map[string]string{"reason": reason})
	flash.Add(w, r, msgInvalidUpload)
	http.Redirect(w, r, "/", http.StatusFound)
}

func username(r *http.Request) string {
	if user := middleware.CurrentUser(r.Context()); user != nil {
		return user.Username
	}
	return ""
}
