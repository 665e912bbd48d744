package http

import (
	"encoding/json"
	"net/http"

	"github.com/refverify/engine/internal/usecase"
)

// Handler holds the usecases the HTTP layer invokes. It never renders a
// report in any format — only JSON request/response plumbing for the
// verification engine.
type Handler struct {
	verifyUsecase *usecase.VerifyUsecase
	authUsecase   *usecase.AuthUsecase
}

// NewHandler builds a Handler.
func NewHandler(verify *usecase.VerifyUsecase, auth *usecase.AuthUsecase) *Handler {
	return &Handler{verifyUsecase: verify, authUsecase: auth}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type verifyRequest struct {
	RawText string `json:"raw_text"`
}

// Verify handles POST /v1/verify: one reference's raw text in, one
// VerificationResult out.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RawText == "" {
		writeError(w, http.StatusBadRequest, "raw_text is required")
		return
	}

	result := h.verifyUsecase.VerifyOne(r.Context(), req.RawText)
	writeJSON(w, http.StatusOK, result)
}

type verifyBatchRequest struct {
	ReferencesSectionText string   `json:"references_section_text"`
	ReferenceTexts        []string `json:"reference_texts"`
	MaxConcurrent         int      `json:"max_concurrent"`
}

type verifyBatchResponse struct {
	Results    interface{} `json:"results"`
	Diagnosis  interface{} `json:"diagnosis"`
	ParseWarnings []string `json:"parse_warnings,omitempty"`
}

// VerifyBatch handles POST /v1/verify/batch: either a raw references
// blob (parsed first) or a pre-segmented list of reference texts.
func (h *Handler) VerifyBatch(w http.ResponseWriter, r *http.Request) {
	var req verifyBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ReferencesSectionText != "" {
		parseResult, results, diagnosis := h.verifyUsecase.VerifyDocument(r.Context(), req.ReferencesSectionText, req.MaxConcurrent)
		writeJSON(w, http.StatusOK, verifyBatchResponse{
			Results:       results,
			Diagnosis:     diagnosis,
			ParseWarnings: parseResult.BatchWarnings,
		})
		return
	}

	if len(req.ReferenceTexts) == 0 {
		writeError(w, http.StatusBadRequest, "references_section_text or reference_texts is required")
		return
	}

	results, diagnosis := h.verifyUsecase.VerifyPreParsed(r.Context(), req.ReferenceTexts, req.MaxConcurrent)
	writeJSON(w, http.StatusOK, verifyBatchResponse{Results: results, Diagnosis: diagnosis})
}

// Health handles GET /v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

type createKeyRequest struct {
	Label string `json:"label"`
}

type createKeyResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Key   string `json:"key"`
}

// CreateAPIKey handles POST /v1/admin/keys: issues a new service API
// key, returning its plaintext exactly once.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}

	plaintext, record, err := h.authUsecase.CreateAPIKey(r.Context(), req.Label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, createKeyResponse{
		ID:    record.ID.String(),
		Label: record.Label,
		Key:   plaintext,
	})
}
