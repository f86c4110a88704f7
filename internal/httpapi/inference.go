package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"modelrunner/internal/inference"
	"modelrunner/pkg/httpx"
)

// maxAudioUploadBytes caps transcription uploads at 10 MB.
const maxAudioUploadBytes = 10_000_000

// validWAVMimeTypes per https://developer.mozilla.org/en-US/docs/Web/Media/Formats/Containers#wave_wav
var validWAVMimeTypes = []string{"audio/wave", "audio/wav", "audio/x-wav", "audio/x-pn-wav"}

// InferenceHandler serves the generation endpoints. The auth gate has
// already run; no extra capability beyond the baseline is needed here.
type InferenceHandler struct {
	Inference *inference.Service
}

// HandleRaw handles POST /v1/text/raw: bare completion, no prompt template.
func (h *InferenceHandler) HandleRaw(w http.ResponseWriter, r *http.Request) {
	var req RawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	result, err := h.Inference.Raw(r.Context(), req.Model, req.Input, req.MaxLength)
	if err != nil {
		writeInferenceError(w, r, req.Model, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

// HandleInstruct handles POST /v1/text/instruct.
func (h *InferenceHandler) HandleInstruct(w http.ResponseWriter, r *http.Request) {
	var req InstructRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	result, err := h.Inference.Instruct(r.Context(), req.Model, req.Input, req.MaxLength)
	if err != nil {
		writeInferenceError(w, r, req.Model, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

// HandleTranscribe handles POST /v1/audio/transcribe. The multipart form
// carries a "request_content" JSON field and an "audio_content" WAV file.
func (h *InferenceHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Expected a multipart form within the size limit")
		return
	}

	rawReq := r.FormValue("request_content")
	if rawReq == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Missing field request_content in multipart form")
		return
	}
	var req TranscribeRequest
	if err := json.Unmarshal([]byte(rawReq), &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request_content field")
		return
	}

	file, header, err := r.FormFile("audio_content")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Missing field audio_content in multipart form")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !isValidWAVMime(ct) {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid mime type in content-type header for audio_content field")
		return
	}

	result, err := h.Inference.Transcribe(r.Context(), req.Model, req.Language, header.Filename, file)
	if err != nil {
		writeInferenceError(w, r, req.Model, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func isValidWAVMime(contentType string) bool {
	for _, mime := range validWAVMimeTypes {
		if contentType == mime {
			return true
		}
	}
	return false
}

func writeInferenceError(w http.ResponseWriter, r *http.Request, model string, err error) {
	if errors.Is(err, inference.ErrModelNotFound) {
		httpx.WriteError(w, http.StatusNotFound,
			"model_not_found", "Model "+model+" not found")
		return
	}
	// The upstream failed; don't echo its error detail to the caller.
	writeServerError(w, r, "inference upstream failure", err)
}
