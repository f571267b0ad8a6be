package api

import (
	"net/http"
	"strconv"

	"github.com/storybridge/storybridge-api/internal/store"
)

// AudioHandler serves stored narration audio.
type AudioHandler struct {
	blobStore store.BlobStore
}

// NewAudioHandler creates a new AudioHandler with the given dependencies.
func NewAudioHandler(blobStore store.BlobStore) *AudioHandler {
	return &AudioHandler{
		blobStore: blobStore,
	}
}

// Get handles GET /audio/{audioID} requests, streaming the asset bytes
// with its stored content type.
func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	audioID, ok := getPathUUID(w, r, "audioID")
	if !ok {
		return
	}

	data, contentType, err := h.blobStore.Get(r.Context(), audioID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// Client likely disconnected mid-stream; nothing to recover.
		return
	}
}
