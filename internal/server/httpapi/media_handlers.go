package httpapi

import "net/http"

type presignUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// handlePresignUpload hands the client a short-lived direct-upload URL; the
// returned key is what post image and avatar fields store.
func (s *HTTPServer) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.media.PresignedPutURL(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, presignUploadResponse{Key: key, URL: url})
}
