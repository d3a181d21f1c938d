package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/server/models"
	"inkwell/internal/server/services"
)

func pageQuery(r *http.Request) (int, int, error) {
	page, err := intQuery(r, "page")
	if err != nil {
		return 0, 0, err
	}
	size, err := intQuery(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func writeCommentPage(w http.ResponseWriter, list []*models.Comment, info services.PageInfo) {
	pg := models.NewPagination(info.Page, info.Size, info.Total)
	writeList(w, list, len(list), info.Total, &pg)
}

func (s *HTTPServer) handleListComments(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	caller := callerFromContext(r.Context())
	list, info, err := s.comments.ListByBlog(r.Context(), caller, chi.URLParam(r, "id"), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCommentPage(w, list, info)
}

type commentRequest struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parentComment"`
}

func (s *HTTPServer) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}
	if msg := requiredFields("body", req.Body); msg != "" {
		writeValidation(w, msg)
		return
	}

	caller := callerFromContext(r.Context())
	comment, err := s.comments.Create(r.Context(), caller, chi.URLParam(r, "id"), req.Body, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, comment)
}

func (s *HTTPServer) handleGetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := s.comments.Get(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, comment)
}

func (s *HTTPServer) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}
	if msg := requiredFields("body", req.Body); msg != "" {
		writeValidation(w, msg)
		return
	}

	comment, err := s.comments.Update(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"), req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, comment)
}

func (s *HTTPServer) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.comments.Delete(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "comment deleted")
}

func (s *HTTPServer) handleLikeComment(w http.ResponseWriter, r *http.Request) {
	liked, count, err := s.comments.ToggleLike(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, likeResponse{Liked: liked, LikeCount: count})
}

func (s *HTTPServer) handleCommentReplies(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	caller := callerFromContext(r.Context())
	list, info, err := s.comments.Replies(r.Context(), caller, chi.URLParam(r, "id"), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCommentPage(w, list, info)
}

func (s *HTTPServer) handleUserComments(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	caller := callerFromContext(r.Context())
	list, info, err := s.comments.ByAuthor(r.Context(), caller, chi.URLParam(r, "id"), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCommentPage(w, list, info)
}
