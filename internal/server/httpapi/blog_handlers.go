package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/common"
	"inkwell/internal/server/models"
	"inkwell/internal/server/services"
)

// intQuery parses an optional positive-int query parameter; absent means 0
// (services apply the defaults).
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.ErrorBadRequest
	}
	return n, nil
}

func listParamsFromQuery(r *http.Request) (services.ListParams, error) {
	page, err := intQuery(r, "page")
	if err != nil {
		return services.ListParams{}, err
	}
	size, err := intQuery(r, "limit")
	if err != nil {
		return services.ListParams{}, err
	}
	q := r.URL.Query()
	return services.ListParams{
		Page:     page,
		Size:     size,
		Sort:     q.Get("sort"),
		Category: q.Get("category"),
		AuthorID: q.Get("author"),
		Search:   q.Get("search"),
		Status:   models.BlogStatus(q.Get("status")),
	}, nil
}

func (s *HTTPServer) listBlogs(w http.ResponseWriter, r *http.Request, p services.ListParams) {
	caller := callerFromContext(r.Context())
	list, info, err := s.blogs.List(r.Context(), caller, p)
	if err != nil {
		writeError(w, err)
		return
	}

	pg := models.NewPagination(info.Page, info.Size, info.Total)
	writeList(w, list, len(list), info.Total, &pg)
}

func (s *HTTPServer) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	p, err := listParamsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.listBlogs(w, r, p)
}

func (s *HTTPServer) handleSearchBlogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeValidation(w, "missing required query parameter: q")
		return
	}
	p, err := listParamsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p.Search = q
	s.listBlogs(w, r, p)
}

func (s *HTTPServer) handleBlogsByCategory(w http.ResponseWriter, r *http.Request) {
	p, err := listParamsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p.Category = chi.URLParam(r, "category")
	s.listBlogs(w, r, p)
}

func (s *HTTPServer) handleUserBlogs(w http.ResponseWriter, r *http.Request) {
	p, err := listParamsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p.AuthorID = chi.URLParam(r, "id")
	s.listBlogs(w, r, p)
}

func (s *HTTPServer) handlePopularBlogs(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := s.blogs.Popular(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	count := len(list)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: list, Count: &count})
}

func (s *HTTPServer) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := s.blogs.Get(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// Cover images are stored by key; the response carries a short-lived
	// download URL. A presign failure degrades to key-only, not an error.
	if blog.ImageKey != "" {
		if url, err := s.media.PresignedGetURL(r.Context(), blog.ImageKey); err == nil {
			blog.ImageURL = url
		}
	}
	writeData(w, http.StatusOK, blog)
}

type blogRequest struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Summary  string            `json:"summary"`
	Category string            `json:"category"`
	Tags     []string          `json:"tags"`
	ImageKey string            `json:"imageKey"`
	Status   models.BlogStatus `json:"status"`
	Public   *bool             `json:"isPublic"`
}

func (s *HTTPServer) handleCreateBlog(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}
	if msg := requiredFields("title", req.Title, "body", req.Body, "category", req.Category); msg != "" {
		writeValidation(w, msg)
		return
	}

	blog, err := s.blogs.Create(r.Context(), callerFromContext(r.Context()), services.CreateParams{
		Title:    req.Title,
		Body:     req.Body,
		Summary:  req.Summary,
		Category: req.Category,
		Tags:     req.Tags,
		ImageKey: req.ImageKey,
		Status:   req.Status,
		Public:   req.Public,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, blog)
}

type blogUpdateRequest struct {
	Title    *string            `json:"title"`
	Body     *string            `json:"body"`
	Summary  *string            `json:"summary"`
	Category *string            `json:"category"`
	Tags     *[]string          `json:"tags"`
	ImageKey *string            `json:"imageKey"`
	Status   *models.BlogStatus `json:"status"`
	Public   *bool              `json:"isPublic"`
	AuthorID *string            `json:"author"`
}

func (s *HTTPServer) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	var req blogUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}

	blog, err := s.blogs.Update(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"), services.UpdateParams{
		Title:    req.Title,
		Body:     req.Body,
		Summary:  req.Summary,
		Category: req.Category,
		Tags:     req.Tags,
		ImageKey: req.ImageKey,
		Status:   req.Status,
		Public:   req.Public,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, blog)
}

func (s *HTTPServer) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := s.blogs.Delete(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "blog deleted")
}

type likeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

func (s *HTTPServer) handleLikeBlog(w http.ResponseWriter, r *http.Request) {
	liked, count, err := s.blogs.ToggleLike(r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, likeResponse{Liked: liked, LikeCount: count})
}

type myBlogsResponse struct {
	Blogs        []*models.Blog              `json:"blogs"`
	StatusCounts map[models.BlogStatus]int64 `json:"statusCounts"`
}

func (s *HTTPServer) handleMyBlogs(w http.ResponseWriter, r *http.Request) {
	p, err := listParamsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	caller := callerFromContext(r.Context())
	list, info, counts, err := s.blogs.Mine(r.Context(), caller, p)
	if err != nil {
		writeError(w, err)
		return
	}

	pg := models.NewPagination(info.Page, info.Size, info.Total)
	count := len(list)
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       myBlogsResponse{Blogs: list, StatusCounts: counts},
		Pagination: &pg,
		Total:      &info.Total,
		Count:      &count,
	})
}
