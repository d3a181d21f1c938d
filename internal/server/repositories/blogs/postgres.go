package blogs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/common"
	"inkwell/internal/dbx"
	"inkwell/internal/server/models"
)

// blogColumns selects the row plus the derived like-count and viewer-liked
// flags; the viewer id is always bound as $1 (NULL for anonymous).
const blogColumns = `b.id, b.title, b.body, b.summary, b.author_id, b.category,
	array_to_string(b.tags, ','), b.image_key, b.status, b.is_public, b.views, b.published_at,
	b.created_at, b.updated_at,
	(SELECT count(*) FROM blog_likes bl WHERE bl.blog_id = b.id) AS like_count,
	EXISTS (SELECT 1 FROM blog_likes bl WHERE bl.blog_id = b.id AND bl.user_id = $1::uuid) AS liked`

// searchVector is the delegated full-text predicate target.
const searchVector = `to_tsvector('english', b.title || ' ' || b.summary || ' ' || b.body)`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// viewerArg turns an empty viewer id into SQL NULL so the liked-flag
// subquery never matches for anonymous callers.
func viewerArg(viewerID string) any {
	if viewerID == "" {
		return nil
	}
	return viewerID
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*models.Blog, error) {
	b := &models.Blog{}
	var tags string
	err := row.Scan(&b.ID, &b.Title, &b.Body, &b.Summary, &b.AuthorID, &b.Category,
		&tags, &b.ImageKey, &b.Status, &b.Public, &b.Views, &b.PublishedAt,
		&b.CreatedAt, &b.UpdatedAt, &b.LikeCount, &b.Liked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	b.Tags = splitTags(tags)
	b.ReadTime = b.ReadTimeMinutes()
	return b, nil
}

// appendFilter renders f as WHERE conditions, appending bind values to args.
func appendFilter(f ListFilter, args []any) (string, []any) {
	conds := []string{"true"}
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.VisibleOnly {
		conds = append(conds, "b.status = 'published' AND b.is_public")
	}
	if f.AuthorID != "" {
		add("b.author_id = $%d", f.AuthorID)
	}
	if f.Category != "" {
		add("b.category = $%d", f.Category)
	}
	if f.Status != "" {
		add("b.status = $%d", string(f.Status))
	}
	if f.Search != "" {
		add(searchVector+" @@ plainto_tsquery('english', $%d)", f.Search)
	}

	return strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter, orderBy string, limit, offset int) ([]*models.Blog, error) {

	args := []any{viewerArg(f.ViewerID)}
	cond, args := appendFilter(f, args)

	query := fmt.Sprintf(
		`SELECT `+blogColumns+` FROM blogs b WHERE `+cond+` ORDER BY `+orderBy+` LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, f ListFilter) (int64, error) {

	cond, args := appendFilter(f, nil)
	query := `SELECT count(*) FROM blogs b WHERE ` + cond

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs b WHERE b.id = $2`
	return scanBlog(r.db.QueryRowContext(ctx, query, viewerArg(viewerID), id))
}

func (r *PostgresRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {

	query :=
		`INSERT INTO blogs (title, body, summary, author_id, category, tags, image_key, status, is_public, published_at)
		 VALUES ($1, $2, $3, $4, $5, string_to_array($6, ','), $7, $8, $9, $10)
		 RETURNING id, views, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		blog.Title, blog.Body, blog.Summary, blog.AuthorID, blog.Category,
		joinTags(blog.Tags), blog.ImageKey, blog.Status, blog.Public, blog.PublishedAt).
		Scan(&blog.ID, &blog.Views, &blog.CreatedAt, &blog.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	blog.ReadTime = blog.ReadTimeMinutes()
	return blog, nil
}

func (r *PostgresRepository) Update(ctx context.Context, blog *models.Blog) (*models.Blog, error) {

	query :=
		`UPDATE blogs
		 SET title = $2, body = $3, summary = $4, author_id = $5, category = $6,
		     tags = string_to_array($7, ','), image_key = $8, status = $9, is_public = $10,
		     published_at = $11, updated_at = now()
		 WHERE id = $1
		 RETURNING views, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		blog.ID, blog.Title, blog.Body, blog.Summary, blog.AuthorID, blog.Category,
		joinTags(blog.Tags), blog.ImageKey, blog.Status, blog.Public, blog.PublishedAt).
		Scan(&blog.Views, &blog.CreatedAt, &blog.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	blog.ReadTime = blog.ReadTimeMinutes()
	return blog, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {

	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {

	_, err := r.db.ExecContext(ctx, `UPDATE blogs SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) InsertLike(ctx context.Context, blogID, userID string) (bool, error) {

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO blog_likes (blog_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		blogID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteLike(ctx context.Context, blogID, userID string) (bool, error) {

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`, blogID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) CountLikes(ctx context.Context, blogID string) (int64, error) {

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM blog_likes WHERE blog_id = $1`, blogID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

func (r *PostgresRepository) Popular(ctx context.Context, limit int) ([]*models.Blog, error) {

	query :=
		`SELECT ` + blogColumns + ` FROM blogs b
		 WHERE b.status = 'published' AND b.is_public
		 ORDER BY like_count DESC, b.views DESC, b.published_at DESC
		 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) StatusCounts(ctx context.Context, authorID string) (map[models.BlogStatus]int64, error) {

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM blogs WHERE author_id = $1 GROUP BY status`, authorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := map[models.BlogStatus]int64{}
	for rows.Next() {
		var status models.BlogStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counts, nil
}
