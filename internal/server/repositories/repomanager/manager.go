// Package repomanager vends repository implementations bound to a database
// handle (connection or transaction) and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"inkwell/internal/dbx"
	"inkwell/internal/server/repositories/blogs"
	"inkwell/internal/server/repositories/comments"
	"inkwell/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Blogs(db dbx.DBTX) blogs.Repository
	Comments(db dbx.DBTX) comments.Repository
}
