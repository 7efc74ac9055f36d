// Package repomanager wires repository constructors to database handles and
// owns schema migration plumbing.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avetrovs/sessionkeeper/internal/dbx"
	"github.com/avetrovs/sessionkeeper/internal/server/repositories/refreshtokens"
	"github.com/avetrovs/sessionkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a concrete DBTX, so services
// can use the same repository code inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
