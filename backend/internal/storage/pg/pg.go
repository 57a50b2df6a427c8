package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/config"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/logger"
	sharedpg "github.com/campusboard/campusboard/shared/storage/pg"
	"github.com/lib/pq"
)

// Querier is an alias for the shared Querier so this package can use the short name.
type Querier = sharedpg.Querier

//go:embed migrations/init.sql
var schema string

type Storage struct {
	db       *sql.DB
	resolver *storage.Resolver
	now      func() time.Time
}

var _ storage.Storage = (*Storage)(nil)
var _ storage.Source = (*Storage)(nil)

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Component("pg")
	log.Info("connecting to db", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	log.Info("successfully connected to db")
	return FromDB(db), nil
}

// FromDB wraps an already open connection pool.
func FromDB(db *sql.DB) *Storage {
	s := &Storage{db: db, now: func() time.Time { return time.Now().UTC() }}
	s.resolver = storage.NewResolver(s)
	return s
}

// Migrate creates missing tables and indexes. It is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return sharedpg.WithTx(ctx, s.db, fn)
}

type scanner interface {
	Scan(dest ...any) error
}

// missingId returns the first id in ids with no row in table, or ok=true when
// all exist. table is always a package constant.
func missingId(ctx context.Context, q Querier, table string, ids []int64) (int64, bool, error) {
	if len(ids) == 0 {
		return 0, true, nil
	}
	var missing int64
	err := q.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT wanted.id
		FROM unnest($1::bigint[]) WITH ORDINALITY AS wanted(id, ord)
		WHERE NOT EXISTS (SELECT 1 FROM %s t WHERE t.id = wanted.id)
		ORDER BY wanted.ord
		LIMIT 1`, pq.QuoteIdentifier(table)),
		pq.Array(ids),
	).Scan(&missing)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to check %s references: %w", table, err)
	}
	return missing, false, nil
}

func exists(ctx context.Context, q Querier, table string, id int64) (bool, error) {
	var found bool
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", pq.QuoteIdentifier(table)),
		id,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return found, nil
}

// =========================================================================
// storage.Source
// =========================================================================

func (s *Storage) RolesByIds(ctx context.Context, ids []domain.RoleId) (map[domain.RoleId]domain.Role, error) {
	roles, err := s.queryRoles(ctx, s.db, "WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[domain.RoleId]domain.Role, len(roles))
	for _, r := range roles {
		out[r.Id] = r
	}
	return out, nil
}

func (s *Storage) UsersByIds(ctx context.Context, ids []domain.UserId) (map[domain.UserId]domain.User, error) {
	users, err := s.queryUsers(ctx, s.db, "WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[domain.UserId]domain.User, len(users))
	for _, u := range users {
		out[u.Id] = u
	}
	return out, nil
}

func (s *Storage) BoardsByIds(ctx context.Context, ids []domain.BoardId) (map[domain.BoardId]domain.Board, error) {
	boards, err := s.queryBoards(ctx, s.db, "WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[domain.BoardId]domain.Board, len(boards))
	for _, b := range boards {
		out[b.Id] = b
	}
	return out, nil
}

func (s *Storage) FilesByIds(ctx context.Context, ids []domain.FileId) (map[domain.FileId]domain.File, error) {
	files, err := s.queryFiles(ctx, s.db, "WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[domain.FileId]domain.File, len(files))
	for _, f := range files {
		out[f.Id] = f
	}
	return out, nil
}

func (s *Storage) RepliesByIds(ctx context.Context, ids []domain.ReplyId) (map[domain.ReplyId]domain.Reply, error) {
	replies, err := s.queryReplies(ctx, s.db, "WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ReplyId]domain.Reply, len(replies))
	for _, r := range replies {
		out[r.Id] = r
	}
	return out, nil
}
