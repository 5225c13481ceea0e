package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/query"
)

const (
	entriesTable   = "pandal_entries"
	entryIDSeqName = "pandal_entry_ids"
)

var entryColumns = []string{
	"id",
	"title",
	"location",
	"rating",
	"likes",
	"to_char(entry_date, 'YYYY-MM-DD')",
	"image",
	"pandal",
	"category",
}

var _ CatalogStore = (*PostgresStore)(nil)

// PostgresStore implements CatalogStore on PostgreSQL. Store order is the
// insertion sequence (seq) descending.
type PostgresStore struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

// NewPostgresStore constructs a PostgresStore. The schema must already exist
// (see database.Migrate).
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Seed inserts seed when the table is empty. Entries are written oldest
// first so that seed[0] ends up at the head of the listing, and the id
// sequence is advanced past the highest seeded id.
func (s *PostgresStore) Seed(ctx context.Context, seed []model.Entry) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM `+entriesTable).Scan(&n); err != nil {
		return fmt.Errorf("count entries: %w", err)
	}
	if n > 0 {
		return tx.Commit(ctx)
	}

	for i := len(seed) - 1; i >= 0; i-- {
		e := seed[i]
		date, err := parseEntryDate(e.Date)
		if err != nil {
			return err
		}
		sqlStr, args, err := s.sb.
			Insert(entriesTable).
			Columns("id", "title", "location", "pandal", "category", "image", "rating", "likes", "entry_date").
			Values(e.ID, e.Title, e.Location, e.Pandal, e.Category, e.Image, e.Rating, e.Likes, date).
			ToSql()
		if err != nil {
			return fmt.Errorf("building seed insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("insert seed entry %d: %w", e.ID, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`SELECT setval('`+entryIDSeqName+`', (SELECT COALESCE(MAX(id), 0) + 1 FROM `+entriesTable+`), false)`,
	); err != nil {
		return fmt.Errorf("advance id sequence: %w", err)
	}
	return tx.Commit(ctx)
}

// Create inserts e with the next sequence id. The newest row receives the
// highest seq and so lists first.
func (s *PostgresStore) Create(ctx context.Context, e model.Entry) (model.Entry, error) {
	date, err := parseEntryDate(e.Date)
	if err != nil {
		return model.Entry{}, err
	}
	sqlStr, args, err := s.sb.
		Insert(entriesTable).
		Columns("id", "title", "location", "pandal", "category", "image", "rating", "likes", "entry_date").
		Values(sq.Expr("nextval('"+entryIDSeqName+"')"), e.Title, e.Location, e.Pandal, e.Category, e.Image, e.Rating, e.Likes, date).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.Entry{}, fmt.Errorf("building entry insert: %w", err)
	}
	if err := s.db.QueryRow(ctx, sqlStr, args...).Scan(&e.ID); err != nil {
		return model.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return e, nil
}

// FindByID returns a single entry or ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, id int64) (model.Entry, error) {
	sqlStr, args, err := s.sb.
		Select(entryColumns...).
		From(entriesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Entry{}, fmt.Errorf("building entry lookup: %w", err)
	}
	e, err := scanEntry(s.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entry{}, ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// Like increments likes in a single UPDATE so concurrent likes serialise on
// the row lock.
func (s *PostgresStore) Like(ctx context.Context, id int64) (model.Entry, error) {
	sqlStr, args, err := s.sb.
		Update(entriesTable).
		Set("likes", sq.Expr("likes + 1")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(entryColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Entry{}, fmt.Errorf("building like update: %w", err)
	}
	e, err := scanEntry(s.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entry{}, ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("like entry: %w", err)
	}
	return e, nil
}

// List returns the entries passing f, newest first.
func (s *PostgresStore) List(ctx context.Context, f model.ListFilter) ([]model.Entry, error) {
	sqlStr, args, err := s.listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}
	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the catalog in one query.
func (s *PostgresStore) Stats(ctx context.Context) (model.Stats, error) {
	sqlStr, args, err := s.sb.
		Select("COUNT(*)", "COALESCE(SUM(likes), 0)", "COALESCE(AVG(rating), 0)").
		From(entriesTable).
		ToSql()
	if err != nil {
		return model.Stats{}, fmt.Errorf("building stats query: %w", err)
	}
	var st model.Stats
	var avg float64
	if err := s.db.QueryRow(ctx, sqlStr, args...).Scan(&st.TotalPandals, &st.TotalLikes, &avg); err != nil {
		return model.Stats{}, fmt.Errorf("stats: %w", err)
	}
	st.AverageRating = roundTenth(avg)
	return st, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// listQuery mirrors query.Matches in SQL. strpos keeps the search a plain
// substring match with no LIKE wildcards.
func (s *PostgresStore) listQuery(f model.ListFilter) sq.SelectBuilder {
	f = query.Normalize(f)
	q := s.sb.
		Select(entryColumns...).
		From(entriesTable).
		OrderBy("seq DESC")
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.Search != "" {
		q = q.Where(sq.Or{
			sq.Expr("strpos(lower(title), lower(?)) > 0", f.Search),
			sq.Expr("strpos(lower(location), lower(?)) > 0", f.Search),
			sq.Expr("strpos(lower(pandal), lower(?)) > 0", f.Search),
		})
	}
	return q
}

func scanEntry(row pgx.Row) (model.Entry, error) {
	var e model.Entry
	err := row.Scan(&e.ID, &e.Title, &e.Location, &e.Rating, &e.Likes, &e.Date, &e.Image, &e.Pandal, &e.Category)
	return e, err
}

func parseEntryDate(v string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse entry date %q: %w", v, err)
	}
	return d, nil
}
