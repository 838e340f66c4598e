package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dhth/bmm-sub000/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage persists bookmarks and tags in a SQLite database. A single
// instance is safe for concurrent use; reads proceed in parallel.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithClock overrides the clock used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStorage) {
		s.now = now
	}
}

// NewSQLiteStorage opens (creating if needed) the database at path and
// brings its schema up to date.
func NewSQLiteStorage(path string, opts ...Option) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas go in the DSN so that every pooled connection gets them
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStorage{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uri TEXT NOT NULL UNIQUE,
			title TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_updated_at ON bookmarks(updated_at);

		CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS bookmark_tags (
			bookmark_id INTEGER NOT NULL,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (bookmark_id, tag_id),
			FOREIGN KEY (bookmark_id) REFERENCES bookmarks(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_bookmark_tags_tag_id ON bookmark_tags(tag_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveBookmark inserts or updates a single bookmark.
func (s *SQLiteStorage) SaveBookmark(ctx context.Context, input model.BookmarkInput, opts SaveOptions) error {
	return s.SaveBookmarks(ctx, []model.BookmarkInput{input}, opts)
}

// SaveBookmarks upserts all inputs in one transaction - all or nothing.
func (s *SQLiteStorage) SaveBookmarks(ctx context.Context, inputs []model.BookmarkInput, opts SaveOptions) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().Unix()
	for _, input := range inputs {
		if err := saveBookmarkTx(ctx, tx, input, opts, now); err != nil {
			return fmt.Errorf("saving %s: %w", input.URI, err)
		}
	}

	if opts.ResetMissing {
		if err := deleteOrphanedTags(ctx, tx); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func saveBookmarkTx(ctx context.Context, tx *sql.Tx, input model.BookmarkInput, opts SaveOptions, now int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM bookmarks WHERE uri = ?`, input.URI).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx, `
			INSERT INTO bookmarks (uri, title, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, input.URI, nullableString(input.Title), now, now)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}

	case err != nil:
		return err

	default:
		if input.Title != "" || opts.ResetMissing {
			_, err = tx.ExecContext(ctx,
				`UPDATE bookmarks SET title = ?, updated_at = ? WHERE id = ?`,
				nullableString(input.Title), now, id)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE bookmarks SET updated_at = ? WHERE id = ?`, now, id)
		}
		if err != nil {
			return err
		}

		if opts.ResetMissing {
			if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_tags WHERE bookmark_id = ?`, id); err != nil {
				return err
			}
		}
	}

	for _, tag := range input.Tags {
		tagID, err := upsertTag(ctx, tx, tag)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id) VALUES (?, ?)`,
			id, tagID); err != nil {
			return err
		}
	}

	return nil
}

func upsertTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
		return 0, err
	}
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	return id, err
}

// deleteOrphanedTags removes tags no bookmark refers to anymore.
func deleteOrphanedTags(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM tags
		WHERE id NOT IN (SELECT DISTINCT tag_id FROM bookmark_tags)
	`)
	if err != nil {
		return fmt.Errorf("deleting orphaned tags: %w", err)
	}
	return nil
}

// GetBookmark returns the bookmark with the given URI, or ErrNotFound.
func (s *SQLiteStorage) GetBookmark(ctx context.Context, uri string) (model.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, selectBookmarkFields+` WHERE b.uri = ?`, uri)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("getting bookmark: %w", err)
	}
	defer rows.Close()

	bookmarks, err := scanBookmarks(rows)
	if err != nil {
		return model.Bookmark{}, err
	}
	if len(bookmarks) == 0 {
		return model.Bookmark{}, fmt.Errorf("bookmark %q: %w", uri, ErrNotFound)
	}
	return bookmarks[0], nil
}

// FieldedSearch returns bookmarks matching every predicate in filter, most
// recently updated first.
func (s *SQLiteStorage) FieldedSearch(ctx context.Context, filter model.FieldFilter, limit int) ([]model.Bookmark, error) {
	query, args := buildFieldedQuery(filter, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// SearchByTerms returns bookmarks where every term is found in the URI, the
// title or one of the tags, most recently updated first.
func (s *SQLiteStorage) SearchByTerms(ctx context.Context, terms model.SearchTerms, limit int) ([]model.Bookmark, error) {
	query, args := buildTermsQuery(terms, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching bookmarks: %w", err)
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// TagsWithCounts returns every tag in use with its bookmark count, by name.
func (s *SQLiteStorage) TagsWithCounts(ctx context.Context) ([]model.TagStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, COUNT(bt.bookmark_id)
		FROM tags t
		JOIN bookmark_tags bt ON bt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	tags := []model.TagStats{}
	for rows.Next() {
		var ts model.TagStats
		if err := rows.Scan(&ts.Name, &ts.NumBookmarks); err != nil {
			return nil, err
		}
		tags = append(tags, ts)
	}

	return tags, rows.Err()
}

// DeleteBookmarks removes the bookmarks with the given URIs and returns how
// many existed. Tags left without bookmarks are removed as well.
func (s *SQLiteStorage) DeleteBookmarks(ctx context.Context, uris []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	deleted := 0
	for _, uri := range uris {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM bookmark_tags
			WHERE bookmark_id IN (SELECT id FROM bookmarks WHERE uri = ?)
		`, uri); err != nil {
			return 0, fmt.Errorf("deleting tags of %s: %w", uri, err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE uri = ?`, uri)
		if err != nil {
			return 0, fmt.Errorf("deleting %s: %w", uri, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		deleted += int(n)
	}

	if err := deleteOrphanedTags(ctx, tx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// RenameTag renames a tag. If newName already exists the two are merged.
func (s *SQLiteStorage) RenameTag(ctx context.Context, oldName, newName string) error {
	if err := model.ValidateTag(newName); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, oldName).Scan(&oldID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("tag %q: %w", oldName, ErrNotFound)
	}
	if err != nil {
		return err
	}

	var newID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, newName).Scan(&newID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ?`, newName, oldID); err != nil {
			return fmt.Errorf("renaming tag: %w", err)
		}
	case err != nil:
		return err
	case newID == oldID:
		return nil
	default:
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id)
			SELECT bookmark_id, ? FROM bookmark_tags WHERE tag_id = ?
		`, newID, oldID); err != nil {
			return fmt.Errorf("merging tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_tags WHERE tag_id = ?`, oldID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, oldID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteTags removes the named tags from every bookmark and returns how many
// tags existed.
func (s *SQLiteStorage) DeleteTags(ctx context.Context, names []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	deleted := 0
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM bookmark_tags
			WHERE tag_id IN (SELECT id FROM tags WHERE name = ?)
		`, name); err != nil {
			return 0, fmt.Errorf("deleting tag %s: %w", name, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name)
		if err != nil {
			return 0, fmt.Errorf("deleting tag %s: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		deleted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// scanBookmarks reads rows produced by selectBookmarkFields.
func scanBookmarks(rows *sql.Rows) ([]model.Bookmark, error) {
	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		var title sql.NullString
		var tags sql.NullString

		if err := rows.Scan(&b.URI, &title, &b.UpdatedAt, &tags); err != nil {
			return nil, err
		}

		b.Title = title.String
		b.Tags = []string{}
		if tags.Valid && tags.String != "" {
			b.Tags = strings.Split(tags.String, ",")
			sort.Strings(b.Tags)
		}

		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
