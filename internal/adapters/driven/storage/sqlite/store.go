package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/eti-labs/arpgen/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// chunk, profile, and icon cache interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.arpgen/data/arpgen.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".arpgen", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "arpgen.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// ProfileStore returns a ProfileStore interface backed by this store.
func (s *Store) ProfileStore() driven.ProfileStore {
	return &profileStore{store: s}
}

// IconCache returns an IconCache interface backed by this store.
func (s *Store) IconCache() driven.IconCache {
	return &iconCache{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// Put stores a batch of chunks. Existing chunk IDs are overwritten in
// place and keep their original sequence position.
func (s *chunkStore) Put(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var nextSeq int64
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM chunks")
	if err := row.Scan(&nextSeq); err != nil {
		return fmt.Errorf("getting next sequence: %w", err)
	}

	for _, chunk := range chunks {
		nextSeq++
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (chunk_id, activity_id, source_id, heading, text,
				jurisdiction, authority_class, publication_date, loc, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(chunk_id) DO UPDATE SET
				activity_id = excluded.activity_id,
				source_id = excluded.source_id,
				heading = excluded.heading,
				text = excluded.text,
				jurisdiction = excluded.jurisdiction,
				authority_class = excluded.authority_class,
				publication_date = excluded.publication_date,
				loc = excluded.loc
		`, chunk.ChunkID, chunk.ActivityID, chunk.SourceID, chunk.Heading, chunk.Text,
			chunk.Jurisdiction, chunk.AuthorityClass, chunk.PublicationDate, chunk.Loc, nextSeq)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a chunk by its fingerprint.
func (s *chunkStore) Get(ctx context.Context, chunkID string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT chunk_id, activity_id, source_id, heading, text,
			jurisdiction, authority_class, publication_date, loc
		FROM chunks WHERE chunk_id = ?
	`, chunkID)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting chunk %s: %w", chunkID, err)
	}
	return chunk, nil
}

// ListBySource returns all chunks for a source in insertion order.
func (s *chunkStore) ListBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_id, activity_id, source_id, heading, text,
			jurisdiction, authority_class, publication_date, loc
		FROM chunks WHERE source_id = ? ORDER BY seq
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks for %s: %w", sourceID, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// AllChunks returns every stored chunk in insertion order. Used to
// rebuild the in-memory search index on startup.
func (s *Store) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, activity_id, source_id, heading, text,
			jurisdiction, authority_class, publication_date, loc
		FROM chunks ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("listing all chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	err := row.Scan(&chunk.ChunkID, &chunk.ActivityID, &chunk.SourceID,
		&chunk.Heading, &chunk.Text, &chunk.Jurisdiction,
		&chunk.AuthorityClass, &chunk.PublicationDate, &chunk.Loc)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// ==================== Profile Store ====================

// profileStore implements driven.ProfileStore.
type profileStore struct {
	store *Store
}

var _ driven.ProfileStore = (*profileStore)(nil)

// Save stores or replaces the profile for an activity. Only validated
// profiles are persisted.
func (s *profileStore) Save(ctx context.Context, activityID int, profile domain.ArpProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO profiles (activity_id, profile, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(activity_id) DO UPDATE SET
			profile = excluded.profile,
			updated_at = excluded.updated_at
	`, activityID, string(raw))
	if err != nil {
		return fmt.Errorf("saving profile %d: %w", activityID, err)
	}
	return nil
}

// Get retrieves the stored profile for an activity.
func (s *profileStore) Get(ctx context.Context, activityID int) (domain.ArpProfile, error) {
	var raw string
	row := s.store.db.QueryRowContext(ctx,
		"SELECT profile FROM profiles WHERE activity_id = ?", activityID)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting profile %d: %w", activityID, err)
	}

	var profile domain.ArpProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("%w: stored profile %d: %v", domain.ErrParse, activityID, err)
	}
	return profile, nil
}

// ==================== Icon Cache ====================

// iconCache implements driven.IconCache.
type iconCache struct {
	store *Store
}

var _ driven.IconCache = (*iconCache)(nil)

// Put stores or replaces an artefact under its composite key.
func (c *iconCache) Put(ctx context.Context, artifact driven.IconArtifact) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO icon_artifacts (input_hash, renderer_version, spec, svg, png, cost_usd)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(input_hash, renderer_version) DO UPDATE SET
			spec = excluded.spec,
			svg = excluded.svg,
			png = excluded.png,
			cost_usd = excluded.cost_usd
	`, artifact.InputHash, artifact.RendererVersion, string(artifact.Spec),
		artifact.SVG, artifact.PNG, artifact.CostUSD)
	if err != nil {
		return fmt.Errorf("saving icon artifact %s/%s: %w",
			artifact.InputHash, artifact.RendererVersion, err)
	}
	return nil
}

// Get retrieves an artefact by its composite key.
func (c *iconCache) Get(ctx context.Context, inputHash, rendererVersion string) (*driven.IconArtifact, error) {
	var artifact driven.IconArtifact
	var spec string
	row := c.store.db.QueryRowContext(ctx, `
		SELECT input_hash, renderer_version, spec, svg, png, cost_usd
		FROM icon_artifacts WHERE input_hash = ? AND renderer_version = ?
	`, inputHash, rendererVersion)
	err := row.Scan(&artifact.InputHash, &artifact.RendererVersion,
		&spec, &artifact.SVG, &artifact.PNG, &artifact.CostUSD)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting icon artifact %s/%s: %w",
			inputHash, rendererVersion, err)
	}
	artifact.Spec = []byte(spec)
	return &artifact, nil
}
