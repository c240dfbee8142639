package terminology

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/terminology/mock_repository.go -package=mock_terminology

// CodeRepository defines catalogue queries over stored code entries.
type CodeRepository interface {
	// FindBySystemAndCode returns nil without an error when no entry exists.
	FindBySystemAndCode(ctx context.Context, systemURI, code string) (*CodeEntry, error)
	// FindFiltered returns one page of entries whose code or display contains
	// filter (case-insensitive), optionally narrowed to systemURI when it is
	// non-empty, together with the total match count.
	FindFiltered(ctx context.Context, systemURI, filter string, page, size int) ([]CodeEntry, int, error)
	// FindPage returns one unfiltered page together with the total entry count.
	FindPage(ctx context.Context, page, size int) ([]CodeEntry, int, error)
	Upsert(ctx context.Context, entry *CodeEntry) error
	Count(ctx context.Context) (int64, error)
}

// ConceptMapRepository defines queries over stored concept mappings.
type ConceptMapRepository interface {
	FindBySource(ctx context.Context, sourceSystem, sourceCode string) ([]ConceptMapping, error)
	Upsert(ctx context.Context, mapping *ConceptMapping) error
	Count(ctx context.Context) (int64, error)
}

// DBCodeRepository implements CodeRepository using MySQL.
type DBCodeRepository struct {
	db *sqlx.DB
}

// NewDBCodeRepository creates a new DBCodeRepository.
func NewDBCodeRepository(db *sqlx.DB) *DBCodeRepository {
	return &DBCodeRepository{db: db}
}

func (r *DBCodeRepository) FindBySystemAndCode(ctx context.Context, systemURI, code string) (*CodeEntry, error) {
	var entry CodeEntry
	err := r.db.GetContext(ctx, &entry,
		"SELECT * FROM code_system_entries WHERE system_uri = ? AND code = ?",
		systemURI, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load code entry: %w", err)
	}
	return &entry, nil
}

func (r *DBCodeRepository) FindFiltered(ctx context.Context, systemURI, filter string, page, size int) ([]CodeEntry, int, error) {
	pattern := "%" + strings.ToLower(filter) + "%"

	where := "(LOWER(code) LIKE ? OR LOWER(display) LIKE ?)"
	args := []any{pattern, pattern}
	if systemURI != "" {
		where = "system_uri = ? AND " + where
		args = []any{systemURI, pattern, pattern}
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM code_system_entries WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count filtered code entries: %w", err)
	}

	var entries []CodeEntry
	query := "SELECT * FROM code_system_entries WHERE " + where + " ORDER BY code LIMIT ? OFFSET ?"
	args = append(args, size, page*size)
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("load filtered code entries: %w", err)
	}
	return entries, total, nil
}

func (r *DBCodeRepository) FindPage(ctx context.Context, page, size int) ([]CodeEntry, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM code_system_entries"); err != nil {
		return nil, 0, fmt.Errorf("count code entries: %w", err)
	}

	var entries []CodeEntry
	if err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM code_system_entries ORDER BY code LIMIT ? OFFSET ?",
		size, page*size); err != nil {
		return nil, 0, fmt.Errorf("load code entries: %w", err)
	}
	return entries, total, nil
}

// Upsert inserts an entry or updates display, definition and version of the
// existing (system_uri, code) row in place.
func (r *DBCodeRepository) Upsert(ctx context.Context, entry *CodeEntry) error {
	_, err := r.db.NamedExecContext(ctx,
		"INSERT INTO code_system_entries (system_uri, code, display, definition, version, created_at, updated_at) "+
			"VALUES (:system_uri, :code, :display, :definition, :version, NOW(), NOW()) "+
			"ON DUPLICATE KEY UPDATE display = VALUES(display), definition = VALUES(definition), "+
			"version = VALUES(version), updated_at = NOW()",
		entry)
	if err != nil {
		return fmt.Errorf("upsert code entry: %w", err)
	}
	return nil
}

func (r *DBCodeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM code_system_entries"); err != nil {
		return 0, fmt.Errorf("count code entries: %w", err)
	}
	return count, nil
}

// DBConceptMapRepository implements ConceptMapRepository using MySQL.
type DBConceptMapRepository struct {
	db *sqlx.DB
}

// NewDBConceptMapRepository creates a new DBConceptMapRepository.
func NewDBConceptMapRepository(db *sqlx.DB) *DBConceptMapRepository {
	return &DBConceptMapRepository{db: db}
}

func (r *DBConceptMapRepository) FindBySource(ctx context.Context, sourceSystem, sourceCode string) ([]ConceptMapping, error) {
	var mappings []ConceptMapping
	if err := r.db.SelectContext(ctx, &mappings,
		"SELECT * FROM concept_map_entries WHERE source_system = ? AND source_code = ? ORDER BY id",
		sourceSystem, sourceCode); err != nil {
		return nil, fmt.Errorf("load concept mappings: %w", err)
	}
	return mappings, nil
}

// Upsert inserts a mapping or updates the target code, equivalence, comment,
// provenance and version of the existing
// (source_system, source_code, target_system) row in place.
func (r *DBConceptMapRepository) Upsert(ctx context.Context, mapping *ConceptMapping) error {
	_, err := r.db.NamedExecContext(ctx,
		"INSERT INTO concept_map_entries (source_system, source_code, target_system, target_code_or_uri, equivalence, comment, provenance, version, created_at, updated_at) "+
			"VALUES (:source_system, :source_code, :target_system, :target_code_or_uri, :equivalence, :comment, :provenance, :version, NOW(), NOW()) "+
			"ON DUPLICATE KEY UPDATE target_code_or_uri = VALUES(target_code_or_uri), equivalence = VALUES(equivalence), "+
			"comment = VALUES(comment), provenance = VALUES(provenance), version = VALUES(version), updated_at = NOW()",
		mapping)
	if err != nil {
		return fmt.Errorf("upsert concept mapping: %w", err)
	}
	return nil
}

func (r *DBConceptMapRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM concept_map_entries"); err != nil {
		return 0, fmt.Errorf("count concept mappings: %w", err)
	}
	return count, nil
}
