package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/CTAG07/markovname/pkg/dataset"
)

// SetupSchema initializes the dataset tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaDatasets = `
CREATE TABLE IF NOT EXISTS datasets (
    dataset_id INTEGER PRIMARY KEY,
    dataset_name TEXT NOT NULL UNIQUE,
    source TEXT NOT NULL DEFAULT '',
    word_count INTEGER NOT NULL DEFAULT 0,
    imported_at TEXT NOT NULL
);
`
		schemaWords = `
CREATE TABLE IF NOT EXISTS dataset_words (
    dataset_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    word TEXT NOT NULL,
    PRIMARY KEY (dataset_id, position)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDatasets); err != nil {
		return fmt.Errorf("could not create datasets schema: %w", err)
	}
	if _, err = tx.Exec(schemaWords); err != nil {
		return fmt.Errorf("could not create words schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store is a dataset.Source backed by SQLite. It holds the database connection
// and prepared statements for the read paths.
type Store struct {
	db               *sql.DB
	stmtGetDatasetID *sql.Stmt
	stmtListDatasets *sql.Stmt
	stmtGetWords     *sql.Stmt
	logger           *slog.Logger
}

var _ dataset.Source = (*Store)(nil)

// New creates a Store on a database whose schema was set up with SetupSchema.
func New(db *sql.DB) (*Store, error) {
	stmtGetDatasetID, err := db.Prepare(`SELECT dataset_id FROM datasets WHERE dataset_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListDatasets, err := db.Prepare(`SELECT dataset_name, source, word_count FROM datasets ORDER BY dataset_name;`)
	if err != nil {
		_ = stmtGetDatasetID.Close()
		return nil, err
	}

	stmtGetWords, err := db.Prepare(`SELECT word FROM dataset_words WHERE dataset_id = ? ORDER BY position;`)
	if err != nil {
		_ = stmtGetDatasetID.Close()
		_ = stmtListDatasets.Close()
		return nil, err
	}

	return &Store{
		db:               db,
		stmtGetDatasetID: stmtGetDatasetID,
		stmtListDatasets: stmtListDatasets,
		stmtGetWords:     stmtGetWords,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases the prepared statements. The database itself stays open.
func (s *Store) Close() {
	_ = s.stmtGetDatasetID.Close()
	_ = s.stmtListDatasets.Close()
	_ = s.stmtGetWords.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// List returns every stored dataset sorted by name.
func (s *Store) List(ctx context.Context) ([]dataset.Info, error) {
	rows, err := s.stmtListDatasets.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var infos []dataset.Info
	for rows.Next() {
		var info dataset.Info
		if err = rows.Scan(&info.Key, &info.Path, &info.Words); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Load returns the words of the named dataset in their original order.
func (s *Store) Load(ctx context.Context, name string) ([]string, error) {
	var datasetID int64
	err := s.stmtGetDatasetID.QueryRowContext(ctx, name).Scan(&datasetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: '%s' in database", dataset.ErrDatasetNotFound, name)
		}
		return nil, fmt.Errorf("could not get dataset ID for '%s': %w", name, err)
	}

	rows, err := s.stmtGetWords.QueryContext(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("could not query words of '%s': %w", name, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var words []string
	for rows.Next() {
		var word string
		if err = rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: dataset '%s' holds no words", dataset.ErrInvalidDataset, name)
	}
	return words, nil
}

// ImportDataset stores words under name, replacing any dataset of the same name.
// The entire operation is performed within a single transaction.
func (s *Store) ImportDataset(ctx context.Context, name, source string, words []string) error {
	if name == "" {
		return fmt.Errorf("%w: dataset name is empty", dataset.ErrInvalidDataset)
	}
	if len(words) == 0 {
		return fmt.Errorf("%w: dataset '%s' holds no words", dataset.ErrInvalidDataset, name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = deleteDataset(ctx, tx, name); err != nil && !errors.Is(err, dataset.ErrDatasetNotFound) {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (dataset_name, source, word_count, imported_at) VALUES (?, ?, ?, ?)`,
		name, source, len(words), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert dataset '%s': %w", name, err)
	}
	datasetID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get id of dataset '%s': %w", name, err)
	}

	stmtInsertWord, err := tx.PrepareContext(ctx, `INSERT INTO dataset_words (dataset_id, position, word) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare word insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertWord)

	for i, word := range words {
		if _, err = stmtInsertWord.ExecContext(ctx, datasetID, i, word); err != nil {
			return fmt.Errorf("failed to insert word %d of '%s': %w", i, name, err)
		}
	}

	s.logger.InfoContext(ctx, "Dataset imported",
		slog.String("dataset_name", name),
		slog.Int64("dataset_id", datasetID),
		slog.String("source", source),
		slog.Int("words", len(words)),
	)

	return tx.Commit()
}

// ImportSource copies every dataset of src into the store and returns how many
// were imported. It stops at the first dataset that fails.
func (s *Store) ImportSource(ctx context.Context, src dataset.Source) (int, error) {
	infos, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not list source datasets: %w", err)
	}
	imported := 0
	for _, info := range infos {
		words, err := src.Load(ctx, info.Key)
		if err != nil {
			return imported, fmt.Errorf("could not load dataset '%s': %w", info.Key, err)
		}
		if err = s.ImportDataset(ctx, info.Key, info.Path, words); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// Remove deletes a dataset and all of its words. The operation is performed
// within a transaction.
func (s *Store) Remove(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = deleteDataset(ctx, tx, name); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Dataset removed", slog.String("dataset_name", name))
	return tx.Commit()
}

func deleteDataset(ctx context.Context, tx *sql.Tx, name string) error {
	var datasetID int64
	err := tx.QueryRowContext(ctx, "SELECT dataset_id FROM datasets WHERE dataset_name = ?", name).Scan(&datasetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: '%s' in database", dataset.ErrDatasetNotFound, name)
		}
		return fmt.Errorf("failed to query dataset '%s': %w", name, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM dataset_words WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("failed to remove words of dataset %d: %w", datasetID, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM datasets WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("failed to remove dataset %d: %w", datasetID, err)
	}
	return nil
}
