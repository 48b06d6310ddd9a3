package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/recall/internal/domain"
)

// UpsertContent stores a parsed deck entry under its hash. It reports
// whether the entry was new; an existing entry gets its text, metadata and
// source refreshed.
func (db *DB) UpsertContent(c domain.Content, sourceID int64) (bool, error) {
	res, err := db.conn.Exec(`
		INSERT INTO contents (hash, question, answer, context, subject, difficulty, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, c.Hash, c.Question, c.Answer, c.Context, c.Subject, c.Difficulty, sourceID)
	if err != nil {
		return false, fmt.Errorf("failed to insert content %s: %w", c.Hash, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return true, nil
	}

	_, err = db.conn.Exec(`
		UPDATE contents
		SET question = ?, answer = ?, context = ?, subject = ?, difficulty = ?, source_id = ?
		WHERE hash = ?
	`, c.Question, c.Answer, c.Context, c.Subject, c.Difficulty, sourceID, c.Hash)
	if err != nil {
		return false, fmt.Errorf("failed to update content %s: %w", c.Hash, err)
	}
	return false, nil
}

// FindContent retrieves a content entry by hash.
func (db *DB) FindContent(hash string) (*domain.Content, error) {
	var c domain.Content
	err := db.conn.QueryRow(`
		SELECT hash, question, answer, context, subject, difficulty
		FROM contents WHERE hash = ?
	`, hash).Scan(&c.Hash, &c.Question, &c.Answer, &c.Context, &c.Subject, &c.Difficulty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find content %s: %w", hash, err)
	}
	return &c, nil
}

// GetContentHashesBySource lists the hashes of every entry from a source.
func (db *DB) GetContentHashesBySource(sourceID int64) ([]string, error) {
	rows, err := db.conn.Query(`SELECT hash FROM contents WHERE source_id = ?`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents for source ID %d: %w", sourceID, err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan content row for source ID %d: %w", sourceID, err)
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// DeleteContent removes a content entry and the card scheduled for it.
func (db *DB) DeleteContent(hash string) error {
	if _, err := db.conn.Exec(`DELETE FROM contents WHERE hash = ?`, hash); err != nil {
		return fmt.Errorf("failed to delete content %s: %w", hash, err)
	}
	return nil
}
