package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/recall/internal/domain"
)

const cardColumns = `
	id, content_id, content_type, subject, difficulty,
	interval_days, ease_factor, review_count,
	next_review, last_reviewed, created_at,
	success_streak, total_attempts, total_correct, retention_strength`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (domain.Card, error) {
	var c domain.Card
	err := s.Scan(
		&c.ID, &c.ContentID, &c.ContentType, &c.Subject, &c.Difficulty,
		&c.Interval, &c.EaseFactor, &c.ReviewCount,
		&c.NextReview, &c.LastReviewed, &c.CreatedAt,
		&c.SuccessStreak, &c.TotalAttempts, &c.TotalCorrect, &c.RetentionStrength,
	)
	return c, err
}

// InsertCard stores a newly scheduled card.
func (db *DB) InsertCard(c domain.Card) error {
	_, err := db.conn.Exec(`
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.ContentID, c.ContentType, c.Subject, c.Difficulty,
		c.Interval, c.EaseFactor, c.ReviewCount,
		c.NextReview.UTC(), c.LastReviewed.UTC(), c.CreatedAt.UTC(),
		c.SuccessStreak, c.TotalAttempts, c.TotalCorrect, c.RetentionStrength,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", c.ID, err)
	}
	return nil
}

// FindCardByID retrieves a card by its scheduling id. It returns nil, nil
// when there is no such card.
func (db *DB) FindCardByID(id string) (*domain.Card, error) {
	return db.findCard(`id = ?`, id)
}

// FindCardByContentID retrieves the card scheduled for a content entry.
func (db *DB) FindCardByContentID(contentID string) (*domain.Card, error) {
	return db.findCard(`content_id = ?`, contentID)
}

func (db *DB) findCard(where string, arg any) (*domain.Card, error) {
	row := db.conn.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE `+where, arg)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find card %v: %w", arg, err)
	}
	return &c, nil
}

// ListCards returns every card ordered by next review time.
func (db *DB) ListCards() ([]domain.Card, error) {
	rows, err := db.conn.Query(`SELECT ` + cardColumns + ` FROM cards ORDER BY next_review, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateCardReview stores the result of a review. The write only applies if
// the stored review count still equals prevReviewCount; otherwise another
// review landed first and ErrStaleCard is returned.
func (db *DB) UpdateCardReview(c domain.Card, prevReviewCount int) error {
	res, err := db.conn.Exec(`
		UPDATE cards
		SET interval_days = ?, ease_factor = ?, review_count = ?,
		    next_review = ?, last_reviewed = ?,
		    success_streak = ?, total_attempts = ?, total_correct = ?, retention_strength = ?
		WHERE id = ? AND review_count = ?
	`,
		c.Interval, c.EaseFactor, c.ReviewCount,
		c.NextReview.UTC(), c.LastReviewed.UTC(),
		c.SuccessStreak, c.TotalAttempts, c.TotalCorrect, c.RetentionStrength,
		c.ID, prevReviewCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", c.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("card %s at review %d: %w", c.ID, prevReviewCount, ErrStaleCard)
	}
	return nil
}
