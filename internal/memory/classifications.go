package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Classification is a cached classifier answer for one task.
type Classification struct {
	TaskID       string
	ContentHash  string
	Context      string
	Classifier   string
	ClassifiedAt time.Time
}

// GetClassification returns the cached answer for a task if its content
// hash still matches.
func (s *SQLiteStore) GetClassification(ctx context.Context, taskID, contentHash string) (Classification, bool, error) {
	var (
		c  Classification
		at string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT task_id, content_hash, context, classifier, classified_at
		FROM classifications WHERE task_id = ? AND content_hash = ?`,
		taskID, contentHash).Scan(&c.TaskID, &c.ContentHash, &c.Context, &c.Classifier, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Classification{}, false, nil
	}
	if err != nil {
		return Classification{}, false, fmt.Errorf("get classification %s: %w", taskID, err)
	}
	c.ClassifiedAt, _ = time.Parse(time.RFC3339, at)
	return c, true, nil
}

// PutClassification stores or replaces the cached answer for a task.
func (s *SQLiteStore) PutClassification(ctx context.Context, c Classification) error {
	if c.ClassifiedAt.IsZero() {
		c.ClassifiedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classifications (task_id, content_hash, context, classifier, classified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			context = excluded.context,
			classifier = excluded.classifier,
			classified_at = excluded.classified_at`,
		c.TaskID, c.ContentHash, c.Context, c.Classifier, c.ClassifiedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put classification %s: %w", c.TaskID, err)
	}
	return nil
}

// ClassificationCounts returns the number of cached tasks per context.
func (s *SQLiteStore) ClassificationCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT context, COUNT(*) FROM classifications GROUP BY context`)
	if err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[label] = n
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return counts, nil
}

// PurgeClassifications removes every cached answer.
func (s *SQLiteStore) PurgeClassifications(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM classifications`)
	if err != nil {
		return 0, fmt.Errorf("purge classifications: %w", err)
	}
	return res.RowsAffected()
}
