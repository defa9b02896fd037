package sqlite

import (
	"context"

	"github.com/julianvz/mailterm/internal/domain"
)

// SearchMessages performs a full-text search across the cached corpus
// using FTS5, best matches first.
func (s *DB) SearchMessages(ctx context.Context, query string, limit int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		JOIN messages_fts fts ON fts.rowid = m.rowid
		WHERE messages_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, storageErr("search messages", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, storageErr("scan search result", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate search results", err)
	}

	for i := range messages {
		if err := s.attachLabels(ctx, &messages[i]); err != nil {
			return nil, err
		}
	}

	return messages, nil
}
