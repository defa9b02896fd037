package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianvz/mailterm/internal/domain"
)

// storedTimeLayout is the encoding for every timestamp column. The
// fractional part is fixed width so the text columns still sort in
// timestamp order, and nanosecond precision survives a round trip.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// messageColumns is the select list shared by every message query.
const messageColumns = `m.id, m.thread_id, m.snippet, m.subject, m.from_addr, m.to_addr,
	m.raw_date, m.body_text, m.body_html, m.received_at, m.internal_at,
	m.is_unread, m.is_starred, m.cached_at`

// UpsertMessage replaces the message row and fully replaces its label
// associations. The whole operation runs in a single transaction so a
// reader never observes a message with half its labels.
func (s *DB) UpsertMessage(ctx context.Context, msg *domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin upsert", err)
	}
	defer tx.Rollback()

	cachedAt := msg.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, thread_id, snippet, subject, from_addr, to_addr,
			raw_date, body_text, body_html, received_at, internal_at,
			is_unread, is_starred, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			thread_id   = excluded.thread_id,
			snippet     = excluded.snippet,
			subject     = excluded.subject,
			from_addr   = excluded.from_addr,
			to_addr     = excluded.to_addr,
			raw_date    = excluded.raw_date,
			body_text   = excluded.body_text,
			body_html   = excluded.body_html,
			received_at = excluded.received_at,
			internal_at = excluded.internal_at,
			is_unread   = excluded.is_unread,
			is_starred  = excluded.is_starred,
			cached_at   = excluded.cached_at`,
		msg.ID, msg.ThreadID, msg.Snippet, msg.Subject, msg.From, msg.To,
		msg.RawDate, msg.BodyText, msg.BodyHTML,
		msg.ReceivedAt.UTC().Format(storedTimeLayout), msg.InternalAt.UTC().Format(storedTimeLayout),
		msg.IsUnread, msg.IsStarred, cachedAt.Format(storedTimeLayout),
	)
	if err != nil {
		return storageErr("upsert message", err)
	}

	// Delete existing label associations, then reinsert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM message_labels WHERE message_id = ?`, msg.ID); err != nil {
		return storageErr("clear message labels", err)
	}

	for _, labelID := range msg.Labels {
		if err := insertLabelAssociation(ctx, tx, msg.ID, labelID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit upsert", err)
	}
	return nil
}

// insertLabelAssociation adds a join row, creating a placeholder label row
// first so the foreign key holds for labels the label sync has not seen
// yet. A later label sync overwrites the placeholder name.
func insertLabelAssociation(ctx context.Context, tx *sql.Tx, messageID, labelID string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO labels (id, name, type) VALUES (?, ?, 'system')`,
		labelID, labelID); err != nil {
		return storageErr("ensure label", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO message_labels (message_id, label_id) VALUES (?, ?)`,
		messageID, labelID); err != nil {
		return storageErr("insert message label", err)
	}
	return nil
}

// GetMessage retrieves a single message by ID, including its labels.
func (s *DB) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages m WHERE m.id = ?`, id)

	msg, err := scanMessage(row)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get message %s", id), err)
	}

	if err := s.attachLabels(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns cached messages for a label ordered by internal
// timestamp, newest first. The virtual ALLMAIL label bypasses label
// filtering and returns the global top-N.
func (s *DB) ListMessages(ctx context.Context, labelID string, limit, offset int) ([]domain.Message, error) {
	var rows *sql.Rows
	var err error

	if domain.IsAllMail(labelID) {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+messageColumns+`
			FROM messages m
			ORDER BY m.internal_at DESC
			LIMIT ? OFFSET ?`, limit, offset)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+messageColumns+`
			FROM messages m
			JOIN message_labels ml ON ml.message_id = m.id
			WHERE ml.label_id = ?
			ORDER BY m.internal_at DESC
			LIMIT ? OFFSET ?`, labelID, limit, offset)
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("list messages for %s", labelID), err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, storageErr("scan message", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate messages", err)
	}

	for i := range messages {
		if err := s.attachLabels(ctx, &messages[i]); err != nil {
			return nil, err
		}
	}

	return messages, nil
}

// MarkArchived removes the INBOX association for a message. Repeating the
// call is a no-op; other labels are untouched.
func (s *DB) MarkArchived(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM message_labels WHERE message_id = ? AND label_id = ?`,
		messageID, domain.LabelInbox)
	if err != nil {
		return storageErr(fmt.Sprintf("archive message %s", messageID), err)
	}
	return nil
}

// MarkDeleted removes all label associations for a message and leaves a
// single TRASH association.
func (s *DB) MarkDeleted(ctx context.Context, messageID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM message_labels WHERE message_id = ?`, messageID); err != nil {
		return storageErr(fmt.Sprintf("clear labels for %s", messageID), err)
	}
	if err := insertLabelAssociation(ctx, tx, messageID, domain.LabelTrash); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit delete", err)
	}
	return nil
}

// SetUnread flips the unread flag for a single message.
func (s *DB) SetUnread(ctx context.Context, messageID string, unread bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_unread = ? WHERE id = ?`, unread, messageID)
	if err != nil {
		return storageErr(fmt.Sprintf("set unread for %s", messageID), err)
	}
	return nil
}

// CleanupOlderThan removes messages cached before the cutoff and returns
// the number of rows removed. Join rows go with them via cascade.
func (s *DB) CleanupOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age).Format(storedTimeLayout)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, storageErr("cleanup", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("cleanup rows affected", err)
	}
	return n, nil
}

// attachLabels loads the label set for a message.
func (s *DB) attachLabels(ctx context.Context, msg *domain.Message) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label_id FROM message_labels WHERE message_id = ? ORDER BY label_id`, msg.ID)
	if err != nil {
		return storageErr("query message labels", err)
	}
	defer rows.Close()

	msg.Labels = nil
	for rows.Next() {
		var labelID string
		if err := rows.Scan(&labelID); err != nil {
			return storageErr("scan message label", err)
		}
		msg.Labels = append(msg.Labels, labelID)
	}
	if err := rows.Err(); err != nil {
		return storageErr("iterate message labels", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*domain.Message, error) {
	var m domain.Message
	var threadID, snippet, subject, from, to, rawDate, bodyText, bodyHTML sql.NullString
	var receivedAt, internalAt, cachedAt sql.NullString

	if err := row.Scan(
		&m.ID, &threadID, &snippet, &subject, &from, &to,
		&rawDate, &bodyText, &bodyHTML, &receivedAt, &internalAt,
		&m.IsUnread, &m.IsStarred, &cachedAt,
	); err != nil {
		return nil, err
	}

	m.ThreadID = threadID.String
	m.Snippet = snippet.String
	m.Subject = subject.String
	m.From = from.String
	m.To = to.String
	m.RawDate = rawDate.String
	m.BodyText = bodyText.String
	m.BodyHTML = bodyHTML.String
	m.ReceivedAt = parseStoredTime(receivedAt.String)
	m.InternalAt = parseStoredTime(internalAt.String)
	m.CachedAt = parseStoredTime(cachedAt.String)

	return &m, nil
}

func parseStoredTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
