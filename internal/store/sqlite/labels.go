package sqlite

import (
	"context"

	"github.com/julianvz/mailterm/internal/domain"
)

// UpsertLabel inserts or updates a label. The virtual ALLMAIL label is
// never persisted; callers synthesize it in memory.
func (s *DB) UpsertLabel(ctx context.Context, label *domain.Label) error {
	if domain.IsAllMail(label.ID) {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO labels (id, name, type)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type`,
		label.ID, label.Name, label.Type,
	)
	if err != nil {
		return storageErr("upsert label", err)
	}
	return nil
}

// ListLabels returns all cached labels ordered by name. The virtual
// ALLMAIL id is excluded even if an older database carries a row for it.
func (s *DB) ListLabels(ctx context.Context) ([]domain.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type FROM labels WHERE id <> ? ORDER BY name`,
		domain.LabelAllMail)
	if err != nil {
		return nil, storageErr("list labels", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Type); err != nil {
			return nil, storageErr("scan label", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate labels", err)
	}

	return labels, nil
}
