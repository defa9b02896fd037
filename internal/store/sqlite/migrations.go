package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS labels (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    type        TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE IF NOT EXISTS messages (
    id          TEXT PRIMARY KEY,
    thread_id   TEXT,
    snippet     TEXT,
    subject     TEXT,
    from_addr   TEXT,
    to_addr     TEXT,
    raw_date    TEXT,
    body_text   TEXT,
    body_html   TEXT,
    received_at DATETIME,
    internal_at DATETIME,
    is_unread   BOOLEAN DEFAULT FALSE,
    is_starred  BOOLEAN DEFAULT FALSE,
    cached_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS message_labels (
    message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    label_id    TEXT NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
    PRIMARY KEY (message_id, label_id)
);

CREATE TABLE IF NOT EXISTS sync_state (
    label_id        TEXT PRIMARY KEY REFERENCES labels(id) ON DELETE CASCADE,
    history_cursor  TEXT,
    last_synced_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_internal_at ON messages(internal_at DESC);
CREATE INDEX IF NOT EXISTS idx_messages_cached_at ON messages(cached_at);
CREATE INDEX IF NOT EXISTS idx_message_labels_label ON message_labels(label_id);
`

// ftsSchema needs the fts5 module compiled into the driver: build with
// `go build -tags sqlite_fts5` or New fails with "no such module: fts5".
const ftsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    subject, body_text, from_addr,
    content='messages', content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, subject, body_text, from_addr)
    VALUES (new.rowid, new.subject, new.body_text, new.from_addr);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, subject, body_text, from_addr)
    VALUES ('delete', old.rowid, old.subject, old.body_text, old.from_addr);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, subject, body_text, from_addr)
    VALUES ('delete', old.rowid, old.subject, old.body_text, old.from_addr);
    INSERT INTO messages_fts(rowid, subject, body_text, from_addr)
    VALUES (new.rowid, new.subject, new.body_text, new.from_addr);
END;
`
