package storage

const schema = `
-- 'sources' tracks where decks come from: a local directory or a git repository.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local', -- 'local' or 'git'
    last_scanned DATETIME
);

-- 'contents' holds the parsed deck entries, keyed by their content hash.
CREATE TABLE IF NOT EXISTS contents (
    hash TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL DEFAULT '',
    context TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL DEFAULT '',
    difficulty TEXT NOT NULL DEFAULT '',
    source_id INTEGER NOT NULL,

    FOREIGN KEY(source_id) REFERENCES sources(id) ON DELETE CASCADE
);

-- 'cards' is the learner's scheduling record for each content entry.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    content_id TEXT NOT NULL UNIQUE,
    content_type TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL DEFAULT '',
    difficulty TEXT NOT NULL DEFAULT '',
    interval_days INTEGER NOT NULL,
    ease_factor REAL NOT NULL,
    review_count INTEGER NOT NULL DEFAULT 0,
    next_review DATETIME NOT NULL,
    last_reviewed DATETIME NOT NULL,
    created_at DATETIME NOT NULL,
    success_streak INTEGER NOT NULL DEFAULT 0,
    total_attempts INTEGER NOT NULL DEFAULT 0,
    total_correct INTEGER NOT NULL DEFAULT 0,
    retention_strength REAL NOT NULL DEFAULT 0.5,

    FOREIGN KEY(content_id) REFERENCES contents(hash) ON DELETE CASCADE
);
`
