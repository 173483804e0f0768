package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
    position             INTEGER PRIMARY KEY,
    id                   INTEGER NOT NULL,
    concepto             TEXT NOT NULL,
    nivel                INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS item_years (
    position             INTEGER NOT NULL REFERENCES items(position) ON DELETE CASCADE,
    year                 INTEGER NOT NULL,
    obs                  REAL,
    prog                 REAL,
    PRIMARY KEY (position, year)
);

CREATE TABLE IF NOT EXISTS deflators (
    year                 INTEGER PRIMARY KEY,
    value                REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS macro (
    year                 INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    value                REAL NOT NULL,
    PRIMARY KEY (year, name)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    loaded_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_id ON items(id);
`
