package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS periods (
    period_key           TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    income               TEXT NOT NULL,
    total_expenses       TEXT NOT NULL,
    savings              TEXT NOT NULL,
    investments          TEXT NOT NULL,
    net_worth            TEXT NOT NULL,
    debt                 TEXT NOT NULL,
    left_to_budget       TEXT NOT NULL,
    archived_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS period_expenses (
    period_key           TEXT NOT NULL REFERENCES periods(period_key) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    category             TEXT NOT NULL,
    amount               TEXT NOT NULL,
    PRIMARY KEY (period_key, category)
);

CREATE TABLE IF NOT EXISTS line_items (
    period_key           TEXT NOT NULL REFERENCES periods(period_key) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    category             TEXT NOT NULL,
    projected            TEXT NOT NULL,
    actual               TEXT NOT NULL,
    difference           TEXT NOT NULL,
    PRIMARY KEY (period_key, position)
);

CREATE INDEX IF NOT EXISTS idx_periods_position ON periods(position);
`
