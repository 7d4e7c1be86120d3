// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	entry_date DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	shares REAL NOT NULL,
	cost REAL NOT NULL,
	direction TEXT NOT NULL,
	exit_date DATETIME NOT NULL,
	exit_price REAL NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS signals (
	time DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	move_pct REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_date);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
