package store

// migration is a single versioned schema change.
type migration struct {
	version int
	sql     string
}

// migrations are applied in order; each runs at most once per database.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	project_id INTEGER NOT NULL,
	parent_id INTEGER,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 0,
	progress INTEGER NOT NULL DEFAULT 0,
	level INTEGER NOT NULL DEFAULT 1,
	deadline TIMESTAMP,
	assigned_users TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_project
	ON tasks (user_id, project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent
	ON tasks (user_id, parent_id);

CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT '',
	related_type TEXT NOT NULL DEFAULT '',
	related_id INTEGER NOT NULL DEFAULT 0,
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_notifications_unread
	ON notifications (user_id, is_read, created_at DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
