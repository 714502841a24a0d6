package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	active     INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	client_id  TEXT REFERENCES clients(id) ON DELETE SET NULL,
	name       TEXT NOT NULL UNIQUE,
	active     INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meetings (
	id             TEXT PRIMARY KEY,
	external_id    TEXT NOT NULL UNIQUE,
	series_id      TEXT,
	title          TEXT NOT NULL,
	start_time     DATETIME NOT NULL,
	end_time       DATETIME NOT NULL,
	attendees      TEXT NOT NULL DEFAULT '[]',
	notes_captured INTEGER NOT NULL DEFAULT 0 CHECK(notes_captured IN (0, 1)),
	reminder_sent  INTEGER NOT NULL DEFAULT 0 CHECK(reminder_sent IN (0, 1)),
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
	meeting_id TEXT REFERENCES meetings(id) ON DELETE SET NULL,
	content    TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '[]',
	source     TEXT NOT NULL DEFAULT 'adhoc' CHECK(source IN ('meeting', 'task', 'adhoc')),
	note_date  DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS time_entries (
	id               TEXT PRIMARY KEY,
	project_id       TEXT REFERENCES projects(id) ON DELETE SET NULL,
	description      TEXT NOT NULL,
	duration_hours   REAL NOT NULL CHECK(duration_hours > 0),
	category         TEXT NOT NULL DEFAULT '',
	tags             TEXT NOT NULL DEFAULT '[]',
	external_sync_id TEXT UNIQUE,
	entry_date       DATETIME NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reports (
	id                 TEXT PRIMARY KEY,
	type               TEXT NOT NULL,
	report_date        DATETIME NOT NULL,
	client_id          TEXT REFERENCES clients(id) ON DELETE SET NULL,
	content            TEXT NOT NULL,
	provider           TEXT NOT NULL DEFAULT '',
	generation_ms      INTEGER NOT NULL DEFAULT 0,
	word_count         INTEGER NOT NULL DEFAULT 0,
	validation_passed  INTEGER NOT NULL DEFAULT 1 CHECK(validation_passed IN (0, 1)),
	delivered_email_at DATETIME,
	delivered_chat_at  DATETIME,
	email_draft_id     TEXT,
	chat_message_id    TEXT,
	created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS holidays (
	id   TEXT PRIMARY KEY,
	date DATETIME NOT NULL UNIQUE,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS time_off (
	id         TEXT PRIMARY KEY,
	start_date DATETIME NOT NULL,
	end_date   DATETIME NOT NULL,
	kind       TEXT NOT NULL DEFAULT 'vacation',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS system_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notes_note_date ON notes(note_date);
CREATE INDEX IF NOT EXISTS idx_notes_project_id ON notes(project_id);
CREATE INDEX IF NOT EXISTS idx_notes_meeting_id ON notes(meeting_id);
CREATE INDEX IF NOT EXISTS idx_time_entries_entry_date ON time_entries(entry_date);
CREATE INDEX IF NOT EXISTS idx_time_entries_project_id ON time_entries(project_id);
CREATE INDEX IF NOT EXISTS idx_reports_type_date ON reports(type, report_date);
CREATE INDEX IF NOT EXISTS idx_meetings_start_time ON meetings(start_time);
CREATE INDEX IF NOT EXISTS idx_projects_client_id ON projects(client_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_notes_date_project
	ON notes(note_date, project_id);

CREATE INDEX IF NOT EXISTS idx_time_entries_date_category
	ON time_entries(entry_date, category);

CREATE INDEX IF NOT EXISTS idx_time_entries_sync
	ON time_entries(external_sync_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
