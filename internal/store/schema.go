package store

import (
	"database/sql"
	"fmt"
)

// JSONColumns lists columns stored as JSON text, per table.
var JSONColumns = map[string]map[string]bool{
	"users":     {"attrs": true},
	"lessons":   {"content": true},
	"exercises": {"content": true, "correct_answer": true},
}

// Columns lists the known columns of every table.
var Columns = map[string][]string{
	"users":         {"id", "email", "password_hash", "attrs", "created_at"},
	"lessons":       {"id", "title", "content", "duration_minutes", "xp_reward", "order_index"},
	"exercises":     {"id", "lesson_id", "type", "order_index", "content", "correct_answer", "xp_reward"},
	"profiles":      {"id", "username", "xp", "level", "last_activity_date", "streak_days"},
	"user_progress": {"user_id", "lesson_id", "status", "score", "completed_at"},
}

// HasColumn reports whether table has column.
func HasColumn(table, column string) bool {
	for _, c := range Columns[table] {
		if c == column {
			return true
		}
	}
	return false
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		attrs         TEXT NOT NULL DEFAULT '{}',
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		content          TEXT NOT NULL DEFAULT '{}',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		xp_reward        INTEGER NOT NULL DEFAULT 0,
		order_index      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id             TEXT PRIMARY KEY,
		lesson_id      TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		type           TEXT NOT NULL DEFAULT 'multiple_choice',
		order_index    INTEGER NOT NULL DEFAULT 0,
		content        TEXT NOT NULL DEFAULT '{}',
		correct_answer TEXT NOT NULL DEFAULT '{}',
		xp_reward      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS exercises_lesson_order ON exercises (lesson_id, order_index)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id                 TEXT PRIMARY KEY,
		username           TEXT,
		xp                 INTEGER NOT NULL DEFAULT 0,
		level              INTEGER NOT NULL DEFAULT 1,
		last_activity_date TEXT,
		streak_days        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user_progress (
		user_id      TEXT NOT NULL,
		lesson_id    TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		status       TEXT NOT NULL,
		score        INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		PRIMARY KEY (user_id, lesson_id)
	)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
