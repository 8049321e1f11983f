package database

import (
	"context"
	"database/sql"
	"strings"
)

// Schema statements are idempotent and applied once at startup.
// The exactly-one-of rule between workout_type_id and
// custom_workout_id on scheduled_workouts is an application-level
// invariant enforced at every write path, not a CHECK constraint.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	username      VARCHAR(80)  NOT NULL,
	email         VARCHAR(120) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uq_users_username (username),
	UNIQUE KEY uq_users_email (email)
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	user_id    BIGINT UNSIGNED NOT NULL,
	token_hash CHAR(64) NOT NULL,
	expires_at DATETIME NOT NULL,
	revoked_at DATETIME NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_refresh_tokens_hash (token_hash),
	CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS workout_types (
	id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name             VARCHAR(100) NOT NULL,
	description      TEXT,
	default_duration INT UNSIGNED NULL,
	default_calories INT UNSIGNED NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name                  VARCHAR(200) NOT NULL,
	category              VARCHAR(100) NOT NULL,
	primary_muscle_groups VARCHAR(200) NOT NULL,
	equipment             VARCHAR(200) NOT NULL,
	difficulty            VARCHAR(50)  NOT NULL,
	workout_goal          VARCHAR(200) NOT NULL,
	location              VARCHAR(100) NOT NULL,
	KEY idx_exercises_category (category),
	KEY idx_exercises_difficulty (difficulty)
);

CREATE TABLE IF NOT EXISTS workouts (
	id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	user_id    BIGINT UNSIGNED NOT NULL,
	exercise   VARCHAR(100) NOT NULL,
	duration   INT UNSIGNED NOT NULL,
	calories   INT UNSIGNED NOT NULL,
	notes      TEXT,
	date       DATE NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_workouts_user_date (user_id, date),
	CONSTRAINT fk_workouts_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS custom_workouts (
	id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	user_id     BIGINT UNSIGNED NOT NULL,
	name        VARCHAR(100) NOT NULL,
	description TEXT,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_custom_workouts_user (user_id),
	CONSTRAINT fk_custom_workouts_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS custom_workout_exercises (
	id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	custom_workout_id BIGINT UNSIGNED NOT NULL,
	exercise_id       BIGINT UNSIGNED NOT NULL,
	sets              INT UNSIGNED NULL,
	reps              INT UNSIGNED NULL,
	duration          INT UNSIGNED NULL,
	position          INT UNSIGNED NOT NULL,
	notes             TEXT,
	KEY idx_cwe_workout (custom_workout_id, position),
	CONSTRAINT fk_cwe_workout FOREIGN KEY (custom_workout_id) REFERENCES custom_workouts(id) ON DELETE CASCADE,
	CONSTRAINT fk_cwe_exercise FOREIGN KEY (exercise_id) REFERENCES exercises(id)
);

CREATE TABLE IF NOT EXISTS scheduled_workouts (
	id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	user_id           BIGINT UNSIGNED NOT NULL,
	workout_type_id   BIGINT UNSIGNED NULL,
	custom_workout_id BIGINT UNSIGNED NULL,
	scheduled_date    DATE NOT NULL,
	notes             TEXT,
	completed         TINYINT(1) NOT NULL DEFAULT 0,
	workout_id        BIGINT UNSIGNED NULL,
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_scheduled_user_date (user_id, scheduled_date),
	CONSTRAINT fk_scheduled_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
	CONSTRAINT fk_scheduled_type FOREIGN KEY (workout_type_id) REFERENCES workout_types(id),
	CONSTRAINT fk_scheduled_custom FOREIGN KEY (custom_workout_id) REFERENCES custom_workouts(id) ON DELETE CASCADE
);
`

// Migrate ensures all tables exist. Call once at startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
