package db

import (
	"database/sql"
	"log"
	"sync"

	_ "modernc.org/sqlite"
	"online/util"
)

// DB is the database struct. It holds the only durable client-side state:
// the auth token obtained from login/register.
type DB struct {
	db *sql.DB
}

var (
	dbInstance *DB
	dbOnce     sync.Once
)

const (
	DbFileName = "online.db"

	sqlCreateCredentialsTable = `CREATE TABLE IF NOT EXISTS credentials(
                        id int NOT NULL PRIMARY KEY CHECK (id = 1),
                        token text NOT NULL,
                        saved_at timestamp default current_timestamp
                        )`
	sqlUpsertToken = `INSERT INTO credentials(id, token, saved_at) VALUES (1, ?, current_timestamp)
                        ON CONFLICT(id) DO UPDATE SET token = excluded.token, saved_at = excluded.saved_at`
	sqlSelectToken = `SELECT token FROM credentials WHERE id = 1`
	sqlDeleteToken = `DELETE FROM credentials WHERE id = 1`
)

// GetDB returns the shared store, opening the database file on first use.
func GetDB() *DB {
	dbOnce.Do(func() {
		path := util.ResolveFilePath(DbFileName)
		sqlDB, err := sql.Open("sqlite", path)
		if err != nil {
			log.Fatalln("Could not open credential store:", err)
		}
		if _, err := sqlDB.Exec(sqlCreateCredentialsTable); err != nil {
			log.Fatalln("Could not init credential store:", err)
		}
		dbInstance = &DB{db: sqlDB}
	})
	return dbInstance
}

// SaveToken persists the bearer token, replacing any previous one.
func (d *DB) SaveToken(token string) error {
	_, err := d.db.Exec(sqlUpsertToken, token)
	return err
}

// ReadToken returns the persisted token, or empty string when none is stored.
func (d *DB) ReadToken() (string, error) {
	var token string
	err := d.db.QueryRow(sqlSelectToken).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// ClearToken removes the persisted token (logout, or a token the server no
// longer accepts).
func (d *DB) ClearToken() error {
	_, err := d.db.Exec(sqlDeleteToken)
	return err
}
