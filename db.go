package epd

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no frame exists with the requested id.
var ErrNotFound = errors.New("epd: frame not found")

// Store accepts an encoded frame and returns the id it was stored under.
type Store interface {
	Store(name string, frame []byte) (int64, error)
}

// FrameDB is a sqlite database of encoded frames.
type FrameDB struct {
	db *sql.DB
}

// StoredFrame is a frame as kept in the database.
type StoredFrame struct {
	ID      int64
	Name    string
	Created time.Time
	Frame   []byte
}

// NewFrameDB opens or creates the frame database in file.
func NewFrameDB(file string) (*FrameDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS images (id INTEGER PRIMARY KEY NOT NULL, orig_name TEXT NOT NULL, epd_bin BLOB NOT NULL, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &FrameDB{
		db: db,
	}, nil
}

// GeneratedName returns the name used for frames stored without one.
func GeneratedName(t time.Time) string {
	return t.Format("converted_2006-01-02_15-04-05.bin")
}

// Store saves the frame under name, generating a name if it is empty.
func (db *FrameDB) Store(name string, frame []byte) (int64, error) {
	now := time.Now()
	if name == "" {
		name = GeneratedName(now)
	}

	result, err := db.db.Exec("INSERT INTO images (orig_name, epd_bin, created) VALUES (?, ?, ?)", name, frame, now.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Frame returns the frame stored under id.
func (db *FrameDB) Frame(id int64) (*StoredFrame, error) {
	f := StoredFrame{ID: id}
	var created int64
	switch err := db.db.QueryRow("SELECT orig_name, epd_bin, created FROM images WHERE id = ?", id).Scan(&f.Name, &f.Frame, &created); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		f.Created = time.Unix(created, 0)
		return &f, nil
	default:
		return nil, err
	}
}

// Latest returns up to n frames, newest first.
func (db *FrameDB) Latest(n int) ([]*StoredFrame, error) {
	rows, err := db.db.Query("SELECT id, orig_name, epd_bin, created FROM images ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*StoredFrame
	for rows.Next() {
		var f StoredFrame
		var created int64
		if err := rows.Scan(&f.ID, &f.Name, &f.Frame, &created); err != nil {
			return nil, err
		}
		f.Created = time.Unix(created, 0)
		frames = append(frames, &f)
	}
	return frames, rows.Err()
}

// Close closes the database.
func (db *FrameDB) Close() error {
	return db.db.Close()
}
