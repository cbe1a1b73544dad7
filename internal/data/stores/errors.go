package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/tickdown/internal/data/db"
)

var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

// IsCorruptionError reports whether err means the database file is
// unreadable and should be moved aside.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	if code, ok := sqliteCode(err); ok {
		switch code {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	// Open wraps the driver error during the ping, which can lose the type.
	msg := err.Error()
	for _, m := range corruptionMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isConstraintError matches every SQLITE_CONSTRAINT variant, including the
// CHECK that forbids completed_at without checked_at.
func isConstraintError(err error) bool {
	if code, ok := sqliteCode(err); ok {
		return code&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// RecoverFromCorruption moves the database and its WAL and SHM siblings to
// <name>.corrupt.<timestamp> so the next Open starts a fresh file. Stale
// WAL or SHM files that cannot be renamed are removed; SQLite would
// otherwise replay them into the new database. It returns the backup path
// of the main file, or "" when there was nothing to move.
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	moved := ""
	if err := os.Rename(dbPath, backup); err == nil {
		moved = backup
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("move corrupted database: %w", err)
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, backup+suffix); err != nil {
			if rmErr := os.Remove(src); rmErr != nil {
				return moved, fmt.Errorf("move or remove %s: %w", filepath.Base(src), errors.Join(err, rmErr))
			}
		}
	}

	return moved, nil
}
