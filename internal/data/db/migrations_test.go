package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func openRawConn(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), FileName)
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func indexExists(t *testing.T, conn *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := conn.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", name,
	).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	rows, err := database.Conn().QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var versions []int
	for rows.Next() {
		var v int
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())

	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.Len(t, versions, len(migrations))
	assert.Equal(t, []int{1, 2}, versions)

	_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM tasks LIMIT 0")
	require.NoError(t, err, "tasks table should exist")
	assert.True(t, indexExists(t, database.Conn(), "idx_tasks_timered"))
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)

	err := migrateUp(context.Background(), database.Conn())
	assert.NoError(t, err, "second migrateUp should be idempotent")
}

func TestMigrateUp_RawConn(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	require.NoError(t, migrateUp(ctx, conn))

	applied, err := appliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.True(t, applied[1])
	assert.True(t, applied[2])
}

func TestMigrateDown(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, text, completed, created_at)
		VALUES ('t1', 'alice', 'buy milk', 0, 1)
	`)
	require.NoError(t, err)

	err = MigrateDown(ctx, conn, 1)
	require.NoError(t, err)

	assert.False(t, indexExists(t, conn, "idx_tasks_timered"), "index should be dropped")
	assert.False(t, indexExists(t, conn, "idx_tasks_owner_text"), "index should be dropped")

	var count int
	err = conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "task row should be preserved")

	// Re-applying restores the dropped indexes.
	require.NoError(t, migrateUp(ctx, conn))
	assert.True(t, indexExists(t, conn, "idx_tasks_timered"))
}

func TestMigrateDown_InvalidN(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	err := MigrateDown(ctx, conn, 0)
	require.Error(t, err, "n=0 should fail")

	err = MigrateDown(ctx, conn, -1)
	require.Error(t, err, "n=-1 should fail")
}

func TestMigrateDown_TooMany(t *testing.T) {
	database := openTestDB(t)

	migrations, err := loadMigrations()
	require.NoError(t, err)

	err = MigrateDown(context.Background(), database.Conn(), len(migrations)+1)
	assert.Error(t, err, "requesting more down migrations than applied should fail")
}

func TestTasksTable_RejectsCompletedWithoutCheck(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Conn().ExecContext(context.Background(), `
		INSERT INTO tasks (id, owner_id, text, completed, completed_at, created_at)
		VALUES ('t1', 'alice', 'orphan', 1, 5, 1)
	`)
	assert.Error(t, err, "completed_at without checked_at violates the table check")
}

func TestLoadMigrations_Valid(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version,
			"migrations should be in ascending version order")
	}

	for _, m := range migrations {
		assert.NotEmpty(t, m.UpSQL, "migration %d up SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %d down SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.Name, "migration %d name should not be empty", m.Version)
	}
}

func TestReadMigrations(t *testing.T) {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

	t.Run("sorted pairs", func(t *testing.T) {
		got, err := readMigrations(fstest.MapFS{
			"0010_b.up.sql":   file("B"),
			"0010_b.down.sql": file("-B"),
			"0002_a.up.sql":   file("A"),
			"0002_a.down.sql": file("-A"),
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, Migration{Version: 2, Name: "a", UpSQL: "A", DownSQL: "-A"}, got[0])
		assert.Equal(t, 10, got[1].Version)
	})

	t.Run("missing down", func(t *testing.T) {
		_, err := readMigrations(fstest.MapFS{"0001_a.up.sql": file("A")})
		assert.ErrorContains(t, err, "missing its down file")
	})

	t.Run("missing up", func(t *testing.T) {
		_, err := readMigrations(fstest.MapFS{"0001_a.down.sql": file("-A")})
		assert.ErrorContains(t, err, "missing its up file")
	})

	t.Run("duplicate direction", func(t *testing.T) {
		_, err := readMigrations(fstest.MapFS{
			"0001_a.up.sql":     file("A"),
			"0001_other.up.sql": file("A2"),
			"0001_a.down.sql":   file("-A"),
		})
		assert.ErrorContains(t, err, "two up files")
	})

	t.Run("bad name", func(t *testing.T) {
		_, err := readMigrations(fstest.MapFS{"notes.txt": file("")})
		assert.Error(t, err)
	})
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename      string
		wantVersion   int
		wantName      string
		wantDirection string
		wantErr       bool
	}{
		{"0001_create_tasks.up.sql", 1, "create_tasks", "up", false},
		{"0001_create_tasks.down.sql", 1, "create_tasks", "down", false},
		{"0002_task_indexes.up.sql", 2, "task_indexes", "up", false},
		{"0100_big_version.down.sql", 100, "big_version", "down", false},
		{"bad.sql", 0, "", "", true},
		{"0001_initial.sql", 0, "", "", true},
		{"0000_zero.up.sql", 0, "", "", true},
		{"-1_negative.up.sql", 0, "", "", true},
		{"abc_notnumber.up.sql", 0, "", "", true},
		{"0001_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDirection, direction)
		})
	}
}

func TestDB_HealthHelpers(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	assert.Equal(t, FileName, filepath.Base(database.Path()))

	result, err := database.QuickCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)

	applied, known, err := database.SchemaStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, known, applied)
	assert.Equal(t, 2, known)
}
