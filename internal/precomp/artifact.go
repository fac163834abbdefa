package precomp

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/lower"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - initial schema (files + build_info)
const currentSchemaVersion = 1

// Stamp identifies the build that wrote an artifact.
type Stamp struct {
	BuildID   string
	IRVersion string
	Stage     string
	CreatedAt time.Time
}

// NewStamp mints a stamp for the current build.
func NewStamp() Stamp {
	return Stamp{
		BuildID:   uuid.NewString(),
		IRVersion: ir.IRVersion,
		Stage:     ir.StageVersion,
		CreatedAt: time.Now().UTC(),
	}
}

// Artifact is the SQLite side artifact holding a project's file map.
// SQLite runs in WAL mode with a single writer connection.
type Artifact struct {
	db   *sql.DB
	path string
}

// Open creates or opens the artifact at path, applying pragmas and
// schema migrations. An artifact written by a newer schema than this
// build understands is rejected rather than migrated downward.
func Open(path string) (*Artifact, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, diag.New(diag.CodeArtifactOpen, "open artifact: %v", err).In(path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, diag.New(diag.CodeArtifactOpen, "connect to artifact: %v", err).In(path)
	}

	// One writer at a time keeps SQLITE_BUSY away.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, diag.New(diag.CodeArtifactOpen, "%v", err).In(path)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		var de *diag.Error
		if errors.As(err, &de) {
			return nil, de.In(path)
		}
		return nil, diag.New(diag.CodeArtifactOpen, "%v", err).In(path)
	}

	return &Artifact{db: db, path: path}, nil
}

// Close releases the underlying database.
func (a *Artifact) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Path returns the artifact's file path.
func (a *Artifact) Path() string {
	return a.path
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return diag.New(diag.CodeArtifactVersion,
			"artifact schema %d is newer than supported %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Save writes the map and the build stamp in one transaction.
// Existing rows for a source path stay untouched, matching the
// in-memory first-write-wins rule.
func (a *Artifact) Save(ctx context.Context, m *Map, stamp Stamp) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	defer tx.Rollback()

	for _, e := range m.Entries() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO files (source_path, output_path, root_name)
			VALUES (?, ?, ?)
			ON CONFLICT(source_path) DO NOTHING
		`, e.SourcePath, e.OutputPath, e.RootName)
		if err != nil {
			return fmt.Errorf("save entry %s: %w", e.SourcePath, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO build_info (id, build_id, ir_version, stage, created_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			build_id = excluded.build_id,
			ir_version = excluded.ir_version,
			stage = excluded.stage,
			created_at = excluded.created_at
	`, stamp.BuildID, stamp.IRVersion, stamp.Stage, stamp.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save build info: %w", err)
	}

	return tx.Commit()
}

// Load reads the whole file map into memory.
func (a *Artifact) Load(ctx context.Context) (*Map, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT source_path, output_path, root_name
		FROM files
		ORDER BY source_path ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	defer rows.Close()

	m := NewMap()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SourcePath, &e.OutputPath, &e.RootName); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		err := m.Record(e.SourcePath, lower.FileInfo{
			OutputPath: e.OutputPath,
			RootName:   e.RootName,
		})
		if err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return m, nil
}

// ReadStamp returns the stamp of the build that wrote the artifact.
// ok=false when the artifact was never saved.
func (a *Artifact) ReadStamp(ctx context.Context) (Stamp, bool, error) {
	var s Stamp
	var created string
	err := a.db.QueryRowContext(ctx, `
		SELECT build_id, ir_version, stage, created_at
		FROM build_info WHERE id = 1
	`).Scan(&s.BuildID, &s.IRVersion, &s.Stage, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Stamp{}, false, nil
	}
	if err != nil {
		return Stamp{}, false, fmt.Errorf("read build info: %w", err)
	}
	at, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Stamp{}, false, diag.New(diag.CodeArtifactEntry,
			"malformed created_at %q", created).In(a.path)
	}
	s.CreatedAt = at
	return s, true, nil
}
