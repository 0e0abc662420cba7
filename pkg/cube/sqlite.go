package cube

import (
	"database/sql"
	"log/slog"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// SQLiteStore persists cubes to a SQLite database file, one row per cell
// plus one row per cell edge. Diff sets round-trip byte-identically in
// canonical order.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (and initializes) a cube database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, gserror.Wrap(gserror.KindIO, err, "cannot open database '%s'", path)
	}
	// Pragmas are performance-only; failures are non-fatal.
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	} {
		db.Exec(pragma)
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS cubes (
			name TEXT PRIMARY KEY,
			dimension_lengths TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cube_cells (
			cube TEXT NOT NULL,
			cell_index INTEGER NOT NULL,
			ts TEXT NOT NULL,
			additions INTEGER NOT NULL,
			deletions INTEGER NOT NULL,
			PRIMARY KEY (cube, cell_index)
		)`,
		`CREATE TABLE IF NOT EXISTS cube_edges (
			cube TEXT NOT NULL,
			cell_index INTEGER NOT NULL,
			position INTEGER NOT NULL,
			src INTEGER NOT NULL,
			dst INTEGER NOT NULL,
			diff INTEGER NOT NULL,
			is_full INTEGER NOT NULL,
			PRIMARY KEY (cube, cell_index, is_full, position)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, gserror.Wrap(gserror.KindSerde, err, "could not initialize schema in '%s'", path)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveCube writes a cube under the given name, replacing any previous copy.
func (s *SQLiteStore) SaveCube(name string, c *FilteredCube) error {
	lengths, err := json.Marshal(c.DimensionLengths)
	if err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM cubes WHERE name = ?",
		"DELETE FROM cube_cells WHERE cube = ?",
		"DELETE FROM cube_edges WHERE cube = ?",
	} {
		if _, err := tx.Exec(stmt, name); err != nil {
			return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
		}
	}
	if _, err := tx.Exec("INSERT INTO cubes (name, dimension_lengths) VALUES (?, ?)", name, string(lengths)); err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
	}

	cellStmt, err := tx.Prepare("INSERT INTO cube_cells (cube, cell_index, ts, additions, deletions) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
	}
	defer cellStmt.Close()
	edgeStmt, err := tx.Prepare("INSERT INTO cube_edges (cube, cell_index, position, src, dst, diff, is_full) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
	}
	defer edgeStmt.Close()

	for _, entry := range c.Data.Entries {
		if _, err := cellStmt.Exec(name, entry.Index, entry.Timestamp.Key("_"), entry.Additions, entry.Deletions); err != nil {
			return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
		}
		for pos, edge := range entry.FullEdges {
			if _, err := edgeStmt.Exec(name, entry.Index, pos, edge.Src, edge.Dst, 1, 1); err != nil {
				return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
			}
		}
		for pos, diff := range entry.DiffEdges {
			if _, err := edgeStmt.Exec(name, entry.Index, pos, diff.Edge.Src, diff.Edge.Dst, diff.Change, 0); err != nil {
				return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize '%s'", name)
	}
	slog.Info("serialized cube", "name", name, "cells", len(c.Data.Entries), "path", s.path)
	return nil
}

// LoadCube reads a cube back by name.
func (s *SQLiteStore) LoadCube(name string) (*FilteredCube, error) {
	var lengthsJSON string
	err := s.db.QueryRow("SELECT dimension_lengths FROM cubes WHERE name = ?", name).Scan(&lengthsJSON)
	if err == sql.ErrNoRows {
		return nil, gserror.CollectionMissing(name)
	}
	if err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
	}
	var lengths []DimensionLength
	if err := json.Unmarshal([]byte(lengthsJSON), &lengths); err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
	}
	mappings := NewTimestampMappings(lengths)

	cellRows, err := s.db.Query(
		"SELECT cell_index, additions, deletions FROM cube_cells WHERE cube = ? ORDER BY cell_index", name)
	if err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
	}
	defer cellRows.Close()

	entries := make([]CellEntry, 0, mappings.Len())
	for cellRows.Next() {
		var entry CellEntry
		if err := cellRows.Scan(&entry.Index, &entry.Additions, &entry.Deletions); err != nil {
			return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
		}
		entry.Timestamp = mappings.Entries[entry.Index].Timestamp
		entries = append(entries, entry)
	}
	if err := cellRows.Err(); err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
	}

	edgeRows, err := s.db.Query(
		"SELECT cell_index, src, dst, diff, is_full FROM cube_edges WHERE cube = ? ORDER BY cell_index, is_full, position", name)
	if err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var cellIndex, isFull int
		var src, dst uint32
		var diff int64
		if err := edgeRows.Scan(&cellIndex, &src, &dst, &diff, &isFull); err != nil {
			return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
		}
		edge := model.SimpleEdge{Src: model.VertexID(src), Dst: model.VertexID(dst)}
		entry := &entries[cellIndex]
		if isFull == 1 {
			entry.FullEdges = append(entry.FullEdges, edge)
		} else {
			entry.DiffEdges = append(entry.DiffEdges, EdgeDiff{Edge: edge, Change: model.DiffCount(diff)})
		}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize '%s'", name)
	}
	return NewFilteredCube(mappings, lengths, Data{Entries: entries}), nil
}
