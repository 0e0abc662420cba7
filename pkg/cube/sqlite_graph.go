package cube

import (
	"github.com/goccy/go-json"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// SaveGraph writes the base graph's edge list (and properties) into the
// database, replacing any previous copy.
func (s *SQLiteStore) SaveGraph(g *graph.Graph) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS graph_edges (
		edge_id INTEGER PRIMARY KEY,
		src INTEGER NOT NULL,
		dst INTEGER NOT NULL,
		props TEXT
	)`); err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM graph_edges"); err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
	}
	stmt, err := tx.Prepare("INSERT INTO graph_edges (edge_id, src, dst, props) VALUES (?, ?, ?, ?)")
	if err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
	}
	defer stmt.Close()
	for id, edge := range g.Edges() {
		var props []byte
		if len(edge.Props) > 0 {
			props, err = json.Marshal(edge.Props)
			if err != nil {
				return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
			}
		}
		if _, err := stmt.Exec(id, edge.Src, edge.Dst, string(props)); err != nil {
			return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
		}
	}
	if err := tx.Commit(); err != nil {
		return gserror.Wrap(gserror.KindSerde, err, "could not serialize 'graph'")
	}
	return nil
}

// LoadGraph reads the persisted edge list back into a fresh graph.
func (s *SQLiteStore) LoadGraph() (*graph.Graph, error) {
	rows, err := s.db.Query("SELECT src, dst, props FROM graph_edges ORDER BY edge_id")
	if err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize 'graph'")
	}
	defer rows.Close()
	g := graph.New()
	for rows.Next() {
		var src, dst uint32
		var propsJSON string
		if err := rows.Scan(&src, &dst, &propsJSON); err != nil {
			return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize 'graph'")
		}
		var props model.Properties
		if propsJSON != "" {
			if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
				return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize 'graph'")
			}
		}
		g.AddEdge(model.VertexID(src), model.VertexID(dst), props)
	}
	if err := rows.Err(); err != nil {
		return nil, gserror.Wrap(gserror.KindSerde, err, "could not deserialize 'graph'")
	}
	return g, nil
}
