// Package sqlstore persists widget catalogues in a SQL database.
//
// Two drivers are supported: "postgres" (lib/pq) and "sqlite"
// (modernc.org/sqlite). A store holds at most one catalogue; Save replaces it
// as a whole inside one transaction.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/errors"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_meta (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	version   TEXT NOT NULL,
	saved_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_terms (
	kind      TEXT NOT NULL,
	position  INTEGER NOT NULL,
	term_id   TEXT NOT NULL,
	label     TEXT NOT NULL,
	parents   TEXT NOT NULL,
	PRIMARY KEY (kind, term_id)
);

CREATE TABLE IF NOT EXISTS catalog_widgets (
	widget_id    TEXT PRIMARY KEY,
	position     INTEGER NOT NULL,
	description  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_actions (
	widget_id  TEXT NOT NULL,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	body       TEXT NOT NULL,
	PRIMARY KEY (widget_id, position)
);
`

// Taxonomy kinds stored in catalog_terms.
const (
	kindType          = "type"
	kindFunctionality = "functionality"
	kindTask          = "task"
)

// Store reads and writes one catalogue.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema when missing.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.NewCatalogError(fmt.Sprintf("cannot open %q store", driver), errors.ErrUnsupportedDriver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.NewCatalogError("open store", err)
	}
	if driver == DriverSQLite {
		// A single connection keeps in-memory databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, errors.NewCatalogError("pragma", err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewCatalogError("ping store", err).WithRetryable(true)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewCatalogError("migrate store", err)
	}
	return &Store{db: db, driver: driver}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// Save replaces the stored catalogue with doc. The document is validated
// first; an invalid document leaves the store unchanged.
func (s *Store) Save(ctx context.Context, doc *catalog.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewCatalogError("begin tx", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"catalog_actions", "catalog_widgets", "catalog_terms"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.NewCatalogError("clear "+table, err)
		}
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO catalog_meta (id, version, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET version = excluded.version, saved_at = excluded.saved_at`),
		doc.Version, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.NewCatalogError("write meta", err)
	}

	terms := []struct {
		kind  string
		terms []catalog.TermDoc
	}{
		{kindType, doc.Types},
		{kindFunctionality, doc.Functionalities},
		{kindTask, doc.Tasks},
	}
	insertTerm := s.rebind(`INSERT INTO catalog_terms (kind, position, term_id, label, parents) VALUES (?, ?, ?, ?, ?)`)
	for _, group := range terms {
		for i, t := range group.terms {
			parents, err := json.Marshal(t.Parents)
			if err != nil {
				return errors.NewCatalogError("marshal parents", err)
			}
			if _, err := tx.ExecContext(ctx, insertTerm, group.kind, i, t.ID, t.Label, string(parents)); err != nil {
				return errors.NewCatalogError("insert "+group.kind+" "+t.ID, err)
			}
		}
	}

	insertWidget := s.rebind(`INSERT INTO catalog_widgets (widget_id, position, description) VALUES (?, ?, ?)`)
	insertAction := s.rebind(`INSERT INTO catalog_actions (widget_id, position, name, body) VALUES (?, ?, ?, ?)`)
	for i, w := range doc.Widgets {
		if _, err := tx.ExecContext(ctx, insertWidget, w.ID, i, w.Description); err != nil {
			return errors.NewCatalogError("insert widget", err).WithWidget(w.ID)
		}
		for j, a := range w.Actions {
			body, err := json.Marshal(a)
			if err != nil {
				return errors.NewCatalogError("marshal action "+a.Name, err).WithWidget(w.ID)
			}
			if _, err := tx.ExecContext(ctx, insertAction, w.ID, j, a.Name, string(body)); err != nil {
				return errors.NewCatalogError("insert action "+a.Name, err).WithWidget(w.ID)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewCatalogError("commit", err)
	}
	return nil
}

// Load reads the stored catalogue document. It fails with a NotFoundError
// wrapping ErrCatalogNotFound when nothing was saved yet.
func (s *Store) Load(ctx context.Context) (*catalog.Document, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: s.driver == DriverPostgres})
	if err != nil {
		return nil, errors.NewCatalogError("begin tx", err)
	}
	defer tx.Rollback()

	doc := &catalog.Document{}
	err = tx.QueryRowContext(ctx, `SELECT version FROM catalog_meta WHERE id = 1`).Scan(&doc.Version)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("catalogue", s.driver).WithCause(errors.ErrCatalogNotFound)
	}
	if err != nil {
		return nil, errors.NewCatalogError("read meta", err)
	}

	if err := loadTerms(ctx, tx, doc); err != nil {
		return nil, err
	}
	if err := loadWidgets(ctx, tx, doc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewCatalogError("commit", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadCatalog loads the stored document and builds a catalogue from it.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(doc)
}

func loadTerms(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	rows, err := tx.QueryContext(ctx, `SELECT kind, term_id, label, parents FROM catalog_terms ORDER BY kind, position`)
	if err != nil {
		return errors.NewCatalogError("query terms", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, parents string
		var t catalog.TermDoc
		if err := rows.Scan(&kind, &t.ID, &t.Label, &parents); err != nil {
			return errors.NewCatalogError("scan term", err)
		}
		if err := json.Unmarshal([]byte(parents), &t.Parents); err != nil {
			return errors.NewCatalogError("decode parents of "+t.ID, fmt.Errorf("%w: %v", errors.ErrCatalogCorrupted, err))
		}
		switch kind {
		case kindType:
			doc.Types = append(doc.Types, t)
		case kindFunctionality:
			doc.Functionalities = append(doc.Functionalities, t)
		case kindTask:
			doc.Tasks = append(doc.Tasks, t)
		default:
			return errors.NewCatalogError("unknown term kind "+kind, errors.ErrCatalogCorrupted)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewCatalogError("iterate terms", err)
	}
	return nil
}

func loadWidgets(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	rows, err := tx.QueryContext(ctx, `SELECT widget_id, description FROM catalog_widgets ORDER BY position`)
	if err != nil {
		return errors.NewCatalogError("query widgets", err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var w catalog.WidgetDoc
		if err := rows.Scan(&w.ID, &w.Description); err != nil {
			rows.Close()
			return errors.NewCatalogError("scan widget", err)
		}
		index[w.ID] = len(doc.Widgets)
		doc.Widgets = append(doc.Widgets, w)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return errors.NewCatalogError("iterate widgets", err)
	}

	rows, err = tx.QueryContext(ctx, `SELECT widget_id, body FROM catalog_actions ORDER BY widget_id, position`)
	if err != nil {
		return errors.NewCatalogError("query actions", err)
	}
	defer rows.Close()
	for rows.Next() {
		var widgetID, body string
		if err := rows.Scan(&widgetID, &body); err != nil {
			return errors.NewCatalogError("scan action", err)
		}
		i, ok := index[widgetID]
		if !ok {
			return errors.NewCatalogError("action of unknown widget", errors.ErrCatalogCorrupted).WithWidget(widgetID)
		}
		var a catalog.ActionDoc
		if err := json.Unmarshal([]byte(body), &a); err != nil {
			return errors.NewCatalogError("decode action", fmt.Errorf("%w: %v", errors.ErrCatalogCorrupted, err)).WithWidget(widgetID)
		}
		doc.Widgets[i].Actions = append(doc.Widgets[i].Actions, a)
	}
	if err := rows.Err(); err != nil {
		return errors.NewCatalogError("iterate actions", err)
	}
	return nil
}

// rebind rewrites ? placeholders into the $n form postgres expects.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
