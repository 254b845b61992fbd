package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/roach88/stingeripc/internal/ir"
)

// ErrNotFound is returned when no entry matches.
var ErrNotFound = errors.New("registry entry not found")

// Entry is one recorded interface.
type Entry struct {
	Seq         int64         `json:"seq"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Format      string        `json:"format"`
	SpecHash    string        `json:"spec_hash"`
	IRVersion   string        `json:"ir_version"`
	ToolVersion string        `json:"tool_version"`
	Interface   *ir.Interface `json:"interface,omitempty"`
}

// TopicRef names a recorded signal publishing on a topic.
type TopicRef struct {
	EntryID     string `json:"entry_id"`
	Interface   string `json:"interface"`
	Version     string `json:"version"`
	Signal      string `json:"signal"`
	Topic       string `json:"topic"`
	PayloadType string `json:"payload_type"`
}

// Record stores iface unless the same (name, version, spec_hash) is
// already present, in which case the existing entry is returned and created
// is false. An empty SpecHash is computed; a stale one is rejected.
func (r *Registry) Record(ctx context.Context, iface *ir.Interface) (entry Entry, created bool, err error) {
	hash, err := ir.SpecHash(iface)
	if err != nil {
		return Entry{}, false, fmt.Errorf("record %s: %w", iface.Name, err)
	}
	if iface.SpecHash != "" && iface.SpecHash != hash {
		return Entry{}, false, fmt.Errorf("record %s: spec hash %s does not match content (%s)", iface.Name, iface.SpecHash, hash)
	}
	stamped := *iface
	stamped.SpecHash = hash

	raw, err := json.Marshal(&stamped)
	if err != nil {
		return Entry{}, false, fmt.Errorf("record %s: marshal: %w", iface.Name, err)
	}
	document, err := ir.CanonicalizeJSON(raw)
	if err != nil {
		return Entry{}, false, fmt.Errorf("record %s: %w", iface.Name, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, false, fmt.Errorf("record %s: begin: %w", iface.Name, err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM interfaces
		WHERE name = ? AND version = ? AND spec_hash = ?
	`, stamped.Name, stamped.Version, hash).Scan(&existing)
	switch {
	case err == nil:
		found, err := getEntry(ctx, tx, existing)
		if err != nil {
			return Entry{}, false, err
		}
		r.logger.Debug("interface already recorded", "interface", stamped.Name, "id", existing)
		return found, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return Entry{}, false, fmt.Errorf("record %s: lookup: %w", iface.Name, err)
	}

	id := r.ids.Generate()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO interfaces
		(id, name, version, format, spec_hash, ir_version, tool_version, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		stamped.Name,
		stamped.Version,
		stamped.Format,
		hash,
		stamped.IRVersion,
		ir.ToolVersion,
		string(document),
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("record %s: insert: %w", iface.Name, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return Entry{}, false, fmt.Errorf("record %s: seq: %w", iface.Name, err)
	}

	for i, sig := range stamped.Signals {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO signals (interface_id, position, name, topic, payload_type)
			VALUES (?, ?, ?, ?, ?)
		`, id, i, sig.Name, sig.Topic, sig.PayloadType)
		if err != nil {
			return Entry{}, false, fmt.Errorf("record %s: signal %q: %w", iface.Name, sig.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, false, fmt.Errorf("record %s: commit: %w", iface.Name, err)
	}

	r.logger.Debug("interface recorded", "interface", stamped.Name, "id", id, "spec_hash", hash)
	return Entry{
		Seq:         seq,
		ID:          id,
		Name:        stamped.Name,
		Version:     stamped.Version,
		Format:      stamped.Format,
		SpecHash:    hash,
		IRVersion:   stamped.IRVersion,
		ToolVersion: ir.ToolVersion,
		Interface:   &stamped,
	}, true, nil
}

// Get returns the entry with the given id, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id string) (Entry, error) {
	return getEntry(ctx, r.db, id)
}

// List returns entries ordered by name, then insertion. An empty name
// lists everything. The result is never nil.
func (r *Registry) List(ctx context.Context, name string) ([]Entry, error) {
	query := `
		SELECT seq, id, name, version, format, spec_hash, ir_version, tool_version, document
		FROM interfaces`
	var args []any
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY name COLLATE BINARY ASC, seq ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interfaces: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interfaces: %w", err)
	}
	return entries, nil
}

// PublishersOf returns every recorded signal emitting on topic, oldest
// entry first.
func (r *Registry) PublishersOf(ctx context.Context, topic string) ([]TopicRef, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.version, s.name, s.topic, s.payload_type
		FROM signals s
		JOIN interfaces i ON i.id = s.interface_id
		WHERE s.topic = ?
		ORDER BY i.seq ASC, s.position ASC
	`, topic)
	if err != nil {
		return nil, fmt.Errorf("query topic %q: %w", topic, err)
	}
	defer rows.Close()

	refs := []TopicRef{}
	for rows.Next() {
		var ref TopicRef
		if err := rows.Scan(&ref.EntryID, &ref.Interface, &ref.Version, &ref.Signal, &ref.Topic, &ref.PayloadType); err != nil {
			return nil, fmt.Errorf("scan topic ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic refs: %w", err)
	}
	return refs, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getEntry(ctx context.Context, q queryRower, id string) (Entry, error) {
	row := q.QueryRowContext(ctx, `
		SELECT seq, id, name, version, format, spec_hash, ir_version, tool_version, document
		FROM interfaces
		WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var document string
	err := s.Scan(&e.Seq, &e.ID, &e.Name, &e.Version, &e.Format, &e.SpecHash, &e.IRVersion, &e.ToolVersion, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scan interface: %w", err)
	}

	var iface ir.Interface
	if err := json.Unmarshal([]byte(document), &iface); err != nil {
		return Entry{}, fmt.Errorf("decode document for %s: %w", e.ID, err)
	}
	e.Interface = &iface
	return e, nil
}
