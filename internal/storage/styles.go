package storage

import (
	"database/sql"
	"fmt"

	"github.com/matsen/agviewer/internal/style"
)

// SaveStyles replaces the stored label styles with assignments.
func (d *DB) SaveStyles(assignments []style.Assignment) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM label_styles"); err != nil {
		return fmt.Errorf("clearing label styles: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO label_styles (kind, label, slot, size_index, caption)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing label style insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(string(a.Kind), a.Label, a.Slot, a.SizeIndex, nullableString(a.Caption)); err != nil {
			return fmt.Errorf("inserting style for %s %q: %w", a.Kind, a.Label, err)
		}
	}

	return tx.Commit()
}

// LoadStyles returns the stored label styles, sorted by kind then label.
func (d *DB) LoadStyles() ([]style.Assignment, error) {
	rows, err := d.db.Query(`
		SELECT kind, label, slot, size_index, caption
		FROM label_styles
		ORDER BY kind, label
	`)
	if err != nil {
		return nil, fmt.Errorf("querying label styles: %w", err)
	}
	defer rows.Close()

	var out []style.Assignment
	for rows.Next() {
		var a style.Assignment
		var kind string
		var caption sql.NullString
		if err := rows.Scan(&kind, &a.Label, &a.Slot, &a.SizeIndex, &caption); err != nil {
			return nil, fmt.Errorf("scanning label style: %w", err)
		}
		a.Kind = style.Kind(kind)
		a.Caption = caption.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// RestoreStyles loads the stored label styles into r.
func (d *DB) RestoreStyles(r *style.Registry) error {
	assignments, err := d.LoadStyles()
	if err != nil {
		return err
	}
	return r.Restore(assignments)
}
