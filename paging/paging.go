// Package paging implements keyset ("cursor") pagination over gorm queries.
//
// Every listing sorts by one declared column plus id ascending as the
// tie-break, which makes the ordering total and the cursor stable. The
// cursor handed to clients is simply the id of the last row of the previous
// page; the caller resolves that row's sort value and passes both back in.
package paging

import (
	"server/config"

	"gorm.io/gorm"
)

type Spec struct {
	Column string // already validated against the listing's whitelist
	Desc   bool
}

// Cursor is the resolved position of the last row the client has seen.
type Cursor struct {
	SortValue any
	LastID    uint64
}

// Clamp applies the default and maximum page sizes.
func Clamp(limit int) int {
	if limit <= 0 {
		return config.DEFAULT_PAGE_SIZE
	}
	if limit > config.MAX_PAGE_SIZE {
		return config.MAX_PAGE_SIZE
	}
	return limit
}

// Scope emits the ORDER BY, keyset WHERE and LIMIT for one page.
func Scope(spec Spec, cursor *Cursor, limit int) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if cursor != nil {
			if spec.Desc {
				q = q.Where("("+spec.Column+" < ?) OR ("+spec.Column+" = ? AND id > ?)",
					cursor.SortValue, cursor.SortValue, cursor.LastID)
			} else {
				q = q.Where("("+spec.Column+" > ?) OR ("+spec.Column+" = ? AND id > ?)",
					cursor.SortValue, cursor.SortValue, cursor.LastID)
			}
		}
		dir := "ASC"
		if spec.Desc {
			dir = "DESC"
		}
		return q.Order(spec.Column + " " + dir + ", id ASC").Limit(Clamp(limit))
	}
}

// Resolve loads the cursor row's sort value. A vanished cursor row yields a
// nil cursor, which restarts the listing from the top.
func Resolve(db *gorm.DB, table string, spec Spec, lastID uint64) *Cursor {
	if lastID == 0 {
		return nil
	}
	var value any
	row := db.Table(table).Select(spec.Column).Where("id = ?", lastID).Row()
	if row == nil || row.Scan(&value) != nil {
		return nil
	}
	return &Cursor{SortValue: value, LastID: lastID}
}

// NextCursor implements the "maybe more" contract: a cursor is handed out
// iff the page came back full, so a follow-up page may turn out empty.
func NextCursor(pageLen, limit int, lastID uint64) uint64 {
	if pageLen == 0 || pageLen < Clamp(limit) {
		return 0
	}
	return lastID
}
