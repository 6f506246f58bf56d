package models

import "gorm.io/gorm"

// Aggregate counters are only ever written through the mutation functions in
// this package, and always as SQL expressions so that two concurrent
// mutations of the same row serialize inside the database instead of racing
// through read-modify-write.

func counterInc(column string) any {
	return gorm.Expr(column + " + 1")
}

func counterIncBy(column string, by int64) any {
	return gorm.Expr(column+" + ?", by)
}

// counterDec decrements with a floor of zero. CASE keeps it portable between
// MySQL and SQLite.
func counterDec(column string) any {
	return gorm.Expr("CASE WHEN " + column + " < 1 THEN 0 ELSE " + column + " - 1 END")
}

func counterDecBy(column string, by int64) any {
	return gorm.Expr("CASE WHEN "+column+" < ? THEN 0 ELSE "+column+" - ? END", by, by)
}
