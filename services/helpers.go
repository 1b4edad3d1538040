package services

import "database/sql"

func normalizeCategory(category string) string {
	if category == "all" {
		return ""
	}
	return category
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
