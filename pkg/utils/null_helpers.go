package utils

import "database/sql"

func NullStringToString(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

func Ptr[T any](v T) *T { return &v }
