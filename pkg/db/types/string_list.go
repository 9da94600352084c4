package dbtypes

import (
	"database/sql/driver"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList stores a list of strings as a Postgres text[] column, or as the
// array literal in a text column on SQLite.
type StringList []string

func (l *StringList) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*l = StringList(arr)
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.StringArray(l).Value()
}

func (StringList) GormDataType() string {
	return "text[]"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// ParseStringList accepts either a list or a comma-separated string, trimming
// entries and dropping empty ones.
func ParseStringList(values []string) StringList {
	out := StringList{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
