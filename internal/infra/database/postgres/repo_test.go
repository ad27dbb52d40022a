package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateDSN(t *testing.T) {
	cases := []struct {
		name   string
		dsn    string
		schema string
		want   string
	}{
		{
			"dsn with existing params",
			"postgres://u:p@localhost:5432/db?sslmode=disable",
			"mdshare",
			"postgres://u:p@localhost:5432/db?sslmode=disable&search_path=mdshare",
		},
		{
			"bare dsn",
			"postgres://u:p@localhost:5432/db",
			"mdshare",
			"postgres://u:p@localhost:5432/db?search_path=mdshare",
		},
		{
			"non-default schema",
			"postgres://u:p@localhost:5432/db?sslmode=disable",
			"docs_v2",
			"postgres://u:p@localhost:5432/db?sslmode=disable&search_path=docs_v2",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, migrateDSN(c.dsn, c.schema))
		})
	}
}
