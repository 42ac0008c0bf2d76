package utils

import (
	"database/sql"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestContainsFold_EscapesWildcards(t *testing.T) {
	query, args, err := goqu.Dialect("sqlite3").
		From("books").
		Where(ContainsFold("title", "50%_Off")).
		Prepared(true).
		ToSQL()
	require.NoError(t, err)

	assert.Contains(t, query, `LOWER(title) LIKE ? ESCAPE '\'`)
	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off%`, args[0])
}

func TestNullable(t *testing.T) {
	var missing *int
	year := 2020

	assert.Nil(t, Nullable(missing))
	assert.Equal(t, 2020, Nullable(&year))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("get book: %w", sql.ErrNoRows)))
	assert.False(t, IsNoRows(fmt.Errorf("boom")))
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"garbage header falls back", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1:1234", "192.0.2.1"},
		{"remote only", nil, "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}
