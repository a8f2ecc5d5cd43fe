package sqlcgen

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDB struct {
	sql  string
	args []interface{}
	tag  pgconn.CommandTag
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return d.tag, nil
}

func (d *recordingDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	panic("unexpected Query")
}

func (d *recordingDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	panic("unexpected QueryRow")
}

func TestAssignSetPinForwardsArgs(t *testing.T) {
	db := &recordingDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	id := pgtype.UUID{Bytes: [16]byte{1}, Valid: true}
	pin := pgtype.Text{String: "ABC234", Valid: true}

	n, err := New(db).AssignSetPin(context.Background(), AssignSetPinParams{Pin: pin, ID: id})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Contains(t, db.sql, "-- name: AssignSetPin :execrows")
	assert.Equal(t, []interface{}{pin, id}, db.args)
}

var queryName = regexp.MustCompile(`-- name: (\w+) :(\w+)`)

func queryNames(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var names []string
	for _, m := range queryName.FindAllStringSubmatch(string(raw), -1) {
		names = append(names, m[1]+" :"+m[2])
	}
	sort.Strings(names)
	return names
}

// Every query in db/queries must have a matching method here and vice versa.
func TestQueriesMatchSQLSources(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("..", "..", "..", "db", "queries", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	for _, src := range sources {
		goFile := filepath.Base(src) + ".go"
		t.Run(goFile, func(t *testing.T) {
			assert.Equal(t, queryNames(t, src), queryNames(t, goFile))
		})
	}
}
