package replcmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bplusdb/database"
)

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.bpdb"))
	require.NoError(t, err)
	return New(db)
}

func TestCreateUseInsertGet(t *testing.T) {
	sh := newTestShell(t)

	out, err := sh.Execute("CREATE users 4")
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	out, err = sh.Execute(`INSERT 1 {"name":"Alice"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "inserted")

	out, err = sh.Execute("GET 1")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
}

func TestUseMissingTableErrors(t *testing.T) {
	sh := newTestShell(t)
	_, err := sh.Execute("USE ghost")
	assert.Error(t, err)
}

func TestInsertWithoutUseErrors(t *testing.T) {
	sh := newTestShell(t)
	_, err := sh.Execute("INSERT 1 2")
	assert.Error(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	sh := newTestShell(t)
	sh.Execute("CREATE t 4")
	sh.Execute("INSERT 5 10")

	out, err := sh.Execute("UPDATE 5 20")
	require.NoError(t, err)
	assert.Contains(t, out, "updated")

	out, err = sh.Execute("GET 5")
	require.NoError(t, err)
	assert.Equal(t, "20", out)

	out, err = sh.Execute("DELETE 5")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = sh.Execute("GET 5")
	require.NoError(t, err)
	assert.Equal(t, "(not found)", out)
}

func TestRangeQuery(t *testing.T) {
	sh := newTestShell(t)
	sh.Execute("CREATE nums 4")
	for i := 0; i < 5; i++ {
		sh.Execute(fmt.Sprintf("INSERT %d %d", i, i*10))
	}

	out, err := sh.Execute("RANGE 1 3")
	require.NoError(t, err)
	assert.Contains(t, out, "1:")
	assert.Contains(t, out, "3:")
	assert.NotContains(t, out, "4:")
}

func TestRebuild(t *testing.T) {
	sh := newTestShell(t)
	sh.Execute("CREATE t 4")
	for i := 0; i < 10; i++ {
		sh.Execute(fmt.Sprintf("INSERT %d %d", i, i))
	}

	out, err := sh.Execute("REBUILD 8")
	require.NoError(t, err)
	assert.Contains(t, out, "rebuilt")
}

func TestExitReturnsErrExit(t *testing.T) {
	sh := newTestShell(t)
	_, err := sh.Execute("EXIT")
	assert.True(t, errors.Is(err, ErrExit))
}

func TestUnknownCommandErrors(t *testing.T) {
	sh := newTestShell(t)
	_, err := sh.Execute("FROBNICATE")
	assert.Error(t, err)
}

func TestTablesListsCreatedTables(t *testing.T) {
	sh := newTestShell(t)
	sh.Execute("CREATE a 4")
	sh.Execute("CREATE b 4")

	out, err := sh.Execute("TABLES")
	require.NoError(t, err)
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}
