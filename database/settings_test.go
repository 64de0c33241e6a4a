package database

import (
	"path/filepath"
	"testing"

	"dbconsole/models"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "settings.db")))
	t.Cleanup(func() { Close() })
}

func TestSettingsRoundTrip(t *testing.T) {
	setupTestDB(t)

	value, err := GetSetting("missing")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, SetSetting("k", "v1"))
	require.NoError(t, SetSetting("k", "v2"))
	value, err = GetSetting("k")
	require.NoError(t, err)
	require.Equal(t, "v2", value)

	require.NoError(t, DeleteSetting("k"))
	require.NoError(t, DeleteSetting("k"))
	value, err = GetSetting("k")
	require.NoError(t, err)
	require.Empty(t, value)
}

func TestInitDBIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.db")
	require.NoError(t, InitDB(path))
	require.NoError(t, SetSetting("k", "v"))
	require.NoError(t, InitDB(path))
	t.Cleanup(func() { Close() })

	value, err := GetSetting("k")
	require.NoError(t, err)
	require.Equal(t, "v", value)
}

func TestSession(t *testing.T) {
	setupTestDB(t)

	s, err := GetSessionSettings()
	require.NoError(t, err)
	require.Equal(t, models.SessionSettings{}, s)
	require.Empty(t, TokenOrEmpty())

	require.NoError(t, SetAuthToken("secret"))
	require.NoError(t, SetSelectedInstance("mysql-prod-01"))
	s, err = GetSessionSettings()
	require.NoError(t, err)
	require.Equal(t, models.SessionSettings{Instance: "mysql-prod-01", HasToken: true}, s)
	require.Equal(t, "secret", TokenOrEmpty())

	require.NoError(t, ClearAuthToken())
	require.NoError(t, SetSelectedInstance(""))
	s, err = GetSessionSettings()
	require.NoError(t, err)
	require.False(t, s.HasToken)
	require.Empty(t, s.Instance)
}

func TestTableLayouts(t *testing.T) {
	setupTestDB(t)

	layouts, err := GetTableLayouts()
	require.NoError(t, err)
	require.Empty(t, layouts)

	layout, err := GetTableLayout("slow_queries")
	require.NoError(t, err)
	require.Nil(t, layout)

	require.NoError(t, SetColumnLayout("slow_queries", "sample_sql", models.ColumnConfig{Width: 400}))
	require.NoError(t, SetColumnLayout("slow_queries", "db_name", models.ColumnConfig{Hidden: true}))
	require.NoError(t, SetTablePageSize("slow_queries", 50))

	layout, err = GetTableLayout("slow_queries")
	require.NoError(t, err)
	require.NotNil(t, layout)
	require.Equal(t, 50, layout.PageSize)
	require.Equal(t, 400, layout.Columns["sample_sql"].Width)
	require.True(t, layout.Columns["db_name"].Hidden)

	require.NoError(t, ResetTableLayouts())
	layouts, err = GetTableLayouts()
	require.NoError(t, err)
	require.Empty(t, layouts)
}

func TestCorruptTableLayoutsReadAsEmpty(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, SetSetting(models.TableLayoutsKey, "{not json"))

	layouts, err := GetTableLayouts()
	require.NoError(t, err)
	require.Empty(t, layouts)
}
