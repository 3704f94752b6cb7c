package metadata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "meta.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, MigrateDB(db))
	return db
}

func TestSetValueUpserts(t *testing.T) {
	db := newTestDB(t)

	v, err := GetValue(db, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, SetValue(db, "k", "1"))
	require.NoError(t, SetValue(db, "k", "2"))
	v, err = GetValue(db, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	var count int64
	require.NoError(t, db.Model(&Metadata{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCatalogInfo(t *testing.T) {
	db := newTestDB(t)

	_, ok, err := GetCatalogInfo(db)
	require.NoError(t, err)
	assert.False(t, ok)

	built := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, SetCatalogInfo(db, CatalogInfo{BuiltAt: built, Count: 412, Source: "./noitadata"}))

	info, ok, err := GetCatalogInfo(db)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, built.Equal(info.BuiltAt))
	assert.Equal(t, 412, info.Count)
	assert.Equal(t, "./noitadata", info.Source)
}
