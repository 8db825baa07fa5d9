// Package testdb opens throwaway in-memory databases for repository and
// service tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
)

// Open returns an isolated in-memory database with the full schema
// migrated. The single-connection pool keeps sqlite's :memory: database
// alive for the duration of the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Guest{},
		&models.Address{},
		&models.Brand{},
		&models.Category{},
		&models.Gender{},
		&models.Color{},
		&models.Size{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Review{},
	))

	return conn
}
