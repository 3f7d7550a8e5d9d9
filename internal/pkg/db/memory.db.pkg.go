package database

import (
	"fmt"

	"gorm.io/gorm/logger"
)

// SetupMemory opens a private in-memory sqlite database and migrates the
// given models into it.
func SetupMemory(models ...interface{}) (*Database, error) {
	db, err := Setup(&Config{Driver: DriverSQLite, Database: ":memory:", LogLevel: logger.Silent})
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(models...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate memory database: %w", err)
	}
	return db, nil
}
