package database

import (
	"fmt"
)

// RunMigrations auto-migrates the given models in order, so parents must
// come before children.
func (db *Database) RunMigrations(models ...interface{}) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

// Tables lists the tables present after migration.
func (db *Database) Tables() ([]string, error) {
	return db.Migrator().GetTables()
}
