package migrate

import (
	database "lostfound/internal/pkg/db"
	accountModel "lostfound/internal/service/account/model"
	itemModel "lostfound/internal/service/item/model"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&accountModel.User{},
		&itemModel.Item{},
		&itemModel.ItemPhoto{},
	}
}

func Run(db *database.Database) error {
	return db.RunMigrations(Models()...)
}
