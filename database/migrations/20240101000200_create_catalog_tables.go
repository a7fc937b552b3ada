package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/migration"
)

func init() {
	migration.Register("20240101000200_create_catalog_tables", &createCatalogTables{})
}

// restaurants and menu_items
type createCatalogTables struct{}

func (m *createCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Restaurant{}, &models.MenuItem{})
}

func (m *createCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.MenuItem{}, &models.Restaurant{})
}
