// Package testdb opens isolated in-memory databases for tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-ordering-api/config"
	"restaurant-ordering-api/models"
)

var seq atomic.Int64

// Open returns a migrated in-memory database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// a shared-cache memory database lives while one connection stays open
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// Fixture seeds a small catalog: two owners, two restaurants, three items.
type Fixture struct {
	Owner      models.User
	OtherOwner models.User
	Customer   models.User
	Napoli     models.Restaurant
	Istanbul   models.Restaurant
	Pizza      models.MenuItem // 10.00 at Napoli
	Salad      models.MenuItem // 5.00 at Napoli
	Kebab      models.MenuItem // 12.50 at Istanbul
}

func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{
		Owner:      models.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x"},
		OtherOwner: models.User{Username: "other", Email: "other@example.com", PasswordHash: "x"},
		Customer:   models.User{Username: "customer", Email: "customer@example.com", PasswordHash: "x"},
	}
	must(t, db.Create(&f.Owner).Error)
	must(t, db.Create(&f.OtherOwner).Error)
	must(t, db.Create(&f.Customer).Error)

	f.Napoli = models.Restaurant{OwnerID: f.Owner.ID, Name: "Napoli", Address: "Via Roma 1"}
	f.Istanbul = models.Restaurant{OwnerID: f.OtherOwner.ID, Name: "Istanbul", Address: "Istiklal 5"}
	must(t, db.Create(&f.Napoli).Error)
	must(t, db.Create(&f.Istanbul).Error)

	f.Pizza = models.MenuItem{RestaurantID: f.Napoli.ID, Name: "Pizza", Price: dec("10.00")}
	f.Salad = models.MenuItem{RestaurantID: f.Napoli.ID, Name: "Salad", Price: dec("5.00")}
	f.Kebab = models.MenuItem{RestaurantID: f.Istanbul.ID, Name: "Kebab", Price: dec("12.50")}
	must(t, db.Create(&f.Pizza).Error)
	must(t, db.Create(&f.Salad).Error)
	must(t, db.Create(&f.Kebab).Error)
	return f
}

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}
