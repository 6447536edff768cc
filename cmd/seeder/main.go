package main

import (
	"flag"
	"log"

	"github.com/warnabrotha/api/internal/config"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"github.com/warnabrotha/api/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// campusLots is the canonical lot roster. Seeding is idempotent: codes
// are stable identifiers, names get corrected in place on re-runs.
var campusLots = []model.ParkingLot{
	{Name: "Pavilion Structure", Code: "HUTCH", Latitude: 38.539711, Longitude: -121.758379},
	{Name: "Quad Structure", Code: "MU", Latitude: 38.544552, Longitude: -121.749712},
	{Name: "Lot 25", Code: "ARC", Latitude: 38.5433, Longitude: -121.7574},
	{Name: "Tercero Parking Lot", Code: "TERCERO", Latitude: 38.534834, Longitude: -121.756463},
}

func main() {
	rollback := flag.Bool("rollback", false, "revert the last schema migration instead of seeding")
	flag.Parse()

	cfg := config.Load()

	if *rollback {
		if err := migrations.Rollback(cfg.DB.URL()); err != nil {
			log.Fatalf("❌ Rollback failed: %v", err)
		}
		return
	}

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	lotRepo := repository.NewLotRepository(db)

	log.Printf("🌱 Seeding %d parking lots...", len(campusLots))
	for _, lot := range campusLots {
		created, err := lotRepo.Seed(lot)
		if err != nil {
			log.Printf("❌ Failed to seed lot %s: %v", lot.Code, err)
			continue
		}
		if created {
			log.Printf("✅ Created lot: %s (%s)", lot.Name, lot.Code)
		} else {
			log.Printf("🔄 Lot already present: %s (%s)", lot.Name, lot.Code)
		}
	}

	log.Println("🎉 Seeding completed!")
}
