package main

import (
	"log"
	"os"
	"time"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/model"
	"jaspel-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.DefaultOptions())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding roles...")
	roles := SeedRoles(db)

	log.Println("Seeding demo staff and jaspel entries...")
	if err := db.Transaction(func(tx *gorm.DB) error {
		return SeedDemoStaff(tx, roles)
	}); err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}

	log.Println("Seeding completed!")
}

// SeedRoles upserts every known role and returns them by name.
func SeedRoles(db *gorm.DB) map[constant.RoleName]model.Role {
	out := make(map[constant.RoleName]model.Role)
	for _, name := range constant.KnownRoles() {
		role := model.Role{Name: name.String(), DisplayName: name.DisplayName()}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name"}),
		}).Create(&role).Error; err != nil {
			log.Printf("Error seeding role '%s': %v", name, err)
			continue
		}
		if err := db.Where("name = ?", role.Name).First(&role).Error; err != nil {
			log.Printf("Error reloading role '%s': %v", name, err)
			continue
		}
		out[name] = role
	}
	return out
}

// SeedDemoStaff creates one petugas, one bendahara and three paramedis
// whose approved totals are 100000, 250000 and 150000.
func SeedDemoStaff(tx *gorm.DB, roles map[constant.RoleName]model.Role) error {
	var existing int64
	if err := tx.Model(&model.User{}).Where("email LIKE ?", "%@demo.jaspel.local").Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Println("Demo staff already present, skipping...")
		return nil
	}

	newUser := func(name, email string, role constant.RoleName) (*model.User, error) {
		r := roles[role]
		u := &model.User{Id: uuid.New(), Name: name, Email: email, RoleId: &r.Id, IsActive: true}
		return u, tx.Create(u).Error
	}

	petugas, err := newUser("Petugas Demo", "petugas@demo.jaspel.local", constant.RolePetugas)
	if err != nil {
		return err
	}
	bendahara, err := newUser("Bendahara Demo", "bendahara@demo.jaspel.local", constant.RoleBendahara)
	if err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	validatedAt := time.Now()
	staffEntries := []struct {
		name    string
		email   string
		amounts []float64
	}{
		{"Paramedis A", "paramedis.a@demo.jaspel.local", []float64{60000, 40000}},
		{"Paramedis B", "paramedis.b@demo.jaspel.local", []float64{250000}},
		{"Paramedis C", "paramedis.c@demo.jaspel.local", []float64{50000, 50000, 50000}},
	}
	for _, s := range staffEntries {
		staff, err := newUser(s.name, s.email, constant.RoleParamedis)
		if err != nil {
			return err
		}
		for _, amount := range s.amounts {
			entry := model.Jaspel{
				Id:         uuid.New(),
				UserId:     staff.Id,
				Jenis:      "shift",
				Tanggal:    today,
				Nominal:    amount,
				Total:      amount,
				InputBy:    &petugas.Id,
				Status:     "approved",
				ValidasiBy: &bendahara.Id,
				ValidasiAt: &validatedAt,
				Keterangan: "Data demo",
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		log.Printf("Created demo staff: %s", s.name)
	}
	return nil
}
