package main

import (
	"log"
	"os"

	"jaspel-be/internal/model"
	"jaspel-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, database.DefaultOptions())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatalf("Failed to create extension pgcrypto: %v", err)
	}

	// 4. AutoMigrate. Referenced tables first.
	log.Println("Step 2: Migrating tables...")
	err = db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Tindakan{},
		&model.JumlahPasienHarian{},
		&model.Pendapatan{},
		&model.Pengeluaran{},
		&model.Jaspel{},
		&model.JaspelOverride{},
		&model.JaspelOverrideAudit{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: composite indexes used by the aggregation queries
	log.Println("Step 3: Creating composite indexes...")
	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_jaspel_user_status ON jaspel (user_id, status_validasi) WHERE deleted_at IS NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_jaspel_status_tanggal ON jaspel (status_validasi, tanggal) WHERE deleted_at IS NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_jaspel_overrides_active ON jaspel_overrides (user_id, created_at DESC) WHERE is_active;`,
	}
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Failed to execute: %s\nError: %v", sql, err)
		}
	}

	log.Println("Migration completed successfully!")
}
