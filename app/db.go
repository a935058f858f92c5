package app

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	onceDB sync.Once
)

func DB() *gorm.DB {
	onceDB.Do(func() {
		port, err := strconv.Atoi(os.Getenv("DB_PORT"))
		if err != nil {
			port = 5432
		}

		dsn := fmt.Sprintf(
			"postgres://%[4]s:%[5]s@%[1]s:%[2]d/%[3]s",
			os.Getenv("DB_HOST"),
			port,
			os.Getenv("DB_NAME"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASS"),
		)

		logLevel := logger.Warn

		if utils.IsDebug() {
			logLevel = logger.Info
		}

		database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
			Logger:                 logger.Default.LogMode(logLevel),
		})
		if err != nil {
			slog.Error(fmt.Sprintf("Could not connect to PostgreSQL: %v", err))
			os.Exit(1)
		}

		if err := database.Exec("CREATE EXTENSION IF NOT EXISTS unaccent").Error; err != nil {
			slog.Error(fmt.Sprintf("Could not load unaccent extension: %v", err))
		}

		if err := database.AutoMigrate(
			&models.User{},
			&models.Role{},
			&models.UserRole{},
			&models.UserPreference{},
			&models.AccountRecovery{},
			&models.Report{},
			&models.ReportStatusChange{},
			&models.EvidenceFile{},
			&models.Resource{},
			&models.Service{},
			&models.Translation{},
		); err != nil {
			slog.Error(fmt.Sprintf("Could not migrate models: %v", err))
			os.Exit(1)
		}

		db = database
	})

	return db
}

func setupRoles() {
	roles := []models.Role{
		{Name: "superadmin", Title: "Super administrator"},
		{Name: "admin", Title: "Administrator"},
		{Name: "user", Title: "User"},
	}

	for _, r := range roles {
		role := &models.Role{}

		if err := DB().Where(&models.Role{Name: r.Name, Title: r.Title}).FirstOrCreate(&role).Error; err != nil {
			slog.Error(fmt.Sprintf("Could not create %s role: %v", r.Name, err))
			continue
		}
	}
}

func setupTranslations() {
	// Minimal seed so a fresh install renders; admins manage the rest.
	translations := []models.Translation{
		{Key: "nav.report", En: "Report Incident", Sw: "Ripoti Tukio", Category: "navigation"},
		{Key: "nav.track", En: "Track Report", Sw: "Fuatilia Ripoti", Category: "navigation"},
		{Key: "nav.resources", En: "Resources", Sw: "Rasilimali", Category: "navigation"},
		{Key: "nav.directory", En: "Support Directory", Sw: "Orodha ya Msaada", Category: "navigation"},
		{Key: "nav.chat", En: "Support Chat", Sw: "Gumzo la Msaada", Category: "navigation"},
	}

	for _, t := range translations {
		translation := &models.Translation{}

		if err := DB().Where(&models.Translation{Key: t.Key}).Attrs(&t).FirstOrCreate(&translation).Error; err != nil {
			slog.Error(fmt.Sprintf("Could not create %s translation: %v", t.Key, err))
			continue
		}
	}
}

func setupEvidenceDir() {
	if err := os.MkdirAll(utils.EvidencePath(), 0o750); err != nil {
		slog.Error(fmt.Sprintf("Could not create evidence directory: %v", err))
		os.Exit(1)
	}
}

func SetupDefaultData() {
	setupRoles()
	setupTranslations()
	setupEvidenceDir()
}
