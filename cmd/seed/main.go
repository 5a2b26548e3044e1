package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-medicine-tracker/config"
	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	pginfra "github.com/oksasatya/go-medicine-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

// seeds a demo account with one profile, one medicine, a morning schedule
// and a handful of catalog entries. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("invalid JWT configuration: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	medicines := pginfra.NewMedicineRepository(pool)
	schedules := pginfra.NewScheduleRepository(pool)
	catalog := pginfra.NewGlobalMedicineRepository(pool)
	tx := pginfra.NewTxManager(pool)

	auth := application.NewAuthService(users, jwt, logger)
	profileSvc := application.NewProfileService(profiles, medicines, schedules, tx, logger)
	medicineSvc := application.NewMedicineService(medicines, profiles, schedules, tx, nil, logger)
	scheduleSvc := application.NewScheduleService(schedules, medicines, logger)
	catalogSvc := application.NewCatalogService(catalog, nil, logger)

	email, password := "demo@medicine-tracker.local", "password123"
	res, err := auth.Register(ctx, email, password)
	if errors.Is(err, application.ErrDuplicateEmail) {
		fmt.Printf("user %s already seeded\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	profile, err := profileSvc.Create(ctx, res.UserID, "Myself")
	if err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	med, err := medicineSvc.Create(ctx, res.UserID, profile.ID, application.MedicineInput{
		Name:       "Paracetamol",
		Dosage:     "1 tablet",
		Quantity:   20,
		ExpiryDate: time.Now().AddDate(1, 0, 0),
		Category:   "Analgesic",
		Form:       "tablet",
		Composition: []entity.Composition{
			{Name: "Paracetamol", StrengthValue: 500, StrengthUnit: "mg"},
		},
	})
	if err != nil {
		log.Fatalf("failed to seed medicine: %v", err)
	}
	if _, err := scheduleSvc.Create(ctx, res.UserID, med.ID, application.ScheduleInput{
		TimeOfDay: entity.TimeOfDay{Hour: 8},
		Frequency: entity.FrequencyDaily,
	}); err != nil {
		log.Fatalf("failed to seed schedule: %v", err)
	}

	for _, g := range []entity.GlobalMedicine{
		{Name: "Paracetamol", GenericName: "Acetaminophen", DosageForm: "tablet", Strength: "500 mg", Category: "Analgesic", ATCCode: "N02BE01"},
		{Name: "Ibuprofen", GenericName: "Ibuprofen", DosageForm: "tablet", Strength: "400 mg", Category: "NSAID", ATCCode: "M01AE01"},
		{Name: "Amoxicillin", GenericName: "Amoxicillin", DosageForm: "capsule", Strength: "500 mg", Category: "Antibiotic", ATCCode: "J01CA04"},
	} {
		if _, err := catalogSvc.Create(ctx, res.UserID, &g); err != nil {
			log.Fatalf("failed to seed catalog entry %s: %v", g.Name, err)
		}
	}

	fmt.Printf("seeded user: id=%s email=%s password=%s profile=%s medicine=%s\n", res.UserID, email, password, profile.ID, med.ID)
}
