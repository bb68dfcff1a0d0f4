package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printmate/printmate/internal/config"
	"github.com/printmate/printmate/internal/db"
	"github.com/printmate/printmate/internal/logger"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/repository"
	"github.com/printmate/printmate/internal/service"
	"github.com/spf13/cobra"
)

var seedSamples = []struct {
	name, ext, fileType, resourceType string
	size                              int64
}{
	{"flyer", "pdf", model.FileTypePDF, "image", 482_113},
	{"poster", "png", model.FileTypeImage, "image", 2_351_822},
	{"invoice", "pdf", model.FileTypePDF, "image", 91_400},
	{"holiday", "jpg", model.FileTypeImage, "image", 3_904_117},
	{"report", "docx", model.FileTypeDocument, "raw", 58_212},
	{"budget", "xlsx", model.FileTypeSpreadsheet, "raw", 24_576},
	{"pitch", "pptx", model.FileTypePresentation, "raw", 7_340_032},
}

func SeedCmd() *cobra.Command {
	var email, phone, password string
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with files spread across recent months",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(true, "", cfg.AppName)
			return runSeed(cmd.Context(), cfg, email, phone, password, count)
		},
	}

	cmd.Flags().StringVar(&email, "email", "demo@printmate.dev", "demo user email")
	cmd.Flags().StringVar(&phone, "phone", "5550100200", "demo user phone number")
	cmd.Flags().StringVar(&password, "password", "Demo!pass1", "demo user password")
	cmd.Flags().IntVar(&count, "files", 45, "number of files to create")
	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config, email, phone, password string, count int) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(database)
	files := repository.NewFileRepository(database)
	auth := service.NewAuthService(users, cfg.JWTSecret, false, cfg.JWTExpiry, 1, time.Minute)

	user, err := auth.Register(ctx, service.RegisterInput{
		Email:     email,
		Phone:     phone,
		Firstname: "Demo",
		Lastname:  "User",
		Password:  password,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		user, err = users.ByEmail(ctx, email)
	}
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	// Roughly two uploads a week going back from now, so several months appear.
	now := time.Now().UTC()
	for i := range count {
		sample := seedSamples[i%len(seedSamples)]
		name := fmt.Sprintf("%s-%02d.%s", sample.name, i+1, sample.ext)
		publicID := fmt.Sprintf("printmate/demo/%s-%02d", sample.name, i+1)

		file := &model.File{
			ID:           uuid.New().String(),
			OwnerID:      user.ID,
			Name:         name,
			PublicID:     publicID,
			Type:         sample.fileType,
			SizeBytes:    sample.size,
			UploadedAt:   now.Add(-time.Duration(i) * 84 * time.Hour),
			URL:          "https://res.cloudinary.com/demo/" + sample.resourceType + "/upload/" + publicID + "." + sample.ext,
			Format:       sample.ext,
			ResourceType: sample.resourceType,
		}
		err = files.Create(ctx, file)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", name, err)
		}
	}

	fmt.Printf("Seeded %d files for %s (id %s)\n", count, user.Email, user.ID)
	return nil
}
