package main

import (
	"context"
	"fmt"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/database"
	"github.com/saborconflow/studio-backend/internal/logger"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	roleRepo := repository.NewRoleRepository(pool)

	fmt.Println("=== Fix Owner Permissions ===")
	fmt.Printf("This command will assign ALL available permissions to the %q role.\n", service.OwnerRole)

	role, err := roleRepo.GetRoleByName(ctx, service.OwnerRole)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to find the owner role. Ensure migrations have run.")
	}

	// 1. Get all permission codes from the database
	allPermissions, err := roleRepo.ListPermissions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query permissions")
	}
	if len(allPermissions) == 0 {
		fmt.Println("Error: No permissions found in the database. Ensure migrations have run.")
		return
	}

	fmt.Printf("Found %d permissions in the database.\n", len(allPermissions))

	// 2. Replace the role's permission set
	if _, err := roleRepo.SaveRole(ctx, role.ID, role.Name, allPermissions); err != nil {
		log.Fatal().Err(err).Msg("Failed to assign permissions to the owner role")
	}

	fmt.Printf("\nSuccess! %s (Role ID %d) now has full access, including newly added permissions.\n", role.Name, role.ID)
}
