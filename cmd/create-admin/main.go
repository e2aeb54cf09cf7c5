package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/database"
	"github.com/saborconflow/studio-backend/internal/logger"
	"github.com/saborconflow/studio-backend/internal/model"
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

	// ─── Initialize Service ────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	authService := service.NewAuthService(cfg, adminRepo, roleRepo, log)
	staffService := service.NewStaffService(adminRepo, roleRepo, authService, log)

	ownerRoleID := 0
	if owner, err := roleRepo.GetRoleByName(ctx, service.OwnerRole); err == nil {
		ownerRoleID = owner.ID
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Staff Account ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// Role ID
	if ownerRoleID > 0 {
		fmt.Printf("Enter Role ID (default %d, %s): ", ownerRoleID, service.OwnerRole)
	} else {
		fmt.Print("Enter Role ID: ")
	}
	roleIDStr, _ := reader.ReadString('\n')
	roleIDStr = strings.TrimSpace(roleIDStr)
	roleID := ownerRoleID
	if roleIDStr != "" {
		p, err := strconv.Atoi(roleIDStr)
		if err != nil {
			fmt.Println("Error: Role ID must be a number")
			return
		}
		roleID = p
	}
	if roleID < 1 {
		fmt.Println("Error: Role ID is required")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	admin, err := staffService.CreateAdmin(ctx, model.StaffRequest{
		Email:    email,
		Name:     name,
		Password: password,
		RoleID:   roleID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff account")
	}

	fmt.Printf("\nSuccess! Staff account '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}
