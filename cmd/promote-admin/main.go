// Command promote-admin grants or revokes the admin role for an existing
// farmer account. It is the only way to create the first administrator.
//
//	promote-admin -email thandi@example.com
//	promote-admin -email thandi@example.com -role user
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/platform/postgres"
	"github.com/agrinathi/agrinathi-api/internal/store"
)

func main() {
	email := flag.String("email", "", "email of the farmer account to change")
	role := flag.String("role", string(domain.RoleAdmin), "role to assign (admin or user)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, *email, domain.Role(*role)); err != nil {
		log.Fatalf("promote-admin: %v", err)
	}
}

func run(ctx context.Context, email string, role domain.Role) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	farmers := postgres.NewPostgresFarmerStore(db, cfg.Auth.BCryptCost)
	f, err := setRole(ctx, farmers, email, role)
	if err != nil {
		return err
	}
	l.Info("farmer role updated", "farmer_id", f.ID, "role", role)
	fmt.Fprintf(os.Stdout, "%s is now %s\n", f.FullName(), role)
	return nil
}

// setRole looks the farmer up by email and assigns role.
func setRole(ctx context.Context, farmers store.FarmerStore, email string, role domain.Role) (*domain.Farmer, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("-email is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	f, err := farmers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no farmer registered with email %s", email)
		}
		return nil, fmt.Errorf("failed to look up farmer: %w", err)
	}
	if f.Role == role {
		return f, nil
	}
	if err := farmers.UpdateRole(ctx, f.ID, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	f.Role = role
	return f, nil
}
