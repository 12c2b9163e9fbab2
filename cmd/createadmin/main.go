// Command createadmin creates an admin account or promotes an existing one.
//
//	go run ./cmd/createadmin -email ops@example.com -name "Ops" -password secret123
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/database"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "password (min 6 characters)")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	env.SetupEnvFile()
	database.SetupDatabase()
	users := repository.NewUserRepository(database.GetDB())

	existing, err := users.GetByEmail(*email)
	switch {
	case err == nil:
		existing.Role = models.ROLE_ADMIN
		existing.Status = models.STATUS_ACTIVE
		if err := existing.SetPassword(*password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := users.Update(existing); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		log.Printf("Promoted %s to admin", existing.Email)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err := models.CreateUser(*name, *email, *password, models.ROLE_ADMIN)
		if err != nil {
			log.Fatalf("Invalid admin: %v", err)
		}
		if err := users.Create(user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		log.Printf("Created admin %s", user.Email)
	default:
		log.Fatalf("Failed to look up user: %v", err)
	}
}
