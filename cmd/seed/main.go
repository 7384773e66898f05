// Command seed populates a development database with sample users so the
// authenticate flow can be exercised end to end.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/infra/database"
	"github.com/Balerman2/CallShift/internal/infra/logger"
	"github.com/Balerman2/CallShift/internal/infra/security"
	postgresrepo "github.com/Balerman2/CallShift/internal/repository/postgres"
)

type seedUser struct {
	pin      string
	phone    string
	name     string
	division string
}

var seedUsers = []seedUser{
	{pin: "1234", phone: "+61400111222", name: "Dana Fields", division: "retic_water"},
	{pin: "2345", phone: "+61400222333", name: "Riley Chen", division: "retic_water"},
	{pin: "3456", phone: "+61400333444", name: "Sam Okafor", division: "sewer"},
	{pin: "4567", phone: "+61400444555", name: "Jo Martins", division: "parks"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logr)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logr); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	repos := postgresrepo.NewRepositories(pool)
	hasher := security.NewPINHasher(cfg.PIN.Salt)
	now := time.Now().UTC()

	for _, su := range seedUsers {
		id, err := repos.Users.Create(ctx, domain.User{
			PINDigest: hasher.Digest(su.pin),
			Phone:     su.phone,
			Name:      su.name,
			Division:  su.division,
			CreatedAt: now,
		})
		if err != nil {
			log.Printf("skip %s: %v", su.name, err)
			continue
		}
		log.Printf("seeded user %d (%s, %s)", id, su.name, su.division)
	}
}
