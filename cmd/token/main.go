// Command token issues an access token for local development and smoke tests.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Domenick1991/hallbooking/config"
	"github.com/Domenick1991/hallbooking/internal/auth"
	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		id   = flag.Int64("id", 0, "principal id")
		role = flag.String("role", string(domain.RoleUser), "principal role: user or admin")
	)
	flag.Parse()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	p := domain.Principal{ID: *id, Role: domain.Role(*role)}
	if p.ID <= 0 || (p.Role != domain.RoleUser && p.Role != domain.RoleAdmin) {
		log.Fatal().Int64("id", p.ID).Str("role", *role).Msg("invalid principal")
	}

	token, exp, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.AccessTTL()).IssueAccessToken(p)
	if err != nil {
		log.Fatal().Err(err).Msg("issue token")
	}
	fmt.Println(token)
	log.Info().Time("expires_at", exp).Msg("token issued")
}
