package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mymat/internal/auth"
	"mymat/internal/config"
	"mymat/internal/domain"
	"mymat/internal/repos"
	"mymat/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load the demo catalog, settings and accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// OpenDB applies the schema and seeds an empty database
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := repos.NewProductRepo(db).Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database %s ready, %d products\n", cfg.DBDSN, n)
		return nil
	},
}

var useradd struct {
	email, name, password string
	admin                 bool
}

var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Create a shopper or admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		role := domain.RoleUser
		if useradd.admin {
			role = domain.RoleAdmin
		}
		svc := &services.AuthService{Users: repos.NewUserRepo(db), Tokens: auth.NewTokens(cfg.JWTSecret)}
		u, err := svc.CreateUser(cmd.Context(), useradd.email, useradd.name, useradd.password, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

func init() {
	f := useraddCmd.Flags()
	f.StringVar(&useradd.email, "email", "", "account email")
	f.StringVar(&useradd.name, "name", "", "display name")
	f.StringVar(&useradd.password, "password", "", "password (8-64 chars, mixed case, digit, symbol)")
	f.BoolVar(&useradd.admin, "admin", false, "grant the ADMIN role")
	_ = useraddCmd.MarkFlagRequired("email")
	_ = useraddCmd.MarkFlagRequired("name")
	_ = useraddCmd.MarkFlagRequired("password")
}
