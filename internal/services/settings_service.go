package services

import (
	"context"
	"strings"
	"time"

	"mymat/internal/domain"
	"mymat/internal/repos"
	"mymat/internal/validate"
)

type SettingsService struct {
	Repo *repos.SettingsRepo
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.Repo.Get(ctx)
}

// Save validates and stores the store settings.
func (s *SettingsService) Save(ctx context.Context, in domain.Settings) error {
	var ok bool
	if in.StoreName, ok = validate.Name(in.StoreName); !ok {
		return invalid("store_name", "Store name is required")
	}
	if in.SupportEmail, ok = validate.Email(in.SupportEmail); !ok {
		return invalid("support_email", "Enter a valid support email")
	}
	if in.Currency, ok = validate.Required(in.Currency); !ok || len(in.Currency) != 3 {
		return invalid("currency", "Currency must be a three-letter code")
	}
	in.Currency = strings.ToUpper(in.Currency)
	if in.Timezone, ok = validate.Required(in.Timezone); !ok {
		return invalid("timezone", "Timezone is required")
	}
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return invalid("timezone", "Unknown timezone")
	}
	return s.Repo.Save(ctx, in)
}
