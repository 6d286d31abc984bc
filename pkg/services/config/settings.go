package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/de-tools/zimport/pkg/store/client"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyEasyCashierURL      = "easycashier-url"
	KeyEasyCashierUsername = "easycashier-username"
	KeyEasyCashierPassword = "easycashier-password"
	KeyEasyCashierCompany  = "easycashier-company"
	KeyBokioAPIURL         = "bokio-api-url"
	KeyBokioAPIToken       = "bokio-api-token"
	KeyBokioCompanyID      = "bokio-company-id"
	KeyStartDate           = "start-date"
	KeyEndDate             = "end-date"
	KeyDate                = "date"
	KeyMatch               = "match"
	KeyOutputDir           = "output-dir"
	KeyConfig              = "config"
	KeyProfile             = "profile"
)

const (
	DefaultEasyCashierURL = client.EasyCashierURL
	DefaultBokioAPIURL    = client.BokioAPIURL
	DefaultConfigName     = ".zimportcfg"
)

var envKeys = map[string]string{
	KeyEasyCashierURL:      "EASYCASHIER_URL",
	KeyEasyCashierUsername: "EASYCASHIER_USERNAME",
	KeyEasyCashierPassword: "EASYCASHIER_PASSWORD",
	KeyEasyCashierCompany:  "EASYCASHIER_COMPANY",
	KeyBokioAPIURL:         "BOKIO_API_URL",
	KeyBokioAPIToken:       "BOKIO_API_TOKEN",
	KeyBokioCompanyID:      "BOKIO_COMPANY_ID",
}

// Older spellings still accepted on the command line.
var flagAliases = map[string]string{
	"easy-url":      KeyEasyCashierURL,
	"easy-username": KeyEasyCashierUsername,
	"easy-password": KeyEasyCashierPassword,
	"orgnummer":     KeyEasyCashierCompany,
	"easy-company":  KeyEasyCashierCompany,
	"start":         KeyStartDate,
	"end":           KeyEndDate,
	"bokio-url":     KeyBokioAPIURL,
	"bokio-token":   KeyBokioAPIToken,
	"bokio-company": KeyBokioCompanyID,
}

// Settings is everything a run needs. Secrets are kept in memory only.
type Settings struct {
	EasyCashierURL      string `mapstructure:"easycashier-url" validate:"required,url"`
	EasyCashierUsername string `mapstructure:"easycashier-username" validate:"required"`
	EasyCashierPassword string `mapstructure:"easycashier-password" validate:"required"`
	EasyCashierCompany  string `mapstructure:"easycashier-company"`
	BokioAPIURL         string `mapstructure:"bokio-api-url" validate:"required,url"`
	BokioAPIToken       string `mapstructure:"bokio-api-token" validate:"required"`
	BokioCompanyID      string `mapstructure:"bokio-company-id" validate:"required"`
	StartDate           string `mapstructure:"start-date" validate:"omitempty,datetime=2006-01-02"`
	EndDate             string `mapstructure:"end-date" validate:"omitempty,datetime=2006-01-02"`
	Date                string `mapstructure:"date" validate:"omitempty,datetime=2006-01-02"`
	Match               string `mapstructure:"match"`
	OutputDir           string `mapstructure:"output-dir"`
}

// CredentialPrompter asks the operator for a missing value.
type CredentialPrompter interface {
	Ask(label string) (string, error)
	AskSecret(label string) (string, error)
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if alias, ok := flagAliases[name]; ok {
		name = alias
	}
	return pflag.NormalizedName(name)
}

// DefaultConfigPath is the profile file in the home directory of the current user.
func DefaultConfigPath() string {
	usr, err := user.Current()
	if err != nil {
		return DefaultConfigName
	}
	return filepath.Join(usr.HomeDir, DefaultConfigName)
}

// RegisterFlags adds the credential, date and profile flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.SetNormalizeFunc(normalizeFlag)

	flags.String(KeyEasyCashierURL, DefaultEasyCashierURL, "EasyCashier back office URL (env EASYCASHIER_URL)")
	flags.String(KeyEasyCashierUsername, "", "EasyCashier username (env EASYCASHIER_USERNAME)")
	flags.String(KeyEasyCashierPassword, "", "EasyCashier password (env EASYCASHIER_PASSWORD)")
	flags.String(KeyEasyCashierCompany, "", "EasyCashier organization number, defaults to the account's preferred one (env EASYCASHIER_COMPANY)")
	flags.String(KeyBokioAPIURL, DefaultBokioAPIURL, "Bokio API URL (env BOKIO_API_URL)")
	flags.String(KeyBokioAPIToken, "", "Bokio API token (env BOKIO_API_TOKEN)")
	flags.String(KeyBokioCompanyID, "", "Bokio company id (env BOKIO_COMPANY_ID)")
	flags.String(KeyStartDate, "", "First report date (YYYY-MM-DD)")
	flags.String(KeyEndDate, "", "Last report date (YYYY-MM-DD)")
	flags.String(KeyDate, "", "Single report date (YYYY-MM-DD), sets both start and end")
	flags.String(KeyConfig, DefaultConfigPath(), "Path to the credential profile file")
	flags.String(KeyProfile, DefaultProfile, "Profile section to read from the credential profile file")
}

// Load resolves settings with the precedence flag, environment (including a
// .env file), profile file. Values still missing are left empty.
func Load(ctx context.Context, flags *pflag.FlagSet) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("failed to load .env file")
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := applyProfile(ctx, v, flags); err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// applyProfile installs the profile values as viper defaults so that flags and
// environment still win. A missing file is only an error when it was named
// explicitly.
func applyProfile(ctx context.Context, v *viper.Viper, flags *pflag.FlagSet) error {
	logger := zerolog.Ctx(ctx)

	path := v.GetString(KeyConfig)
	profile := v.GetString(KeyProfile)
	explicitPath := flags.Changed(KeyConfig)
	explicitProfile := flags.Changed(KeyProfile)

	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicitPath {
			return fmt.Errorf("failed to read profile file %s: %w", path, err)
		}
		return nil
	}

	registry, err := NewRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load profile file %s: %w", path, err)
	}

	values, err := registry.GetProfile(ctx, profile)
	if err != nil {
		if explicitProfile {
			return err
		}
		return nil
	}

	for key, value := range values {
		if key == KeyConfig || key == KeyProfile {
			continue
		}
		v.SetDefault(key, value)
	}
	logger.Debug().Str("path", path).Str("profile", profile).Int("keys", len(values)).Msg("loaded credential profile")
	return nil
}

// Complete prompts for every required value that is still empty.
// Identifiers are asked in plain text, secrets masked.
func (s *Settings) Complete(p CredentialPrompter) error {
	prompts := []struct {
		value  *string
		label  string
		secret bool
	}{
		{&s.EasyCashierUsername, "EasyCashier username", false},
		{&s.EasyCashierPassword, "EasyCashier password", true},
		{&s.BokioAPIToken, "Bokio API token", true},
		{&s.BokioCompanyID, "Bokio company id", false},
	}

	for _, q := range prompts {
		if *q.value != "" {
			continue
		}
		var answer string
		var err error
		if q.secret {
			answer, err = p.AskSecret(q.label)
		} else {
			answer, err = p.Ask(q.label)
		}
		if err != nil {
			return err
		}
		*q.value = answer
	}
	return nil
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("mapstructure")
	})
	return validate
}

// Validate returns domain.ErrMissingCredential for empty required values and
// a plain error for malformed ones.
func (s *Settings) Validate() error {
	err := newValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fmt.Sprintf("--%s %q", fe.Field(), fe.Value()))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingCredential, strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(invalid, ", "))
}

// Dates parses the optional date settings. Date sets both start and end.
func (s *Settings) Dates() (start, end *time.Time, err error) {
	if s.Date != "" {
		d, err := time.Parse(time.DateOnly, s.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --date: %w", err)
		}
		return &d, &d, nil
	}

	if s.StartDate != "" {
		d, err := time.Parse(time.DateOnly, s.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --start-date: %w", err)
		}
		start = &d
	}
	if s.EndDate != "" {
		d, err := time.Parse(time.DateOnly, s.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --end-date: %w", err)
		}
		end = &d
	}
	return start, end, nil
}
