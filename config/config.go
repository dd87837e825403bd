package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/storage"
)

// Config holds every setting of the application.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     slog.Level

	SlotDuration       time.Duration
	GenderBlockSize    int
	MaxSlots           int
	EliminationSpacing time.Duration
	StartGenders       map[string]models.Gender
	CORSAllowedOrigins []string

	R2 storage.R2Config
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function so tests do not
// have to touch the process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intVar(getenv, "SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	level, err := parseLogLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	slotDuration, err := durationVar(getenv, "SLOT_DURATION", brackets.DefaultSlotDuration)
	if err != nil {
		return nil, err
	}
	spacing, err := durationVar(getenv, "ELIMINATION_SPACING", brackets.DefaultSlotDuration)
	if err != nil {
		return nil, err
	}

	blockSize, err := intVar(getenv, "GENDER_BLOCK_SIZE", brackets.DefaultBlockSize)
	if err != nil {
		return nil, err
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("GENDER_BLOCK_SIZE must be positive, got %d", blockSize)
	}

	maxSlots, err := intVar(getenv, "MAX_SLOTS", brackets.DefaultMaxSlots)
	if err != nil {
		return nil, err
	}
	if maxSlots < 1 {
		return nil, fmt.Errorf("MAX_SLOTS must be positive, got %d", maxSlots)
	}

	startGenders := brackets.DefaultStartGenders()
	if raw := getenv("MODALITY_START_GENDERS"); raw != "" {
		parsed, err := ParseStartGenders(raw)
		if err != nil {
			return nil, err
		}
		for modality, gender := range parsed {
			startGenders[modality] = gender
		}
	}

	return &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		LogLevel:           level,
		SlotDuration:       slotDuration,
		GenderBlockSize:    blockSize,
		MaxSlots:           maxSlots,
		EliminationSpacing: spacing,
		StartGenders:       startGenders,
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS")),
		R2: storage.R2Config{
			AccountID:       getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		},
	}, nil
}

// ParseStartGenders parses "futsal=female,volleyball=male".
func ParseStartGenders(raw string) (map[string]models.Gender, error) {
	out := make(map[string]models.Gender)
	for _, item := range splitList(raw) {
		modality, value, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(modality) == "" {
			return nil, fmt.Errorf("invalid MODALITY_START_GENDERS entry %q, expected modality=gender", item)
		}
		gender, err := models.ParseGender(value)
		if err != nil {
			return nil, fmt.Errorf("invalid MODALITY_START_GENDERS entry %q: %w", item, err)
		}
		out[strings.ToLower(strings.TrimSpace(modality))] = gender
	}
	return out, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
