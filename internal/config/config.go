package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port             int
	R2               R2Config
	Supabase         SupabaseConfig
	Stream           StreamConfig
	SignedURLTTL     time.Duration
	MaxVideoDuration time.Duration
}

// R2Config descreve o bucket R2 e as credenciais de assinatura.
type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// SupabaseConfig descreve o provedor de identidade.
// JWTSecret é opcional: quando presente, o token é validado localmente
// sem ida à rede.
type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

// StreamConfig descreve a conta Cloudflare Stream.
type StreamConfig struct {
	AccountID string
	APIToken  string
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.R2.AccountID = strings.TrimSpace(getEnv("R2_ACCOUNT_ID", ""))
	if cfg.R2.AccountID == "" {
		return nil, errors.New("R2_ACCOUNT_ID obrigatório")
	}
	cfg.R2.AccessKey = strings.TrimSpace(getEnv("R2_ACCESS_KEY_ID", ""))
	if cfg.R2.AccessKey == "" {
		return nil, errors.New("R2_ACCESS_KEY_ID obrigatório")
	}
	cfg.R2.SecretKey = strings.TrimSpace(getEnv("R2_SECRET_ACCESS_KEY", ""))
	if cfg.R2.SecretKey == "" {
		return nil, errors.New("R2_SECRET_ACCESS_KEY obrigatório")
	}
	cfg.R2.Bucket = getEnv("R2_BUCKET_NAME", "highwoods-storage")
	cfg.R2.PublicURL = strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/")
	if cfg.R2.PublicURL == "" {
		return nil, errors.New("R2_PUBLIC_URL obrigatório")
	}

	cfg.Supabase.URL = strings.TrimRight(strings.TrimSpace(getEnv("SUPABASE_URL", "")), "/")
	cfg.Supabase.AnonKey = strings.TrimSpace(getEnv("SUPABASE_ANON_KEY", ""))
	cfg.Supabase.JWTSecret = strings.TrimSpace(getEnv("SUPABASE_JWT_SECRET", ""))
	if cfg.Supabase.JWTSecret == "" && (cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "") {
		return nil, errors.New("SUPABASE_URL e SUPABASE_ANON_KEY obrigatórios sem SUPABASE_JWT_SECRET")
	}

	cfg.Stream.AccountID = strings.TrimSpace(getEnv("CLOUDFLARE_ACCOUNT_ID", ""))
	if cfg.Stream.AccountID == "" {
		return nil, errors.New("CLOUDFLARE_ACCOUNT_ID obrigatório")
	}
	cfg.Stream.APIToken = strings.TrimSpace(getEnv("CLOUDFLARE_API_TOKEN", ""))
	if cfg.Stream.APIToken == "" {
		return nil, errors.New("CLOUDFLARE_API_TOKEN obrigatório")
	}

	signedTTL, err := parseDurationEnv("SIGNED_URL_TTL", 300*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.SignedURLTTL = signedTTL

	maxDuration, err := parseDurationEnv("MAX_VIDEO_DURATION", 300*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.MaxVideoDuration = maxDuration

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
