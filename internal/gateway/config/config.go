package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	Env   string
	LLM   LLMConfig
	Drive DriveConfig
	Share ShareConfig
}

type LLMConfig struct {
	Provider string // "gemini" or "fake"
	APIKey   string
	Model    string
}

type DriveConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Folder    string
	UseSSL    bool
}

type ShareConfig struct {
	WhatsAppNumber string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:  *port,
		Env:   env,
		LLM:   loadLLMConfig(),
		Drive: loadDriveConfig(env),
		Share: loadShareConfig(),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "gemini"
	}
	return LLMConfig{
		Provider: provider,
		APIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
	}
}

func loadDriveConfig(env string) DriveConfig {
	return DriveConfig{
		Endpoint:  resolveDriveEndpoint(env),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DRIVE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DRIVE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DRIVE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DRIVE_S3_BUCKET")), "risk-protocols"),
		Folder:    firstNonEmpty(strings.TrimSpace(os.Getenv("DRIVE_FOLDER")), "protocolos"),
		UseSSL:    resolveDriveUseSSL(env),
	}
}

func loadShareConfig() ShareConfig {
	return ShareConfig{
		// Target number without '+' or separators.
		WhatsAppNumber: firstNonEmpty(strings.TrimSpace(os.Getenv("SHARE_WHATSAPP_NUMBER")), "5547988802260"),
	}
}

func resolveDriveEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("DRIVE_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("DRIVE_S3_ENDPOINT"))
}

func resolveDriveUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("DRIVE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
