package config

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	Environment        string
	Port               string
	APIBaseURL         string
	SessionSecret      string
	CORSOrigins        []string
	HTTPTimeout        time.Duration
	LoginRateLimit     int64
	LogFile            string
	StorageDriver      string
	StorageFile        string
	MongoURI           string
	MongoDBName        string
	PostgresUser       string
	PostgresPassword   string
	PostgresDB         string
	PostgresHost       string
	PostgresPort       string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	AWSRegion          string
	AWSBucketName      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// singleton lock
	loadConfigOnce sync.Once
)

var AWSConfig aws.Config

// DevSessionSecret signs session cookies outside production only.
const DevSessionSecret = "pg-portal-dev-secret"

func setDefaults() {
	viper.SetDefault("PORT", "4200")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("SESSION_SECRET", DevSessionSecret)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:4200")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("LOGIN_RATE_LIMIT", 20)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "logs/app.log")
	viper.SetDefault("STORAGE_DRIVER", "file")
	viper.SetDefault("STORAGE_FILE", "data/storage.json")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "pg_portal")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AWS_REGION", "ap-south-1")
}

// LoadConfig loads configuration from .env or config.yaml using Viper.
// Environment variables always win over file values.
func LoadConfig() error {
	var loadError error
	loadConfigOnce.Do(func() {
		// godotenv puts .env into the process environment for anything that reads os.Getenv
		_ = godotenv.Load()

		setDefaults()
		viper.AutomaticEnv()

		// Try to load config from .env first, then fallback to config.yaml
		viper.SetConfigFile(".env")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigFile("config.yaml")
			if err := viper.ReadInConfig(); err != nil {
				log.Println("⚠️ No .env or config.yaml found, using environment and defaults")
			}
		}

		Environment = viper.GetString("ENVIRONMENT")
		Port = viper.GetString("PORT")
		APIBaseURL = strings.TrimRight(viper.GetString("API_BASE_URL"), "/")
		SessionSecret = viper.GetString("SESSION_SECRET")
		CORSOrigins = splitList(viper.GetString("CORS_ORIGINS"))
		HTTPTimeout = time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second
		LoginRateLimit = viper.GetInt64("LOGIN_RATE_LIMIT")
		LogFile = viper.GetString("LOG_FILE")
		StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
		StorageFile = viper.GetString("STORAGE_FILE")
		MongoURI = viper.GetString("MONGO_URI")
		MongoDBName = viper.GetString("MONGO_DB")
		PostgresUser = viper.GetString("POSTGRES_USER")
		PostgresPassword = viper.GetString("POSTGRES_PASSWORD")
		PostgresDB = viper.GetString("POSTGRES_DB")
		PostgresHost = viper.GetString("POSTGRES_HOST")
		PostgresPort = viper.GetString("POSTGRES_PORT")
		RedisAddr = viper.GetString("REDIS_ADDR")
		RedisPassword = viper.GetString("REDIS_PASSWORD")
		RedisDB = viper.GetInt("REDIS_DB")
		AWSAccessKeyID = viper.GetString("AWS_ACCESS_KEY_ID")
		AWSSecretAccessKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
		AWSRegion = viper.GetString("AWS_REGION")
		AWSBucketName = viper.GetString("AWS_BUCKET_NAME")

		if APIBaseURL == "" {
			loadError = errors.New("config: API_BASE_URL is required")
			return
		}
		if err := checkSessionSecret(Environment, SessionSecret); err != nil {
			loadError = err
			return
		}
		if HTTPTimeout <= 0 {
			HTTPTimeout = 15 * time.Second
		}

		log.Println("✅ Configuration loaded")
	})

	return loadError
}

// checkSessionSecret refuses a blank or development cookie secret in production.
func checkSessionSecret(environment, secret string) error {
	if !strings.EqualFold(environment, "production") {
		return nil
	}
	if secret == "" || secret == DevSessionSecret {
		return errors.New("config: SESSION_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether the portal runs with ENVIRONMENT=production.
func IsProduction() bool {
	return strings.EqualFold(Environment, "production")
}

// ArchiveEnabled reports whether report exports should be copied to S3.
func ArchiveEnabled() bool {
	return AWSBucketName != ""
}

func LoadAWSConfig() error {
	opts := []func(*config.LoadOptions) error{config.WithRegion(AWSRegion)}
	if AWSAccessKeyID != "" && AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(AWSAccessKeyID, AWSSecretAccessKey, ""),
			),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return err
	}
	AWSConfig = cfg
	log.Printf("📦 AWS SDK configured for region %s", cfg.Region)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
