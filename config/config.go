package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env         string `envconfig:"ENV"`
		LogLevel    string `envconfig:"LOG_LEVEL"`
		LogFilePath string `envconfig:"LOG_FILE_PATH"`
		Port        string `envconfig:"PORT"`
		Host        string `envconfig:"HOST"`
		Shutdown    struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"bedcall-worker"`
		Topics        struct {
			DispatchTrigger string `envconfig:"DISPATCH_TRIGGER" default:"bedcall.dispatch.trigger"`
			CampaignEvents  string `envconfig:"CAMPAIGN_EVENTS" default:"bedcall.campaign.events"`
		} `envconfig:"TOPICS"`
		SASL struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	// Telephony holds the SignalWire (LaML compatible) account used for outbound calls.
	Telephony struct {
		SpaceURL           string        `envconfig:"SPACE_URL"`
		ProjectID          string        `envconfig:"PROJECT_ID"`
		APIToken           string        `envconfig:"API_TOKEN"`
		FromNumber         string        `envconfig:"FROM_NUMBER"`
		AnswerURL          string        `envconfig:"ANSWER_URL"`
		PublicURL          string        `envconfig:"PUBLIC_URL"`
		CallbackSecret     string        `envconfig:"CALLBACK_SECRET"`
		CallTokenTTL       time.Duration `envconfig:"CALL_TOKEN_TTL" default:"6h"`
		RingTimeoutSeconds int           `envconfig:"RING_TIMEOUT_SECONDS" default:"30"`
		RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	} `envconfig:"TELEPHONY"`

	Dispatch struct {
		BatchSize         int           `envconfig:"BATCH_SIZE" default:"5"`
		DialPause         time.Duration `envconfig:"DIAL_PAUSE" default:"1s"`
		DialTimeout       time.Duration `envconfig:"DIAL_TIMEOUT" default:"15s"`
		LockTTL           time.Duration `envconfig:"LOCK_TTL" default:"2m"`
		StaleCallingAfter time.Duration `envconfig:"STALE_CALLING_AFTER" default:"10m"`
		SweepInterval     time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
		RetriggerInterval time.Duration `envconfig:"RETRIGGER_INTERVAL" default:"2m"`
		DrainPollInterval time.Duration `envconfig:"DRAIN_POLL_INTERVAL" default:"15s"`
		MaxDrainRounds    int           `envconfig:"MAX_DRAIN_ROUNDS" default:"200"`
	} `envconfig:"DISPATCH"`

	Schedule struct {
		EventRule    string `envconfig:"EVENT_RULE" default:"FREQ=WEEKLY;BYDAY=SA"`
		CalendarFile string `envconfig:"CALENDAR_FILE"`
		AutoCreate   bool   `envconfig:"AUTO_CREATE"`
	} `envconfig:"SCHEDULE"`

	Metrics struct {
		Enable    bool   `envconfig:"ENABLE" default:"true"`
		Namespace string `envconfig:"NAMESPACE" default:"bedcall"`
	} `envconfig:"METRICS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			Region          string `envconfig:"REGION" default:"auto"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		} `envconfig:"S3"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
