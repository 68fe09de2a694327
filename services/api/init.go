package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/taskdeck/taskdeck-backend/pkg/account-management/pwhash"
	"github.com/taskdeck/taskdeck-backend/pkg/ai"
	"github.com/taskdeck/taskdeck-backend/pkg/apihelpers"
	"github.com/taskdeck/taskdeck-backend/pkg/db"
	httpclient "github.com/taskdeck/taskdeck-backend/pkg/http-client"
	emailsending "github.com/taskdeck/taskdeck-backend/pkg/messaging/email-sending"
	messagingTypes "github.com/taskdeck/taskdeck-backend/pkg/messaging/types"
	"github.com/taskdeck/taskdeck-backend/pkg/utils"

	accountmanagement "github.com/taskdeck/taskdeck-backend/pkg/account-management"
	accountDB "github.com/taskdeck/taskdeck-backend/pkg/db/account"
	taskDB "github.com/taskdeck/taskdeck-backend/pkg/db/task"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACCOUNT_DB_USERNAME = "ACCOUNT_DB_USERNAME"
	ENV_ACCOUNT_DB_PASSWORD = "ACCOUNT_DB_PASSWORD"
	ENV_TASK_DB_USERNAME    = "TASK_DB_USERNAME"
	ENV_TASK_DB_PASSWORD    = "TASK_DB_PASSWORD"

	ENV_SMTP_BRIDGE_API_KEY = "SMTP_BRIDGE_API_KEY"
	ENV_AI_API_KEY          = "AI_API_KEY"

	ENV_ACCOUNT_JWT_SIGN_KEY = "ACCOUNT_JWT_SIGN_KEY"
)

type ApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// account management configs
	AccountManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		AccountJWTConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"account_jwt_config" yaml:"account_jwt_config"`
		MaxNewAccountsPer5Minutes int `json:"max_new_accounts_per_5_minutes" yaml:"max_new_accounts_per_5_minutes"`
	} `json:"account_management_config" yaml:"account_management_config"`

	// DB configs
	DBConfigs struct {
		AccountDB db.DBConfigYaml `json:"account_db" yaml:"account_db"`
		TaskDB    db.DBConfigYaml `json:"task_db" yaml:"task_db"`
	} `json:"db_configs" yaml:"db_configs"`

	MessagingConfigs messagingTypes.MessagingConfigs `json:"messaging_configs" yaml:"messaging_configs"`

	// AI assist config
	AIConfig struct {
		RootURL        string        `json:"root_url" yaml:"root_url"`
		APIKey         string        `json:"api_key" yaml:"api_key"`
		Model          string        `json:"model" yaml:"model"`
		RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"ai_config" yaml:"ai_config"`
}

var (
	accountDBService *accountDB.AccountDBService
	taskDBService    *taskDB.TaskDBService
	aiClient         *ai.Client
)

func init() {
	// optional .env file for local development
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded")
	}

	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
		conf.Logging.IncludeBuildInfo,
	)

	// Override secrets from environment variables
	secretsOverride()

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init argon2
	pwhash.InitArgonParams(
		conf.AccountManagementConfig.PWHashing.Argon2Memory,
		conf.AccountManagementConfig.PWHashing.Argon2Iterations,
		conf.AccountManagementConfig.PWHashing.Argon2Parallelism,
	)

	// init message sending config
	initMessageSendingConfig()

	// init account management
	initAccountManagement()

	aiClient = ai.NewClient(
		conf.AIConfig.RootURL,
		conf.AIConfig.APIKey,
		conf.AIConfig.Model,
		conf.AIConfig.RequestTimeout,
	)
}

func secretsOverride() {
	if apiKey := os.Getenv(ENV_SMTP_BRIDGE_API_KEY); apiKey != "" {
		conf.MessagingConfigs.SmtpBridgeConfig.APIKey = apiKey
	}

	if apiKey := os.Getenv(ENV_AI_API_KEY); apiKey != "" {
		conf.AIConfig.APIKey = apiKey
	}

	if dbUsername := os.Getenv(ENV_ACCOUNT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AccountDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACCOUNT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AccountDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_TASK_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.TaskDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_TASK_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.TaskDB.Password = dbPassword
	}

	if jwtSignKey := os.Getenv(ENV_ACCOUNT_JWT_SIGN_KEY); jwtSignKey != "" {
		conf.AccountManagementConfig.AccountJWTConfig.SignKey = jwtSignKey
	}
}

func initAccountManagement() {
	accountmanagement.Init(
		accountDBService,
		func(email string, code string, preferredLang string, expiresAt int64) error {
			return emailsending.SendVerificationCode(email, code, preferredLang, expiresAt)
		},
	)
}

func initMessageSendingConfig() {
	emailsending.InitMessageSendingVariables(
		&httpclient.ClientConfig{
			RootURL: conf.MessagingConfigs.SmtpBridgeConfig.URL,
			APIKey:  conf.MessagingConfigs.SmtpBridgeConfig.APIKey,
			Timeout: conf.MessagingConfigs.SmtpBridgeConfig.RequestTimeout,
		},
		conf.MessagingConfigs.GlobalEmailTemplateConstants,
	)
}

func initDBs() {
	var err error
	accountDBService, err = accountDB.NewAccountDBService(db.DBConfigFromYamlObj(conf.DBConfigs.AccountDB))
	if err != nil {
		slog.Error("Error connecting to Account DB", slog.String("error", err.Error()))
		return
	}

	taskDBService, err = taskDB.NewTaskDBService(db.DBConfigFromYamlObj(conf.DBConfigs.TaskDB))
	if err != nil {
		slog.Error("Error connecting to Task DB", slog.String("error", err.Error()))
		return
	}
}
