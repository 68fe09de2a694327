package main

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/taskdeck/taskdeck-backend/pkg/db"
	"github.com/taskdeck/taskdeck-backend/pkg/utils"

	accountDB "github.com/taskdeck/taskdeck-backend/pkg/db/account"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACCOUNT_DB_USERNAME = "ACCOUNT_DB_USERNAME"
	ENV_ACCOUNT_DB_PASSWORD = "ACCOUNT_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		AccountDB db.DBConfigYaml `json:"account_db" yaml:"account_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// account management configs
	AccountManagementConfig struct {
		DeleteUnverifiedAccountsAfter time.Duration `json:"delete_unverified_accounts_after" yaml:"delete_unverified_accounts_after"`
	} `json:"account_management_config" yaml:"account_management_config"`

	RunTasks struct {
		CleanUpUnverifiedAccounts bool `json:"clean_up_unverified_accounts" yaml:"clean_up_unverified_accounts"`
	} `json:"run_tasks" yaml:"run_tasks"`
}

var conf config

var (
	accountDBService *accountDB.AccountDBService
)

func init() {
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

	// check config values:
	if conf.RunTasks.CleanUpUnverifiedAccounts && conf.AccountManagementConfig.DeleteUnverifiedAccountsAfter == 0 {
		slog.Error("DeleteUnverifiedAccountsAfter is not set")
		panic("DeleteUnverifiedAccountsAfter is not set")
	}

	// init db
	initDBs()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ACCOUNT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AccountDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACCOUNT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AccountDB.Password = dbPassword
	}
}

func initDBs() {
	var err error
	accountDBService, err = accountDB.NewAccountDBService(db.DBConfigFromYamlObj(conf.DBConfigs.AccountDB))
	if err != nil {
		slog.Error("Error connecting to Account DB", slog.String("error", err.Error()))
		panic(err)
	}
}
