package app

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ConfigPath is the toml configuration file path
var ConfigPath = "config"

// ConfigName is the toml configuration file name
var ConfigName = "intelligence-api"

// EnvPrefix is the standard environment variable prefix
var EnvPrefix = "FIELDREACH"

// ConfigKey is one allowed configuration key with its default value
type ConfigKey struct {
	Name         string
	DefaultValue interface{}
	Description  string
}

// AllowedConfigKey list every allowed configuration key
var AllowedConfigKey = []ConfigKey{
	{Name: "DEBUG_MODE", DefaultValue: false, Description: "Enable debug mode"},
	{Name: "LOGGER_PRODUCTION", DefaultValue: true, Description: "Enable production structured logging"},
	{Name: "SERVER_PORT", DefaultValue: 9000, Description: "Server port"},
	{Name: "SERVER_ENABLE_TLS", DefaultValue: false, Description: "Run the server in secured mode (with SSL)"},
	{Name: "SERVER_TLS_FILE_CRT", DefaultValue: "certs/server.rsa.crt", Description: "SSL certificate crt file location"},
	{Name: "SERVER_TLS_FILE_KEY", DefaultValue: "certs/server.rsa.key", Description: "SSL certificate key file location"},
	{Name: "API_ENABLE_CORS", DefaultValue: true, Description: "Run the api with CORS enabled"},
	{Name: "API_ENABLE_SECURITY", DefaultValue: true, Description: "Run the api with JWT authentication enabled"},
	{Name: "API_ENABLE_GATEWAY_MODE", DefaultValue: false, Description: "Run the api behind a pre-authenticating gateway"},
	{Name: "API_JWT_SIGNING_KEY", DefaultValue: "", Description: "JWT signing key (mandatory when security is enabled)"},
	{Name: "HTTP_SERVER_API_ENABLE_VERBOSE_ERROR", DefaultValue: false, Description: "Send detailed API error messages to the caller"},
	{Name: "INSTANCE_NAME", DefaultValue: "fieldreach", Description: "Instance name"},
	{Name: "POSTGRESQL_HOSTNAME", DefaultValue: "localhost", Description: "PostgreSQL hostname"},
	{Name: "POSTGRESQL_PORT", DefaultValue: "5432", Description: "PostgreSQL port"},
	{Name: "POSTGRESQL_DBNAME", DefaultValue: "postgres", Description: "PostgreSQL database name"},
	{Name: "POSTGRESQL_USERNAME", DefaultValue: "postgres", Description: "PostgreSQL user"},
	{Name: "POSTGRESQL_PASSWORD", DefaultValue: "postgres", Description: "PostgreSQL password"},
	{Name: "POSTGRESQL_CONN_POOL_MAX_OPEN", DefaultValue: 6, Description: "PostgreSQL connection pool max open"},
	{Name: "POSTGRESQL_CONN_POOL_MAX_IDLE", DefaultValue: 3, Description: "PostgreSQL connection pool max idle"},
	{Name: "POSTGRESQL_CONN_MAX_LIFETIME", DefaultValue: "0", Description: "PostgreSQL connection max lifetime"},
	{Name: "ENABLE_CRONS_ON_START", DefaultValue: true, Description: "Enable maintenance crons on startup"},
	{Name: "REDIS_ENABLED", DefaultValue: false, Description: "Enable the redis trigger cache"},
	{Name: "REDIS_ADDRESS", DefaultValue: "localhost:6379", Description: "Redis address"},
	{Name: "REDIS_PASSWORD", DefaultValue: "", Description: "Redis password"},
	{Name: "KAFKA_ENABLED", DefaultValue: false, Description: "Enable the kafka event ingester"},
	{Name: "KAFKA_BROKERS", DefaultValue: []string{"localhost:9092"}, Description: "Kafka broker addresses"},
	{Name: "KAFKA_TOPIC", DefaultValue: "campaign-events", Description: "Kafka event topic"},
	{Name: "KAFKA_GROUP_ID", DefaultValue: "intelligence-api", Description: "Kafka consumer group"},
}

func initConfiguration() {
	for _, key := range AllowedConfigKey {
		viper.SetDefault(key.Name, key.DefaultValue)
	}

	viper.SetConfigName(ConfigName)
	viper.SetConfigType("toml")
	viper.AddConfigPath(ConfigPath)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zap.L().Warn("No configuration file found, using defaults and environment", zap.Error(err))
	}
}
