package config

// EnvPrefix is intentionally empty: every field names its variable in full so
// grepping for SUPPLYLINE_ finds the complete surface.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SUPPLYLINE_DB_DSN"
	EnvDBHost = "SUPPLYLINE_DB_HOST"
	EnvDBUser = "SUPPLYLINE_DB_USER"
	EnvDBName = "SUPPLYLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
