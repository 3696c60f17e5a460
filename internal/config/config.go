package config

type Config interface {
	EnvConfig
	AdminConfig
	ApprovalConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpPassword() string
	GetSmtpAccount() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Admin
	Approval
}

func New() Config {
	return mainConfig{}
}
