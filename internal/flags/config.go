package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "MASKD_CONFIG_FILE"
	EnvVarLogPath    = "MASKD_LOG_PATH"
	EnvVarLogLevel   = "MASKD_LOG_LEVEL"
	EnvVarLogFormat  = "MASKD_LOG_FORMAT"

	// Defaults
	DefaultConfigFile = ".maskd.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
	FlagNameLogFormat  = "log-format"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string
	LogFormat  string
)

func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		ConfigFile = fromEnv(EnvVarConfigFile, DefaultConfigFile)
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to config file")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		LogPath = fromEnv(EnvVarLogPath, DefaultLogPath)
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		LogLevel = strings.ToLower(fromEnv(EnvVarLogLevel, DefaultLogLevel))
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for maskd logs")

	if LogFormat == "" {
		LogFormat = strings.ToLower(fromEnv(EnvVarLogFormat, DefaultLogFormat))
	}
	fs.StringVar(&LogFormat, FlagNameLogFormat, LogFormat, "log format for maskd logs (text, json)")
}

func fromEnv(key string, fallback string) string {
	if env := strings.TrimSpace(os.Getenv(key)); env != "" {
		return env
	}
	return fallback
}
