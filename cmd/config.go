package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "bootmigrate"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	dirFlagName        = "dir"
	rulesFlagName      = "rules"
	excludeFlagName    = "exclude"
	logFileFlagName    = "log-file"
	verboseFlagName    = "verbose"
	phaseFlagName      = "phase"
	dryRunFlagName     = "dry-run"
	reportOnlyFlagName = "report-only"
	noGatesFlagName    = "no-gates"
	noBranchFlagName   = "no-branch"
	branchFlagName     = "branch"
	yesFlagName        = "yes"
	diffFlagName       = "diff"
	buildToolFlagName  = "build-tool"
	exportFlagName     = "export"

	dirConfigKey          = "dir"
	rulesFileConfigKey    = "rules.file"
	excludeConfigKey      = "paths.exclude"
	phaseConfigKey        = "migrate.phase"
	gatesConfigKey        = "migrate.gates"
	branchConfigKey       = "migrate.branch"
	createBranchConfigKey = "migrate.create_branch"
	gateTimeoutConfigKey  = "migrate.gate_timeout"

	defaultDir          = "."
	defaultPhase        = ""
	defaultGates        = true
	defaultCreateBranch = true

	envPrefix = "BOOTMIGRATE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	logBaseName          = "bootmigrate.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(dirConfigKey, defaultDir)
	viper.SetDefault(rulesFileConfigKey, "")
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(phaseConfigKey, defaultPhase)
	viper.SetDefault(gatesConfigKey, defaultGates)
	viper.SetDefault(branchConfigKey, "")
	viper.SetDefault(createBranchConfigKey, defaultCreateBranch)
	viper.SetDefault(gateTimeoutConfigKey, adapter.DefaultGateTimeout.String())

	// log.* keys back the --log-file and --verbose flags.
	viper.SetDefault(logFilenameKey, defaultLogFilename())
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return
		}

		slog.Warn("Ignoring unreadable config file", "file", configFileName, "error", err)
	}
}

// defaultLogFilename keeps the log out of the tree being migrated, so it
// neither dirties git nor changes the tree fingerprint.
func defaultLogFilename() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, configBaseName, logBaseName)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// log.level may also hold the raw slog value, -4 being debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger points slog at a rotating file under logPath, falling
// back to log.filename and then the user cache dir. Verbose forces debug
// level over log.level.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename()
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
