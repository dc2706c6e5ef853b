package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Luiz-Camacho/analyze-logs/internal/model"

	"github.com/spf13/viper"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// runCLI is main without the exit, so script tests can drive it.
func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: logreport [flags] [access.log|access.log.gz]\n")
		fs.PrintDefaults()
	}

	var configPath string
	var outputDir string
	var showVersion bool
	fs.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/logreport/config.yml)")
	fs.StringVar(&outputDir, "out", "", "directory for the report file (default is the current directory)")
	fs.BoolVar(&showVersion, "version", false, "print version information")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "logreport - Access Log Report\n")
		fmt.Fprintf(stdout, "  Version:    %s\n", version)
		fmt.Fprintf(stdout, "  Commit:     %s\n", commit)
		fmt.Fprintf(stdout, "  Built:      %s\n", buildTime)
		fmt.Fprintf(stdout, "  Go version: %s\n", goVersion)
		return 0
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	logPath := fs.Arg(0)
	if logPath == "" {
		logPath, err = promptLogPath(stdin, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	cleanupLogger := configureRuntimeLogger(cfg.LogFile, stderr)
	defer cleanupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runReport(ctx, cfg, logPath, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// promptLogPath asks for the log path on stdin when none was given.
func promptLogPath(stdin io.Reader, stdout io.Writer) (string, error) {
	fmt.Fprint(stdout, "Log file > ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading log path: %w", err)
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", errors.New("no log file given")
	}
	return path, nil
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultLogFile := filepath.Join(home, ".local", "state", "logreport", "logreport.log")

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("output-dir", "")
	v.SetDefault("max-line-size", defaultMaxLineSize)
	v.SetDefault("log-file", defaultLogFile)
	v.SetDefault("no-banner", false)
	v.SetDefault("grammar", "")
	v.SetDefault("top-status-ips", model.DefaultTopStatusIPs)
	v.SetDefault("top-endpoint-ips", model.DefaultTopEndpointIPs)
	v.SetDefault("endpoints-per-ip", model.DefaultEndpointsPerIP)
	v.SetDefault("top-suspicious-ips", model.DefaultTopSuspiciousIPs)
	v.SetDefault("principal-suspects", model.DefaultPrincipalSuspects)
	v.SetDefault("endpoints-per-suspect", model.DefaultEndpointsPerSuspect)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "logreport", "config.yml"))
	}

	configLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
		configLoaded = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if configLoaded {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if cfg.MaxLineSize <= 0 {
		return cfg, fmt.Errorf("invalid max-line-size: %d", cfg.MaxLineSize)
	}
	limits := []struct {
		key   string
		value int
	}{
		{"top-status-ips", cfg.TopStatusIPs},
		{"top-endpoint-ips", cfg.TopEndpointIPs},
		{"endpoints-per-ip", cfg.EndpointsPerIP},
		{"top-suspicious-ips", cfg.TopSuspiciousIPs},
		{"principal-suspects", cfg.PrincipalSuspects},
		{"endpoints-per-suspect", cfg.EndpointsPerSuspect},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return cfg, fmt.Errorf("invalid %s: %d", l.key, l.value)
		}
	}

	if _, err := cfg.lineParser(); err != nil {
		return cfg, fmt.Errorf("invalid grammar: %w", err)
	}

	// Expand ~ in paths
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
