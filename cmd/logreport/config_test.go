package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/Luiz-Camacho/analyze-logs/internal/accesslog"
	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	resetEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.MaxLineSize != defaultMaxLineSize {
		t.Fatalf("MaxLineSize = %d, want %d", cfg.MaxLineSize, defaultMaxLineSize)
	}
	if cfg.OutputDir != "" {
		t.Fatalf("OutputDir = %q, want empty", cfg.OutputDir)
	}
	wantLog := filepath.Join(home, ".local", "state", "logreport", "logreport.log")
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.NoBanner {
		t.Fatal("banner should be enabled by default")
	}
	if diff := cmp.Diff(model.DefaultReportLimits(), cfg.reportLimits()); diff != "" {
		t.Fatalf("limits mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	resetEnv(t)

	configPath := writeTempConfig(t, map[string]any{
		"output-dir":            "/srv/reports",
		"max-line-size":         4096,
		"no-banner":             true,
		"top-status-ips":        50,
		"top-endpoint-ips":      3,
		"endpoints-per-ip":      4,
		"top-suspicious-ips":    7,
		"principal-suspects":    2,
		"endpoints-per-suspect": 9,
	})

	cfg, err := loadConfig(configPath)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}

	if cfg.OutputDir != "/srv/reports" {
		t.Fatalf("OutputDir = %q, want %q", cfg.OutputDir, "/srv/reports")
	}
	if cfg.MaxLineSize != 4096 {
		t.Fatalf("MaxLineSize = %d, want 4096", cfg.MaxLineSize)
	}
	if !cfg.NoBanner {
		t.Fatal("NoBanner should be true")
	}
	if cfg.ConfigPath != configPath {
		t.Fatalf("ConfigPath = %q, want %q", cfg.ConfigPath, configPath)
	}

	want := model.ReportLimits{
		TopStatusIPs:        50,
		TopEndpointIPs:      3,
		EndpointsPerIP:      4,
		TopSuspiciousIPs:    7,
		PrincipalSuspects:   2,
		EndpointsPerSuspect: 9,
	}
	if diff := cmp.Diff(want, cfg.reportLimits()); diff != "" {
		t.Fatalf("limits mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	resetEnv(t)

	configPath := writeTempConfig(t, map[string]any{
		"top-status-ips": 50,
		"output-dir":     "/from/file",
	})
	t.Setenv("LOGREPORT_TOP_STATUS_IPS", "12")
	t.Setenv("LOGREPORT_OUTPUT_DIR", "/from/env")

	cfg, err := loadConfig(configPath)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.TopStatusIPs != 12 {
		t.Fatalf("TopStatusIPs = %d, want 12", cfg.TopStatusIPs)
	}
	if cfg.OutputDir != "/from/env" {
		t.Fatalf("OutputDir = %q, want %q", cfg.OutputDir, "/from/env")
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	resetEnv(t)

	tests := []struct {
		name         string
		values       map[string]any
		errSubstring string
	}{
		{
			name:         "zero max line size rejected",
			values:       map[string]any{"max-line-size": 0},
			errSubstring: "invalid max-line-size",
		},
		{
			name:         "negative status rows rejected",
			values:       map[string]any{"top-status-ips": -1},
			errSubstring: "invalid top-status-ips",
		},
		{
			name:         "zero suspects rejected",
			values:       map[string]any{"principal-suspects": 0},
			errSubstring: "invalid principal-suspects",
		},
		{
			name:         "grammar without every field rejected",
			values:       map[string]any{"grammar": `(?P<ip>\S+) (?P<status>\d{3})`},
			errSubstring: "invalid grammar",
		},
		{
			name:         "grammar that does not compile rejected",
			values:       map[string]any{"grammar": `(?P<ip>\S+`},
			errSubstring: "invalid grammar",
		},
		{
			name:         "zero endpoints per suspect rejected",
			values:       map[string]any{"endpoints-per-suspect": 0},
			errSubstring: "invalid endpoints-per-suspect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeTempConfig(t, tt.values))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errSubstring) {
				t.Fatalf("error = %q, want substring %q", err.Error(), tt.errSubstring)
			}
		})
	}
}

func TestLoadConfig_Grammar(t *testing.T) {
	resetEnv(t)

	cfg, err := loadConfig(writeTempConfig(t, map[string]any{"top-status-ips": 5}))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	p, err := cfg.lineParser()
	if err != nil {
		t.Fatalf("lineParser: %v", err)
	}
	if p != accesslog.DefaultParser() {
		t.Fatal("empty grammar should use the combined-log parser")
	}

	grammar := `^(?P<status>\d{3}) (?P<ip>\S+) (?P<size>\S+) \[(?P<time>[^\]]+)\] "(?P<request>[^"]*)"`
	cfg, err = loadConfig(writeTempConfig(t, map[string]any{"grammar": grammar}))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	p, err = cfg.lineParser()
	if err != nil {
		t.Fatalf("lineParser: %v", err)
	}
	rec, ok := p.Parse(`404 10.1.1.1 12 [05/Mar/2024:10:00:00 +0000] "GET /x HTTP/1.1"`)
	if !ok {
		t.Fatal("configured grammar did not parse its own format")
	}
	if rec.IP != "10.1.1.1" || rec.Status != "404" {
		t.Fatalf("record = %+v, want ip 10.1.1.1 status 404", rec)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	resetEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("top-status-ips: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for malformed config, got nil")
	}
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	resetEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := writeTempConfig(t, map[string]any{
		"output-dir": "~/reports",
		"log-file":   "~/logs/logreport.log",
	})

	cfg, err := loadConfig(configPath)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if want := filepath.Join(home, "reports"); cfg.OutputDir != want {
		t.Fatalf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
	if want := filepath.Join(home, "logs", "logreport.log"); cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestPromptLogPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "trims newline", input: "/var/log/access.log\n", want: "/var/log/access.log"},
		{name: "trims spaces", input: "  access.log.gz  \r\n", want: "access.log.gz"},
		{name: "no trailing newline", input: "access.log", want: "access.log"},
		{name: "empty answer", input: "\n", wantErr: true},
		{name: "closed stdin", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out strings.Builder
			got, err := promptLogPath(strings.NewReader(tt.input), &out)
			if out.String() != "Log file > " {
				t.Fatalf("prompt = %q, want %q", out.String(), "Log file > ")
			}
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got path %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("promptLogPath returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func writeTempConfig(t *testing.T, values map[string]any) string {
	t.Helper()

	content, err := yaml.Marshal(values)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func resetEnv(t *testing.T) {
	t.Helper()

	original := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envPrefix+"_") {
			continue
		}
		original[key] = value
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	t.Cleanup(func() {
		for key, value := range original {
			if err := os.Setenv(key, value); err != nil {
				t.Fatalf("cleanup restore %s: %v", key, err)
			}
		}
	})
}
