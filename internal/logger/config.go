package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	// trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL"`
	// json, text
	Format string `env:"LOG_FORMAT"`
	// file, stdout, both
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`

	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"`     // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`    // Số file cũ giữ lại
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"`        // Số ngày giữ lại
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`    // Nén file cũ
	BufferSize int  `env:"LOG_BUFFER_SIZE" envDefault:"1000"` // Số entry tối đa chờ ghi

	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Các key sẽ bị che giá trị khi ghi log (phân cách bởi dấu phẩy)
	RedactKeys string `env:"LOG_REDACT_KEYS" envDefault:"authorization,token,password,jwt_secret,smtp_password"`
}

// DefaultConfig đọc cấu hình từ biến môi trường, level/format mặc định theo GO_ENV
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	_ = env.Parse(cfg)

	goEnv := os.Getenv("GO_ENV")
	if cfg.Level == "" {
		if goEnv == "" || goEnv == "development" {
			cfg.Level = "debug"
		} else {
			cfg.Level = "info"
		}
	}
	if cfg.Format == "" {
		if goEnv == "production" {
			cfg.Format = "json"
		} else {
			cfg.Format = "text"
		}
	}
	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg
}

// redactSet trả về tập key cần che
func (c *LogConfig) redactSet() map[string]bool {
	set := make(map[string]bool)
	for _, k := range strings.Split(c.RedactKeys, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = true
		}
	}
	return set
}
