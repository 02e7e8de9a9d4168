// Package cli chứa các lệnh của reportctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"sales_crm/config"
	"sales_crm/internal/datastore"
	"sales_crm/internal/global"

	"github.com/spf13/cobra"
)

var (
	envFile      string
	outputFormat = newEnumValue("yaml", "yaml", "json")
	timeout      time.Duration

	// openStore thay được trong test
	openStore = datastore.Open
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportctl",
		Short: "Công cụ dòng lệnh cho Sales CRM",
		Long: `reportctl dùng chung cấu hình (config/env/<GO_ENV>.env hoặc biến môi trường) với server.

Examples:
  reportctl generate --type sales --period week --as 1
  reportctl generate --type forecast --start 2024-01-01 --end 2024-03-31 --as 1 --format json
  reportctl token --user 1
  reportctl seed --users 5 --days 90 --admin-email admin@sales-crm.local`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "File env (mặc định: config/env/<GO_ENV>.env)")
	cmd.PersistentFlags().Var(outputFormat, "format", "Định dạng output: "+outputFormat.Allowed())
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout cho mỗi lệnh")

	cmd.AddCommand(newGenerateCmd(), newTokenCmd(), newSeedCmd())
	return cmd
}

// Execute chạy root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig đọc cấu hình và gán global.ServerConfig
func loadConfig() (*config.Configuration, error) {
	var cfg *config.Configuration
	if envFile != "" {
		cfg = config.NewConfig(envFile)
	} else {
		cfg = config.NewConfig()
	}
	if cfg == nil {
		return nil, fmt.Errorf("cấu hình không hợp lệ (kiểm tra JWT_SECRET, DB_DRIVER, SQL_DSN)")
	}
	global.ServerConfig = cfg
	return cfg, nil
}

// withStore mở store, chạy fn rồi đóng store
func withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Configuration, store datastore.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("mở datastore: %w", err)
	}
	defer store.Close(context.Background())
	return fn(ctx, cfg, store)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
