package cli

import (
	"context"
	"time"

	"sales_crm/config"
	authsvc "sales_crm/internal/api/auth/service"
	"sales_crm/internal/datastore"

	"github.com/spf13/cobra"
)

// tokenOutput kết quả lệnh token
type tokenOutput struct {
	Token     string `json:"token"`
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expiresAt"`
}

func newTokenCmd() *cobra.Command {
	var (
		userID int64
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Cấp JWT cho một user (dùng khi thử API)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, cfg *config.Configuration, store datastore.Store) error {
				u, err := store.GetUser(ctx, userID)
				if err != nil {
					return err
				}
				if ttl <= 0 {
					ttl = time.Duration(cfg.JwtTTLHours) * time.Hour
				}
				svc := authsvc.NewTokenService(cfg.JwtSecret, ttl, store, 0)
				defer svc.Close()
				token, err := svc.Sign(*u)
				if err != nil {
					return err
				}
				return writeOutput(out(cmd), outputFormat.String(), tokenOutput{
					Token:     token,
					UserID:    u.ID,
					Role:      u.Role,
					ExpiresAt: time.Now().Add(ttl).UTC().Format(time.RFC3339),
				})
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "ID user (bắt buộc)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Thời hạn token (mặc định JWT_TTL_HOURS)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
