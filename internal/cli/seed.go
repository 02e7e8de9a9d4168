package cli

import (
	"context"

	"sales_crm/config"
	"sales_crm/internal/api/initsvc"
	"sales_crm/internal/datastore"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		opts       initsvc.SeedOptions
		adminEmail string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Sinh dữ liệu demo (users, leads, pipelines, chấm công) vào datastore",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, cfg *config.Configuration, store datastore.Store) error {
				svc := initsvc.NewInitService(store)
				result := map[string]interface{}{}
				if adminEmail == "" {
					adminEmail = cfg.AdminEmail
				}
				if adminEmail != "" {
					admin, created, err := svc.InitAdminUser(ctx, adminEmail, cfg.AdminName)
					if err != nil {
						return err
					}
					result["admin"] = map[string]interface{}{"id": admin.ID, "email": admin.Email, "created": created}
				}
				sum, err := svc.SeedDemo(ctx, opts)
				if err != nil {
					return err
				}
				result["seeded"] = sum
				return writeOutput(out(cmd), outputFormat.String(), result)
			})
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 5, "Số nhân viên sales")
	cmd.Flags().IntVar(&opts.Days, "days", 90, "Số ngày dữ liệu lùi về quá khứ")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Seed ngẫu nhiên")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Tạo admin với email này (mặc định ADMIN_EMAIL)")
	return cmd
}
