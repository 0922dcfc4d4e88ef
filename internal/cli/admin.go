package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

func AdminCmd(open StoreOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard accounts",
	}
	cmd.AddCommand(adminCreateCmd(open), adminPasswdCmd(open))
	return cmd
}

func adminCreateCmd(open StoreOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			return withSessions(cmd, open, func(m *service.SessionManager) error {
				user, err := m.CreateAdmin(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", user.Email)
				return nil
			})
		},
	}
	credentialFlags(cmd)
	return cmd
}

func adminPasswdCmd(open StoreOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Reset an admin password",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			return withSessions(cmd, open, func(m *service.SessionManager) error {
				if err := m.ResetPassword(cmd.Context(), email, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", email)
				return nil
			})
		},
	}
	credentialFlags(cmd)
	return cmd
}

func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "admin email")
	cmd.Flags().String("password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

// withSessions opens the store for fn. Account management never issues
// tokens, so the signing secret is irrelevant here.
func withSessions(cmd *cobra.Command, open StoreOpener, fn func(*service.SessionManager) error) error {
	stores, closeStores, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStores()

	m := service.NewSessionManager(stores.AdminUsers, stores.Sessions, util.NewJWTManager("hensctl"), time.Hour)
	return fn(m)
}
