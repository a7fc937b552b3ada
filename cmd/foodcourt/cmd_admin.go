package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/internal/kernel"
)

var adminInput services.AdminInput

// foodcourt create-admin: the only way to create the first administrator.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := kernel.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.Close()

		user, err := k.Auth.BootstrapAdmin(cmd.Context(), adminInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅  Administrator %s created (id %d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminInput.Name, "name", "Administrator", "Display name")
	f.StringVar(&adminInput.Email, "email", "", "Login email")
	f.StringVar(&adminInput.Password, "password", "", "Login password (6-72 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
