// owner.go - The create-owner command

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateOwnerCmd registers a store owner. Owners cannot be created over HTTP.
func CreateOwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-owner",
		Short: "Register a store owner account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			in := a.ownerInput()
			flags := cmd.Flags()
			for name, dst := range map[string]*string{
				"email":      &in.Email,
				"password":   &in.Password,
				"first-name": &in.FirstName,
				"last-name":  &in.LastName,
			} {
				if flags.Changed(name) {
					v, err := flags.GetString(name)
					if err != nil {
						return fmt.Errorf("failed to get %s flag: %w", name, err)
					}
					*dst = v
				}
			}
			in.ConfirmPassword = in.Password

			u, err := a.users.CreateOwner(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store owner %s created\n", u.Email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "owner email (default $OWNER_EMAIL)")
	cmd.Flags().String("password", "", "owner password (default $OWNER_PASSWORD)")
	cmd.Flags().String("first-name", "", "owner first name (default $OWNER_FIRST_NAME)")
	cmd.Flags().String("last-name", "", "owner last name (default $OWNER_LAST_NAME)")
	return cmd
}
