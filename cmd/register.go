package cmd

import (
	"github.com/cesi-vents/vents/client"
	"github.com/cesi-vents/vents/pkg/validation"
	"github.com/spf13/cobra"
)

// registerCmd creates a new cobra.Command for creating a CESI Vents account.
func registerCmd() *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a CESI Vents account",
		Run: func(cmd *cobra.Command, args []string) {
			if email == "" {
				email = promptForInput("Email: ")
			}
			if firstName == "" {
				firstName = promptForInput("First name: ")
			}
			if lastName == "" {
				lastName = promptForInput("Last name: ")
			}
			password := promptForPassword("Password: ")

			form := validation.RegisterForm{
				Email:     email,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
			}
			if err := validation.ValidateRegister(form); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			a, err := newApp()
			if err != nil {
				cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
				return
			}

			err = a.controller.Register(cmd.Context(), client.RegisterForm{
				Email:     email,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
			})
			if err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			state := a.controller.Current()
			if state.Profile != nil {
				cacheProfile(cmd.Context(), a, state.Profile)
			}
			cmd.Println("Account created successfully. You are now logged in.")
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address for the new account")
	cmd.Flags().StringVarP(&firstName, "first-name", "f", "", "First name")
	cmd.Flags().StringVarP(&lastName, "last-name", "l", "", "Last name")

	return cmd
}
