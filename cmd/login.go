package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cesi-vents/vents/pkg/validation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd creates a new cobra.Command for logging into CESI Vents.
// It returns a pointer to the created cobra.Command.
func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to CESI Vents",
		Long:  "Login to CESI Vents using your email and password",
		Run: func(cmd *cobra.Command, args []string) {
			if email == "" {
				email = promptForInput("Email: ")
			}
			password := promptForPassword("Password: ")

			if err := validation.ValidateLogin(email, password); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			a, err := newApp()
			if err != nil {
				cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
				return
			}

			if err := a.controller.Login(cmd.Context(), email, password); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			state := a.controller.Current()
			if state.Profile != nil {
				cacheProfile(cmd.Context(), a, state.Profile)
				cmd.Printf("Login was successful. Welcome back, %s!\n", state.Profile.FirstName)
			} else {
				cmd.Println("Login was successful.")
			}
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address of the account")

	return cmd
}

// promptForInput prompts the user for input and returns the trimmed string.
// It takes a prompt string as an argument.
func promptForInput(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(prompt)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println("Error: Failed to read input.")
		os.Exit(1)
	}
	return strings.TrimSpace(input)
}

// promptForPassword prompts the user for a password securely and returns the trimmed string.
// It takes a prompt string as an argument.
func promptForPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Println("Error: Failed to read password.")
		os.Exit(1)
	}
	fmt.Println() // Print a newline for better formatting
	return strings.TrimSpace(string(password))
}
