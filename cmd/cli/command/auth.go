package command

// auth.go handles the signup / confirmation-code / token flow.

import (
	"errors"
	"fmt"
	"time"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"
	"yamdb/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Sign up, exchange the emailed confirmation code for a token and manage the stored token.`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Request a confirmation code by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SignupRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")

		resp, err := client.NewHTTPClient(apiURL).Signup(&req)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		success(cmd, "Confirmation code sent to %s", resp.Email)
		info(cmd, "Run: yamdbctl auth token -u %s -c <code>", resp.Username)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange a confirmation code for an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.TokenRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.ConfirmationCode, _ = cmd.Flags().GetString("code")

		resp, err := client.NewHTTPClient(apiURL).ObtainToken(&req)
		if err != nil {
			return fmt.Errorf("token exchange failed: %w", err)
		}

		printOnly, _ := cmd.Flags().GetBool("print")
		if printOnly {
			info(cmd, "%s", resp.Token)
			return nil
		}
		creds := &authentication.StoredCredentials{Token: resp.Token, Username: req.Username, IssuedAt: time.Now().UTC()}
		if err := authentication.StoreToken(apiURL, creds); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		success(cmd, "Logged in as %s", req.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteToken(apiURL); err != nil {
			return err
		}
		success(cmd, "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile of the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := authentication.GetToken(apiURL); errors.Is(err, authentication.ErrNoCredentials) {
			return errors.New("not logged in, run: yamdbctl auth token")
		}
		me, err := newClient().Me()
		if err != nil {
			return err
		}
		info(cmd, "%s <%s> role=%s", color.CyanString(me.Username), me.Email, me.Role)
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(signupCmd, tokenCmd, logoutCmd, whoamiCmd)

	signupCmd.Flags().StringP("username", "u", "", "Username for the account")
	signupCmd.Flags().StringP("email", "e", "", "Email address the code is sent to")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("email")

	tokenCmd.Flags().StringP("username", "u", "", "Username for the account")
	tokenCmd.Flags().StringP("code", "c", "", "Confirmation code from the email")
	tokenCmd.Flags().Bool("print", false, "Print the token instead of storing it")
	tokenCmd.MarkFlagRequired("username")
	tokenCmd.MarkFlagRequired("code")
}
