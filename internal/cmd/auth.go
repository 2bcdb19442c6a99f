package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in (demo account, credentials are not checked)",
	RunE:  login,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a demo account and sign in",
	RunE:  register,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE:  logout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  whoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Email address")
		c.Flags().StringVar(&authPassword, "password", "", "Password")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Full name")
}

func login(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "🔐 Signing in...")
	id, err := a.Session.Login(cmd.Context(), authEmail, authPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Welcome back, %s (%s)\n", id.Name, id.Email)
	return nil
}

func register(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "📝 Creating account...")
	id, err := a.Session.Register(cmd.Context(), authName, authEmail, authPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Welcome, %s (%s)\n", id.Name, id.Email)
	return nil
}

func logout(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "👋 Signed out")
	return nil
}

func whoami(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id, ok := a.Session.Current()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", id.Name, id.Email)
	return nil
}
