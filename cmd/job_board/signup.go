package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE:  runSignup,
}

var (
	signupName     string
	signupEmail    string
	signupPassword string
)

func init() {
	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "Full name (required)")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Account email (required)")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "Account password (required)")

	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(signupCmd)
}

func runSignup(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	if _, err := e.store.Signup(context.Background(), signupEmail, signupPassword, signupName); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	e.printer.PrintSession(e.store.User())
	return nil
}
