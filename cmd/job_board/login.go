package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/job-board/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the job board",
	RunE:  runLogin,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (required)")

	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	dest, err := e.store.Login(context.Background(), loginEmail, loginPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	e.printer.PrintSession(e.store.User())
	if dest == session.DestAdminDashboard {
		fmt.Fprintln(cmd.OutOrStdout(), "Admin account: `job_board applicants` is available.")
	}
	return nil
}
