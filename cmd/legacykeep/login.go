package main

import (
	"errors"
	"fmt"

	authAPI "github.com/legacykeep/legacykeep-client/internal/auth/api"
	authService "github.com/legacykeep/legacykeep-client/internal/auth/service"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with an email or username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow := authService.NewLoginFlow(a.gw, a.sessions)
			defer flow.Close()

			screen := authAPI.NewLoginScreen(flow, a.sessions, cmd.InOrStdin(), cmd.OutOrStdout())
			_, err := screen.Run(cmd.Context())
			return err
		},
	}
}

func newResetPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password with a one-time code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow := authService.NewPasswordResetFlow(a.gw, a.cfg.ResendCooldown, nil)
			defer flow.Close()

			err := authAPI.NewResetScreen(flow, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
			if errors.Is(err, authAPI.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Password reset cancelled.")
				return nil
			}
			return err
		},
	}
}
