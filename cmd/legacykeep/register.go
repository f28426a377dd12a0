package main

import (
	"errors"
	"fmt"

	regAPI "github.com/legacykeep/legacykeep-client/internal/registration/api"
	regService "github.com/legacykeep/legacykeep-client/internal/registration/service"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a LegacyKeep account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := regService.NewController(a.gw, regService.Options{
				UsernameDebounce: a.cfg.UsernameDebounce,
				ResendCooldown:   a.cfg.ResendCooldown,
				Sessions:         a.sessions,
			})
			defer ctrl.Close()

			wizard := regAPI.NewWizard(ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
			err := wizard.Run(cmd.Context())
			if errors.Is(err, regAPI.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			if session, err := a.sessions.Current(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", session.UserID)
			}
			return nil
		},
	}
}
