package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"majordomo/internal/privacy"
)

func newPrivacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privacy",
		Short: "Show or change privacy settings",
	}
	cmd.AddCommand(newPrivacyShowCmd(), newPrivacySetCmd())
	return cmd
}

func openGate() (*privacy.Gate, error) {
	return privacy.NewGate(cfg.Privacy.SettingsPath,
		&privacy.TerminalApprover{In: os.Stdin, Out: os.Stdout}, log)
}

func newPrivacyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current privacy settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := openGate()
			if err != nil {
				return err
			}
			s := gate.Settings()

			fmt.Printf("encrypt_emails:                %t\n", s.EncryptEmails)
			fmt.Printf("encrypt_calendar:              %t\n", s.EncryptCalendar)
			fmt.Printf("encrypt_documents:             %t\n", s.EncryptDocuments)
			fmt.Printf("encrypt_payment:               %t\n", s.EncryptPayment)
			fmt.Printf("data_retention_days:           %d\n", s.DataRetentionDays)
			fmt.Printf("ask_permission_before_sharing: %t\n", s.AskPermissionBeforeSharing)
			return nil
		},
	}
}

func newPrivacySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one privacy setting",
		Long: "Change one privacy setting, e.g.\n" +
			"  domo privacy set data_retention_days 14\n" +
			"  domo privacy set ask_permission_before_sharing false",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := openGate()
			if err != nil {
				return err
			}

			key, raw := args[0], args[1]
			var value any
			if b, err := strconv.ParseBool(raw); err == nil {
				value = b
			} else if n, err := strconv.Atoi(raw); err == nil {
				value = n
			} else {
				value = raw
			}

			if err := gate.Update(map[string]any{key: value}); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", key, raw)
			return nil
		},
	}
}
