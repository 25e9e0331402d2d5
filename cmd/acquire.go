// Copyright 2026 the AP2 authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/szijpeter/AP2/internal/acquire"
	"github.com/szijpeter/AP2/internal/consent"
	"github.com/szijpeter/AP2/internal/dcapi"
	"github.com/szijpeter/AP2/internal/issuer"
	"github.com/szijpeter/AP2/internal/wallet"
)

func init() {
	rootCmd.AddCommand(acquireCmd())
}

func acquireCmd() *cobra.Command {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "acquire [envelope-file]",
		Short: "Run the holder-side acquisition for a request envelope",
		Long: `Run a presentation request through the holder-side engine: seed the
demo wallet if configured, match the DCQL query, ask for consent in the
terminal, and print the response envelope. Reads the envelope from the
given file, or stdin when the argument is "-" or absent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			envelope, err := readEnvelope(args)
			if err != nil {
				return err
			}

			issuerKey, err := issuer.GenerateKey()
			if err != nil {
				return fmt.Errorf("generating issuer key: %w", err)
			}
			holderKey, err := issuer.GenerateKey()
			if err != nil {
				return fmt.Errorf("generating holder key: %w", err)
			}

			orch := acquire.New(
				wallet.NewStore(),
				issuer.NewMdocIssuer("Demo Bank", issuerKey),
				holderKey,
				acquire.WithDemoSeeding(cfg.UseMockedCredentials),
			)
			go answerPrompts(orch.Gate(), autoApprove)

			selector := &dcapi.Selector{
				Native:       dcapi.ProviderFunc(nativeUnavailable),
				Local:        dcapi.ProviderFunc(orch.Acquire),
				PreferNative: cfg.UseNativeManager,
			}

			resp, err := selector.GetDigitalCredential(cmd.Context(), envelope)
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "Approve the consent prompt without asking")
	return cmd
}

// nativeUnavailable stands in for the platform credential manager, which
// has no desktop implementation. The selector falls through to the local
// engine.
func nativeUnavailable(context.Context, string) (string, error) {
	return "", dcapi.ErrNativeUnavailable
}

func readEnvelope(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading envelope: %w", err)
	}
	return string(raw), nil
}

// answerPrompts renders consent prompts on the terminal and feeds the
// answer back into the gate.
func answerPrompts(gate *consent.Gate, autoApprove bool) {
	prompts := gate.Subscribe()
	reader := bufio.NewReader(os.Stdin)

	for prompt := range prompts {
		bold := color.New(color.Bold)
		bold.Fprintf(os.Stderr, "\nPayment confirmation\n")
		fmt.Fprintf(os.Stderr, "  Merchant: %s\n", prompt.Merchant)
		fmt.Fprintf(os.Stderr, "  Amount:   %s %s\n", prompt.Currency, prompt.Amount)
		if prompt.Credential.Name != "" {
			fmt.Fprintf(os.Stderr, "  Card:     %s", prompt.Credential.Name)
			if prompt.Credential.Last4 != "" {
				fmt.Fprintf(os.Stderr, " ••••%s", prompt.Credential.Last4)
			}
			fmt.Fprintln(os.Stderr)
		}

		if autoApprove {
			color.New(color.FgGreen).Fprintln(os.Stderr, "Auto-approved")
			gate.Resolve(true)
			continue
		}

		fmt.Fprint(os.Stderr, "Approve? [y/N]: ")
		line, err := reader.ReadString('\n')
		answer := err == nil && strings.EqualFold(strings.TrimSpace(line), "y")
		if answer {
			color.New(color.FgGreen).Fprintln(os.Stderr, "Approved")
		} else {
			color.New(color.FgRed).Fprintln(os.Stderr, "Declined")
		}
		gate.Resolve(answer)
	}
}
