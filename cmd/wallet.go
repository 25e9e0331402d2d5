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
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/szijpeter/AP2/internal/issuer"
	"github.com/szijpeter/AP2/internal/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect the demo holder wallet",
	Long:  "Seed and inspect the in-memory demo wallet. Credentials live for the process lifetime only.",
}

func init() {
	walletCmd.AddCommand(walletSeedCmd())
	walletCmd.AddCommand(walletListCmd())
	rootCmd.AddCommand(walletCmd)
}

// seedDemoStore creates a fresh store and seeds the demo payment
// credential into it.
func seedDemoStore() (*wallet.Store, bool, error) {
	issuerKey, err := issuer.GenerateKey()
	if err != nil {
		return nil, false, fmt.Errorf("generating issuer key: %w", err)
	}
	holderKey, err := issuer.GenerateKey()
	if err != nil {
		return nil, false, fmt.Errorf("generating holder key: %w", err)
	}

	store := wallet.NewStore()
	added, err := store.SeedIfNeeded(issuer.NewMdocIssuer("Demo Bank", issuerKey), &holderKey.PublicKey)
	if err != nil {
		return nil, false, fmt.Errorf("seeding: %w", err)
	}
	return store, added, nil
}

func walletSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the demo payment credential and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, added, err := seedDemoStore()
			if err != nil {
				return err
			}
			cred, ok := store.FirstCredential()
			if !ok {
				return fmt.Errorf("store empty after seeding")
			}

			if jsonOutput {
				raw, err := json.MarshalIndent(map[string]any{
					"added":      added,
					"credential": cred,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(raw))
				return nil
			}

			fmt.Printf("Seeded credential %s (%s) issued by %s, expires %s\n",
				cred.ID, cred.SchemeID, cred.IssuerName, cred.Expiry.Format("2006-01-02"))
			return nil
		},
	}
}

func walletListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Seed the demo credential and list wallet contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := seedDemoStore()
			if err != nil {
				return err
			}

			creds := store.GetCredentials()
			if jsonOutput {
				raw, err := json.MarshalIndent(creds, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(raw))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCHEME\tDOCTYPE\tISSUER\tEXPIRES")
			for _, c := range creds {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.SchemeID, c.DocType, c.IssuerName, c.Expiry.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}
