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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/szijpeter/AP2/internal/request"
)

func init() {
	rootCmd.AddCommand(requestCmd())
}

func requestCmd() *cobra.Command {
	var (
		merchant string
		total    float64
		items    []string
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Build a payment presentation request envelope",
		Long:  "Build the merchant-side OpenID4VP request envelope for a payment: DCQL query for the payment card scheme, base64url transaction data, and client metadata. Prints the envelope as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			order := request.Order{MerchantName: merchant, Total: total}
			if merchant == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				order.MerchantName = cfg.MerchantName
			}
			for _, spec := range items {
				item, err := parseItem(spec)
				if err != nil {
					return err
				}
				order.Items = append(order.Items, item)
			}

			env, err := request.Build(order)
			if err != nil {
				return fmt.Errorf("building request: %w", err)
			}

			var raw []byte
			if jsonOutput {
				raw, err = json.Marshal(env)
			} else {
				raw, err = json.MarshalIndent(env, "", "  ")
			}
			if err != nil {
				return err
			}
			fmt.Println(string(raw))
			return nil
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "Merchant display name")
	cmd.Flags().Float64Var(&total, "total", 10, "Order total")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Order line as name=price (repeatable)")
	return cmd
}

// parseItem parses a name=price order line.
func parseItem(spec string) (request.Item, error) {
	name, priceStr, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return request.Item{}, fmt.Errorf("invalid item %q, expected name=price", spec)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return request.Item{}, fmt.Errorf("invalid price in %q: %w", spec, err)
	}
	return request.Item{Name: name, UnitPrice: price}, nil
}
