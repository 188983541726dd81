package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iho/billsplit/internal/adapter/http/dto"
	"github.com/iho/billsplit/internal/settlement"
)

const (
	outputText = "text"
	outputJSON = "json"

	messageUnbalanced = "Total payments and total item values do not match!"
	messageNoDebts    = "There are no debts to show."
)

// errUnbalanced makes the process exit with status 1 after the mismatch
// message has been printed.
var errUnbalanced = errors.New("unbalanced sheet")

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errUnbalanced) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "billsplit-cli",
		Short:         "Billsplit CLI tool",
		Long:          `Settle shared bills from a sheet file, or query a running billsplit server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the billsplit API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(settleCmd(), balancesCmd(), sheetCmd())
	return rootCmd
}

func settleCmd() *cobra.Command {
	var file, strategy, output string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Print the transfers that settle a sheet file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSheetFile(file)
			if err != nil {
				return err
			}
			ledger, err := doc.ToLedger()
			if err != nil {
				return fmt.Errorf("invalid sheet %s: %w", file, err)
			}
			s, err := settlement.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			result := settlement.New(settlement.WithStrategy(s)).ComputeSettlement(ledger)
			return printSettlement(cmd.OutOrStdout(), dto.SettlementFromResult("", &result), output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Sheet file (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&strategy, "strategy", settlement.StrategyPairwise.String(), "Settlement strategy (pairwise, largest-first)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func balancesCmd() *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Print every participant's balance in a sheet file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSheetFile(file)
			if err != nil {
				return err
			}
			ledger, err := doc.ToLedger()
			if err != nil {
				return fmt.Errorf("invalid sheet %s: %w", file, err)
			}

			totals := settlement.ComputeTotals(ledger)
			resp := &dto.BalancesResponse{
				Balanced:   settlement.IsBalanced(ledger),
				TotalSpent: dto.Money(totals.Spent),
				TotalPaid:  dto.Money(totals.Paid),
			}
			for _, b := range settlement.ComputeAllBalances(ledger) {
				resp.Balances = append(resp.Balances, dto.BalanceFromDomain(b))
			}
			return printBalances(cmd.OutOrStdout(), resp, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Sheet file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func sheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Query sheets on a running server",
	}

	var output string
	cmd.PersistentFlags().StringVarP(&output, "output", "o", outputText, "Output format (text, json)")

	balances := &cobra.Command{
		Use:   "balances <sheet-id>",
		Short: "Print the balances of a stored sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.BalancesResponse
			if _, err := getJSON("/api/v1/sheets/"+url.PathEscape(args[0])+"/balances", &resp); err != nil {
				return err
			}
			return printBalances(cmd.OutOrStdout(), &resp, output)
		},
	}

	var strategy string
	settle := &cobra.Command{
		Use:   "settlement <sheet-id>",
		Short: "Print the settlement plan of a stored sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/sheets/" + url.PathEscape(args[0]) + "/settlement"
			if strategy != "" {
				path += "?strategy=" + url.QueryEscape(strategy)
			}

			var resp dto.SettlementResponse
			status, err := getJSON(path, &resp, http.StatusConflict)
			if err != nil {
				return err
			}
			if status == http.StatusConflict {
				resp.Status = settlement.StatusUnbalanced.String()
			}
			return printSettlement(cmd.OutOrStdout(), &resp, output)
		},
	}
	settle.Flags().StringVar(&strategy, "strategy", "", "Settlement strategy override")

	cmd.AddCommand(balances, settle)
	return cmd
}

// loadSheetFile reads a YAML or JSON sheet document, chosen by extension.
func loadSheetFile(path string) (*dto.SheetDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet file: %w", err)
	}

	var doc dto.SheetDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported sheet file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse sheet file %s: %w", path, err)
	}
	return &doc, nil
}

// getJSON fetches path from the server and decodes the body into dst.
// Status codes other than 200 fail unless listed in accept.
func getJSON(path string, dst any, accept ...int) (int, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	ok := resp.StatusCode == http.StatusOK
	for _, code := range accept {
		ok = ok || resp.StatusCode == code
	}
	if !ok {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return resp.StatusCode, fmt.Errorf("request failed (status %d): %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return resp.StatusCode, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

func printSettlement(w io.Writer, resp *dto.SettlementResponse, output string) error {
	unbalanced := resp.Status == settlement.StatusUnbalanced.String()

	switch output {
	case outputJSON:
		if err := printJSON(w, resp); err != nil {
			return err
		}
	case outputText:
		switch {
		case unbalanced:
			fmt.Fprintln(w, messageUnbalanced)
		case len(resp.Transfers) == 0:
			fmt.Fprintln(w, messageNoDebts)
		default:
			for _, t := range resp.Transfers {
				fmt.Fprintf(w, "%s owes %s: $%s\n", t.From, t.To, t.Amount)
			}
		}
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	if unbalanced {
		return errUnbalanced
	}
	return nil
}

func printBalances(w io.Writer, resp *dto.BalancesResponse, output string) error {
	switch output {
	case outputJSON:
		return printJSON(w, resp)
	case outputText:
		width := 0
		for _, b := range resp.Balances {
			width = max(width, len(b.Name))
		}
		for _, b := range resp.Balances {
			label := "Owed"
			if b.Status == dto.BalanceOwes {
				label = "Owes"
			}
			fmt.Fprintf(w, "%-*s  %s: $%s\n", width, b.Name, label, b.Amount)
		}
		if !resp.Balanced {
			fmt.Fprintln(w, messageUnbalanced)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
