package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// Swapped in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "kobowallet-cli",
		Short: "KoboWallet CLI tool",
		Long:  `A command line interface for interacting with the KoboWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the KoboWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("KOBOWALLET_TOKEN"), "Bearer token for authenticated calls")

	rootCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		balanceCmd(),
		depositCmd(),
		depositStatusCmd(),
		transferCmd(),
		transactionsCmd(),
		hashPasswordCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func registerCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user and wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doRequest(http.MethodPost, "/auth/register", map[string]string{
				"email":    email,
				"name":     name,
				"password": password,
			})
			if err != nil {
				return err
			}
			return printResponse(status, http.StatusCreated, body)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doRequest(http.MethodPost, "/auth/login", map[string]string{
				"email":    email,
				"password": password,
			})
			if err != nil {
				return err
			}
			return printResponse(status, http.StatusOK, body)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the wallet balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doRequest(http.MethodGet, "/wallet/balance", nil)
			if err != nil {
				return err
			}
			return printResponse(status, http.StatusOK, body)
		},
	}
}

func depositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Initiate a deposit and print the checkout URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doRequest(http.MethodPost, "/wallet/deposit", map[string]string{
				"amount": args[0],
			})
			if err != nil {
				return err
			}
			return printResponse(status, http.StatusCreated, body)
		},
	}

	return cmd
}

func depositStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit-status <reference>",
		Short: "Show the state of a deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doRequest(http.MethodGet, "/wallet/deposit/"+args[0]+"/status", nil)
			if err != nil {
				return err
			}
			return printResponse(status, http.StatusOK, body)
		},
	}
}

func transferCmd() *cobra.Command {
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "transfer <wallet_number> <amount>",
		Short: "Send funds to another wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := map[string]string{}
			if idempotencyKey != "" {
				headers["Idempotency-Key"] = idempotencyKey
			}

			body, status, err := doRequestWithHeaders(http.MethodPost, "/wallet/transfer", map[string]string{
				"wallet_number": args[0],
				"amount":        args[1],
			}, headers)
			if err != nil {
				return err
			}
			return printResponse(status, http.StatusCreated, body)
		},
	}

	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	return cmd
}

func transactionsCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/wallet/transactions?limit=%d&offset=%d", limit, offset)
			body, status, err := doRequest(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if status != http.StatusOK {
				return fmt.Errorf("request failed (status %d): %s", status, string(body))
			}

			var txns []struct {
				Reference string `json:"reference"`
				Type      string `json:"type"`
				Status    string `json:"status"`
				Amount    string `json:"amount"`
			}
			if err := json.Unmarshal(body, &txns); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("%-24s %-10s %-8s %s\n", "REFERENCE", "TYPE", "STATUS", "AMOUNT")
			for _, txn := range txns {
				fmt.Printf("%-24s %-10s %-8s %s\n", truncate(txn.Reference, 24), txn.Type, txn.Status, txn.Amount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max rows to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hashed))
			return nil
		},
	}
}

func doRequest(method, path string, payload any) ([]byte, int, error) {
	return doRequestWithHeaders(method, path, payload, nil)
}

func doRequestWithHeaders(method, path string, payload any, headers map[string]string) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

func printResponse(status, expected int, body []byte) error {
	if status != expected {
		return fmt.Errorf("request failed (status %d): %s", status, string(body))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(decoded)
	return nil
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(encoded))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
