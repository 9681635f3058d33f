package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/wapi/internal/app"
	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

var callBody string

var callCmd = &cobra.Command{
	Use:   "call <operation|alias> [key=value ...]",
	Short: "Execute one vendor operation and print the JSON response",
	Long: `Execute one vendor operation through the same pipeline the proxy uses.

Parameters are given as key=value pairs. Values that parse as JSON
(numbers, booleans, arrays, objects) are sent as such, anything else as
a string. --body sets the whole parameter object at once.

Examples:
  wapi call status
  wapi call send phone=5511999990000 message="hello there"
  wapi call group.create name=team 'participants=["5511999990000"]'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, ok := wapi.LookupOperation(args[0])
		if !ok {
			return fmt.Errorf("%w: %q (see `wapi ops`)", wapi.ErrUnknownOperation, args[0])
		}
		params, err := parseParams(callBody, args[1:])
		if err != nil {
			return err
		}

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		client, err := app.NewClient(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		resp, err := client.Call(cmd.Context(), op.Name, params)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callBody, "body", "", "JSON object used as parameters")
}

// parseParams merges a JSON object body with key=value pairs. Pairs win.
func parseParams(body string, pairs []string) (map[string]any, error) {
	params := map[string]any{}
	if strings.TrimSpace(body) != "" {
		if err := json.Unmarshal([]byte(body), &params); err != nil {
			return nil, fmt.Errorf("--body must be a JSON object: %w", err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[key] = parseValue(value)
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		// phone numbers are digit runs, not quantities
		if _, isNumber := v.(float64); isNumber && len(raw) >= 8 && isDigits(raw) {
			return raw
		}
		return v
	}
	return raw
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
