package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"users-function/pkg/lambda"

	"github.com/spf13/cobra"
)

var eventFile string

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invoke the function once and print its response",
	Long: `Invoke the function with an event and print the Lambda response.
The event is read from --event ("-" for stdin) and defaults to {}`,
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().StringVarP(&eventFile, "event", "e", "", "event file, or - for stdin")
}

func runInvoke(cmd *cobra.Command, args []string) error {
	event, err := readEvent(cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := context.Background()
	resp := container.UserHandler.Handle(ctx, lambda.NewRequest(ctx, event))

	out, err := json.MarshalIndent(resp.ToAPIGateway(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func readEvent(stdin io.Reader) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)

	switch eventFile {
	case "":
		return json.RawMessage(`{}`), nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(eventFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("event is not valid JSON")
	}
	return json.RawMessage(data), nil
}
