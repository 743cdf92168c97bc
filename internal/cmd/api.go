package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAPICmd() *cobra.Command {
	var (
		method    string
		fields    []string
		inputFile string
		jsonBody  string
	)

	cmd := &cobra.Command{
		Use:   "api <endpoint>",
		Short: "Make raw requests to any Superset API endpoint",
		Long: strings.TrimSpace(`
Make raw requests to any Superset API endpoint.

The endpoint path is relative to the versioned API base path, so "dashboard/42"
becomes "/api/v1/dashboard/42". GET query parameters are passed as -f key=value
pairs; for other methods -f pairs form the JSON body.
`),
		Example: strings.TrimSpace(`
  # GET request (default)
  superset api dashboard/42

  # GET with query parameters
  superset api dashboard -f page_size=5

  # POST with an inline JSON body
  superset api chart -X POST -d '{"slice_name": "New chart"}'

  # PUT with a body read from a file
  superset api dashboard/42 -X PUT -i body.json

  # Body from stdin
  echo '{"published": true}' | superset api dashboard/42 -X PUT -i -

  # Filter the response
  superset api dashboard --jq '.result[].dashboard_title'
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := args[0]

			method = strings.ToUpper(method)
			switch method {
			case "GET", "POST", "PUT", "PATCH", "DELETE":
			default:
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, PATCH, DELETE", method)
			}

			if jsonBody != "" && inputFile != "" {
				return fmt.Errorf("cannot use both --body and --input")
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var response map[string]any
			switch method {
			case "GET":
				query, err := buildQueryValues(fields)
				if err != nil {
					return err
				}
				response, err = client.Get(ctx, endpoint, query)
				if err != nil {
					return err
				}
			case "DELETE":
				response, err = client.Delete(ctx, endpoint)
				if err != nil {
					return err
				}
			default:
				body, err := buildRequestBody(fields, inputFile, jsonBody)
				if err != nil {
					return err
				}
				switch method {
				case "POST":
					response, err = client.Post(ctx, endpoint, body)
				case "PUT":
					response, err = client.Put(ctx, endpoint, body)
				case "PATCH":
					response, err = client.Patch(ctx, endpoint, body)
				}
				if err != nil {
					return err
				}
			}

			return printJSON(cmd, response)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method: GET|POST|PUT|PATCH|DELETE")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "key=value pair: query parameter for GET, body field otherwise (repeatable)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read the JSON body from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&jsonBody, "body", "d", "", "Inline JSON body")

	return cmd
}

func buildQueryValues(fields []string) (url.Values, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	values := url.Values{}
	for _, field := range fields {
		key, value, err := splitField(field)
		if err != nil {
			return nil, err
		}
		values.Add(key, value)
	}
	return values, nil
}

// buildRequestBody assembles the JSON body from -f pairs, --input, or --body.
// Field values that parse as JSON keep their type; everything else stays a
// string.
func buildRequestBody(fields []string, inputFile, jsonBody string) (map[string]any, error) {
	if jsonBody != "" {
		return decodeBody([]byte(jsonBody), "--body")
	}
	if inputFile != "" {
		var data []byte
		var err error
		if inputFile == "-" {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read body from stdin: %w", err)
			}
		} else {
			data, err = os.ReadFile(inputFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read --input %q: %w", inputFile, err)
			}
		}
		return decodeBody(data, "--input")
	}

	if len(fields) == 0 {
		return nil, nil
	}
	body := make(map[string]any, len(fields))
	for _, field := range fields {
		key, value, err := splitField(field)
		if err != nil {
			return nil, err
		}
		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			body[key] = typed
		} else {
			body[key] = value
		}
	}
	return body, nil
}

func decodeBody(data []byte, source string) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%s must be a JSON object: %w", source, err)
	}
	return body, nil
}

func splitField(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid field %q: expected key=value", field)
	}
	return key, value, nil
}
