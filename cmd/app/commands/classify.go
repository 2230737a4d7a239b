package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	complianceService "github.com/riskforge/compliance/internal/compliance/service"
)

// RunClassify classifies a JSON payload and prints its sensitivity level and
// category tags. The payload is read from the --payload flag, or from the
// reader (stdin) when the flag is empty.
func RunClassify(
	classifier complianceService.Classifier,
	io IOTuple,
	payloadJSON string,
	format string,
) error {
	if payloadJSON == "" {
		data, err := readAll(io.Reader)
		if err != nil {
			return fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		payloadJSON = data
	}

	if strings.TrimSpace(payloadJSON) == "" {
		return fmt.Errorf("payload is required (use --payload or pipe JSON to stdin)")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return fmt.Errorf("payload must be a JSON object: %w", err)
	}

	classification := classifier.Classify(payload)

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(classification, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
		return nil
	}

	_, _ = fmt.Fprintf(io.Writer, "Level:      %s\n", classification.Level)
	if len(classification.Categories) > 0 {
		_, _ = fmt.Fprintf(io.Writer, "Categories: %s\n", strings.Join(classification.Categories, ", "))
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Categories: none\n")
	}
	_, _ = fmt.Fprintf(io.Writer, "Personal:   %t\n", classification.PersonalData)
	_, _ = fmt.Fprintf(io.Writer, "Financial:  %t\n", classification.FinancialData)
	_, _ = fmt.Fprintf(io.Writer, "Health:     %t\n", classification.HealthData)

	return nil
}

// readAll drains the reader into a string.
func readAll(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
