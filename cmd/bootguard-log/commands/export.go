package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bootguard-fw/bootguard-go/pkg/diag"
)

// RunExport exports the diagnostic log to the specified format.
func RunExport(path, format, output string) error {
	reader, err := diag.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open diag log: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl)", format)
	}
}

func exportJSONL(reader *diag.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}
