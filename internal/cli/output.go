package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/llm-d/mec-offload-game/internal/actuator"
)

// outputFormat picks the encoding: the --format flag if set, else the file
// extension, else YAML.
func (o *rootOptions) outputFormat(path string) (actuator.Format, error) {
	switch f := actuator.Format(strings.ToLower(o.format)); f {
	case actuator.FormatYAML, actuator.FormatJSON:
		return f, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported output format %q", o.format)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return actuator.FormatJSON, nil
	}
	return actuator.FormatYAML, nil
}

// writeOutput runs write against path, or against the command's stdout when
// path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}

// encode writes v in the given format. YAML goes through the JSON tags.
func encode(w io.Writer, v any, format actuator.Format) error {
	var (
		data []byte
		err  error
	)
	if format == actuator.FormatJSON {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
