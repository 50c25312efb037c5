// Command wireschema writes JSON schemas for the spectate protocol messages.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

type message struct {
	file        string
	title       string
	description string
	value       any
}

var messages = []message{
	{"envelope.json", "Spectate Envelope", "Every frame: the event name in e and its payload in data.", new(types.Envelope)},
	{"teamnames.json", "Team Names", "Payload of teamnames: player id to display name.", new(types.TeamNames)},
	{"state.json", "Arena State", "Payload of state: one snapshot of the arena.", new(types.Snapshot)},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the schemas to")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	reflector := jsonschema.Reflector{AllowAdditionalProperties: true}
	for _, m := range messages {
		schema := reflector.Reflect(m.value)
		schema.Title = m.title
		schema.Description = m.description
		if err := writeSchema(filepath.Join(outDir, m.file), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", m.file, err)
			os.Exit(1)
		}
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}
