package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alnah/go-mdedit/internal/config"
)

// runStats prints word, character, line and heading counts.
func runStats(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseStatsFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	ed, closeEditor, err := openEditor(ctx, positional, config.DefaultConfig(), env)
	if err != nil {
		return err
	}
	defer closeEditor()

	s := ed.Stats()
	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(env.Stdout, "Words:      %d\n", s.Words)
	fmt.Fprintf(env.Stdout, "Characters: %d\n", s.Characters)
	fmt.Fprintf(env.Stdout, "Lines:      %d\n", s.Lines)
	fmt.Fprintf(env.Stdout, "Headings:   %d\n", s.Headings)
	return nil
}
