package grammars

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/codetongue/codetongue/pkg/grammar"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	grammarDir string
}

func NewGrammarsCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "grammars",
		Short: "list the language ids with a registered grammar",
	}

	cmd.Flags().StringVar(&me.grammarDir, "grammar-dir", "", "directory of additional grammar files")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	registry, err := grammar.NewRegistry(ctx)
	if err != nil {
		return errors.Errorf("creating grammar registry: %w", err)
	}

	if me.grammarDir != "" {
		if err := registry.LoadDirectory(ctx, afero.NewOsFs(), me.grammarDir); err != nil {
			return errors.Errorf("loading grammar directory: %w", err)
		}
	}

	// Parse everything up front so broken rule files surface here rather
	// than on the first query.
	if err := registry.Preload(ctx); err != nil {
		return errors.Errorf("validating grammars: %w", err)
	}

	langs := registry.Languages()
	zerolog.Ctx(ctx).Debug().Int("count", len(langs)).Msg("listing registered grammars")
	for _, lang := range langs {
		cmd.Println(lang)
	}
	return nil
}
