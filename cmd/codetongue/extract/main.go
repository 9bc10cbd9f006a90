package extract

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/codetongue/codetongue/pkg/comment"
	"github.com/codetongue/codetongue/pkg/config"
	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/grammar"
	"github.com/codetongue/codetongue/pkg/position"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	file       string
	language   string
	line       int
	character  int
	cfgFile    string
	grammarDir string
	noMerge    bool
}

func NewExtractCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "extract the comment at a position in a source file",
	}

	cmd.Flags().StringVar(&me.file, "file", "", "source file to read")
	cmd.Flags().StringVar(&me.language, "language", "", "language id (default: derived from the file extension)")
	cmd.Flags().IntVar(&me.line, "line", 0, "zero-based line of the query position")
	cmd.Flags().IntVar(&me.character, "character", 0, "zero-based character column of the query position")
	cmd.Flags().StringVar(&me.cfgFile, "config", "", "settings file")
	cmd.Flags().StringVar(&me.grammarDir, "grammar-dir", "", "directory of additional grammar files")
	cmd.Flags().BoolVar(&me.noMerge, "no-merge", false, "disable merging of adjacent line comments")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

// result is the JSON shape printed for a matched comment.
type result struct {
	Range         string `json:"range"`
	Text          string `json:"text"`
	RawText       string `json:"rawText"`
	IsLineComment bool   `json:"isLineComment"`
	Humanize      bool   `json:"humanize"`
}

func (me *Handler) Run(ctx context.Context) error {
	settings, err := config.Load(me.cfgFile)
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}
	if me.noMerge {
		settings.MultiLineMerge = false
	}

	registry, err := grammar.NewRegistry(ctx)
	if err != nil {
		return errors.Errorf("creating grammar registry: %w", err)
	}
	if me.grammarDir != "" {
		if err := registry.LoadDirectory(ctx, afero.NewOsFs(), me.grammarDir); err != nil {
			return errors.Errorf("loading grammar directory: %w", err)
		}
	}

	content, err := os.ReadFile(me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}

	language := me.language
	if language == "" {
		language = grammar.LanguageForPath(me.file)
	}

	docs := document.NewManager(registry)
	doc, err := docs.Open(ctx, me.file, language, 0, string(content))
	if err != nil {
		return errors.Errorf("opening document: %w", err)
	}
	if !doc.HasGrammar() {
		return errors.Errorf("no grammar registered for language %q", language)
	}

	block := comment.Resolve(doc, position.Place{Line: me.line, Character: me.character}, settings.MergeOptions())
	if block == nil {
		return errors.New("no comment at position")
	}

	text := block.Text
	if block.Humanize {
		text = comment.Humanize(text)
	}

	out, err := json.MarshalIndent(result{
		Range:         block.Range.String(),
		Text:          text,
		RawText:       block.RawText,
		IsLineComment: block.IsLineComment,
		Humanize:      block.Humanize,
	}, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling result: %w", err)
	}

	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		return errors.Errorf("writing result: %w", err)
	}
	return nil
}
