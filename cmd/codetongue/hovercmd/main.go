package hovercmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/codetongue/codetongue/pkg/config"
	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/grammar"
	"github.com/codetongue/codetongue/pkg/hover"
	"github.com/codetongue/codetongue/pkg/position"
	"github.com/codetongue/codetongue/pkg/translate"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	file       string
	language   string
	line       int
	character  int
	cfgFile    string
	phraseFile string
}

// NewHoverCommand renders the markdown a hover for the position would show,
// translating through an optional phrase file (a JSON object of
// text-to-translation pairs) in place of a live translation service.
func NewHoverCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "hover",
		Short: "render the translation hover for a position in a source file",
	}

	cmd.Flags().StringVar(&me.file, "file", "", "source file to read")
	cmd.Flags().StringVar(&me.language, "language", "", "language id (default: derived from the file extension)")
	cmd.Flags().IntVar(&me.line, "line", 0, "zero-based line of the query position")
	cmd.Flags().IntVar(&me.character, "character", 0, "zero-based character column of the query position")
	cmd.Flags().StringVar(&me.cfgFile, "config", "", "settings file")
	cmd.Flags().StringVar(&me.phraseFile, "phrases", "", "JSON phrase table used as the translator")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	settings, err := config.Load(me.cfgFile)
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}

	registry, err := grammar.NewRegistry(ctx)
	if err != nil {
		return errors.Errorf("creating grammar registry: %w", err)
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

	translator, err := me.loadTranslator(settings.PreferredLanguage)
	if err != nil {
		return err
	}

	info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: me.line, Character: me.character}, hover.Dependencies{
		Translator: translator,
		Settings:   settings,
	})
	if err != nil {
		return errors.Errorf("building hover: %w", err)
	}
	if info == nil {
		return errors.New("nothing to show at position")
	}

	for _, content := range info.Content {
		cmd.Println(content)
	}
	return nil
}

// loadTranslator reads the phrase file into a static translator for the
// target language. With no phrase file the hover shows the extracted text
// untranslated.
func (me *Handler) loadTranslator(target string) (translate.Translator, error) {
	if me.phraseFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(me.phraseFile)
	if err != nil {
		return nil, errors.Errorf("reading phrase file: %w", err)
	}

	var phrases map[string]string
	if err := json.Unmarshal(data, &phrases); err != nil {
		return nil, errors.Errorf("unmarshaling phrase file: %w", err)
	}

	static := translate.NewStatic()
	for text, translated := range phrases {
		static.Add(target, text, translated)
	}
	return static, nil
}
