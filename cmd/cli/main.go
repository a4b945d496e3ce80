package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pep299/lessonfeed/internal/application"
	"github.com/pep299/lessonfeed/internal/model"
	"github.com/pep299/lessonfeed/internal/service"
)

var (
	flagCategory string
	flagLevel    string
	flagSource   string
	flagSummary  string
	flagIndex    int
)

var rootCmd = &cobra.Command{
	Use:           "lessonfeed",
	Short:         "Fetch news and generate English lessons from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print today's articles for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *application.Application) error {
			payload, _, err := app.News.Fetch(cmd.Context(), flagCategory)
			if err != nil {
				return err
			}
			return printJSON(payload)
		})
	},
}

var lessonCmd = &cobra.Command{
	Use:   "lesson [title]",
	Short: "Generate a lesson for an article",
	Long: "Generate a lesson for the article given by title, or, with no title, " +
		"for the --index'th article of today's --category news.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *application.Application) error {
			ctx := cmd.Context()

			article := model.ArticleInput{Source: flagSource, Summary: flagSummary}
			if len(args) == 1 {
				article.Title = args[0]
			} else {
				picked, err := pickArticle(ctx, app, flagCategory, flagIndex)
				if err != nil {
					return err
				}
				article = picked
			}

			payload, _, err := app.Lesson.Generate(ctx, service.LessonRequest{
				Article: article,
				Level:   model.ParseLevel(flagLevel),
			})
			if err != nil {
				return err
			}
			return printJSON(payload)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCategory, "category", "world", "news category (world, business, tech, sports)")

	lessonCmd.Flags().StringVar(&flagLevel, "level", "intermediate", "lesson level (beginner, intermediate, advanced)")
	lessonCmd.Flags().StringVar(&flagSource, "source", "", "article source when a title is given")
	lessonCmd.Flags().StringVar(&flagSummary, "summary", "", "article summary when a title is given")
	lessonCmd.Flags().IntVar(&flagIndex, "index", 0, "article index in today's news when no title is given")

	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(lessonCmd)
}

func withApp(run func(app *application.Application) error) error {
	app, err := application.New()
	if err != nil {
		return err
	}
	defer app.Close()
	return run(app)
}

func pickArticle(ctx context.Context, app *application.Application, category string, index int) (model.ArticleInput, error) {
	payload, _, err := app.News.Fetch(ctx, category)
	if err != nil {
		return model.ArticleInput{}, err
	}

	var articles []model.ArticleInput
	if err := json.Unmarshal(payload, &articles); err != nil {
		return model.ArticleInput{}, fmt.Errorf("decoding articles: %w", err)
	}
	if index < 0 || index >= len(articles) {
		return model.ArticleInput{}, fmt.Errorf("no article at index %d (have %d)", index, len(articles))
	}
	return articles[index], nil
}

func printJSON(payload []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, payload, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(os.Stdout)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
