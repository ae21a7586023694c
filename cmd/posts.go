package cmd

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yujin9907/cloud-naitive/internal/database"
	"github.com/yujin9907/cloud-naitive/internal/models"
	"github.com/yujin9907/cloud-naitive/internal/repository"
)

const contentPreviewRunes = 60

func newPostsCommand() *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect stored posts",
	}

	var keyword string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadCommandDeps()
			if err != nil {
				return err
			}

			db, err := database.New(cmd.Context(), cfg.Database, log)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() { _ = db.Close() }()

			repo := repository.NewPostRepository(db.DB, log, cfg.Search.MatchCase())
			posts, err := repo.List(cmd.Context(), repository.ListFilter{Keyword: keyword})
			if err != nil {
				return err
			}

			RenderPosts(cmd.OutOrStdout(), posts)
			return nil
		},
	}
	listCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "only posts whose title or content contains this text")

	postsCmd.AddCommand(listCmd)
	return postsCmd
}

// RenderPosts writes posts as a table to w.
func RenderPosts(w io.Writer, posts []models.Post) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Content"})

	for _, post := range posts {
		t.AppendRow(table.Row{post.ID, post.Title, preview(post.Content)})
	}

	t.AppendFooter(table.Row{"", "Total", len(posts)})
	t.Render()
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= contentPreviewRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:contentPreviewRunes-1]) + "…"
}
