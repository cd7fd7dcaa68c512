package command

// titles.go browses titles and reviews.

import (
	"fmt"
	"strconv"
	"strings"

	"yamdb/internal/microservices/http-api/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Browse titles",
}

var titlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List titles, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter dto.TitleQuery
		filter.Genre, _ = cmd.Flags().GetString("genre")
		filter.Category, _ = cmd.Flags().GetString("category")
		filter.Name, _ = cmd.Flags().GetString("name")
		filter.Year, _ = cmd.Flags().GetInt("year")
		page, _ := cmd.Flags().GetInt("page")

		result, err := newClient().ListTitles(filter, page)
		if err != nil {
			return err
		}
		for _, t := range result.Results {
			info(cmd, "%s %s (%d) %s %s", color.HiBlackString("#%d", t.ID), color.CyanString(t.Name), t.Year,
				formatRating(t.Rating), formatGenres(t.Genre))
		}
		info(cmd, "page %d/%d, %d titles", result.Page, result.TotalPages, result.Count)
		return nil
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Read and write reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list <title_id>",
	Short: "List reviews of a title, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := parseID(args[0])
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")

		result, err := newClient().ListReviews(titleID, page)
		if err != nil {
			return err
		}
		for _, r := range result.Results {
			info(cmd, "%s %s %s: %s", color.HiBlackString("#%d", r.ID), color.YellowString("%d/10", r.Score),
				color.CyanString(r.Author), r.Text)
		}
		info(cmd, "page %d/%d, %d reviews", result.Page, result.TotalPages, result.Count)
		return nil
	},
}

var reviewsAddCmd = &cobra.Command{
	Use:   "add <title_id>",
	Short: "Review a title as the logged-in user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := parseID(args[0])
		if err != nil {
			return err
		}
		var req dto.CreateReviewDTO
		req.Score, _ = cmd.Flags().GetInt("score")
		req.Text, _ = cmd.Flags().GetString("text")

		review, err := newClient().CreateReview(titleID, &req)
		if err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
		success(cmd, "Review #%d posted", review.ID)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func formatRating(r *float64) string {
	if r == nil {
		return color.HiBlackString("no rating")
	}
	return color.YellowString("★ %.1f", *r)
}

func formatGenres(genres []dto.SlugResponse) string {
	if len(genres) == 0 {
		return ""
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func init() {
	rootCmd.AddCommand(titlesCmd, reviewsCmd)
	titlesCmd.AddCommand(titlesListCmd)
	reviewsCmd.AddCommand(reviewsListCmd, reviewsAddCmd)

	titlesListCmd.Flags().String("genre", "", "Genre slug")
	titlesListCmd.Flags().String("category", "", "Category slug")
	titlesListCmd.Flags().String("name", "", "Name substring")
	titlesListCmd.Flags().Int("year", 0, "Release year")
	titlesListCmd.Flags().Int("page", 1, "Page number")

	reviewsListCmd.Flags().Int("page", 1, "Page number")

	reviewsAddCmd.Flags().IntP("score", "s", 0, "Score from 1 to 10")
	reviewsAddCmd.Flags().StringP("text", "t", "", "Review text")
	reviewsAddCmd.MarkFlagRequired("score")
	reviewsAddCmd.MarkFlagRequired("text")
}
