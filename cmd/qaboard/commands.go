package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/qaboard/internal/api"
	"github.com/kalambet/qaboard/internal/command"
	"github.com/kalambet/qaboard/internal/config"
	"github.com/kalambet/qaboard/internal/qa"
)

// --- questions ---

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List, show and ask questions on a running server",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/questions")
		if err != nil {
			return err
		}

		var list []qa.Question
		if err := decodeJSON(resp, &list); err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Fprintln(stdout, "No questions yet.")
			return nil
		}

		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tASKED\tTITLE")
		for _, q := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", q.ID, formatTime(q.CreatedAt), truncate(q.Title, 60))
		}
		return tw.Flush()
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a question and its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := command.ParseID(args[0])
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/questions/%d", id))
		if err != nil {
			return err
		}

		var detail api.QuestionDetail
		if err := decodeJSON(resp, &detail); err != nil {
			return err
		}

		q := detail.Question
		fmt.Fprintf(stdout, "%s %s\n", colorize(colorBold, fmt.Sprintf("#%d", q.ID)), colorize(colorBold, q.Title))
		fmt.Fprintf(stdout, "  asked %s\n\n", formatTime(q.CreatedAt))
		fmt.Fprintf(stdout, "%s\n", q.Description)

		fmt.Fprintf(stdout, "\n%s\n", colorize(colorBold, fmt.Sprintf("Answers (%d)", len(detail.Answers))))
		if len(detail.Answers) == 0 {
			fmt.Fprintln(stdout, "  No answers yet.")
		}
		for _, a := range detail.Answers {
			fmt.Fprintf(stdout, "\n  [%d] %s\n", a.ID, formatTime(a.CreatedAt))
			fmt.Fprintf(stdout, "  %s\n", a.Body)
		}
		return nil
	},
}

var questionsAskCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a new question",
	Long: `Ask a new question.

Example:
  qaboard questions ask --title "Why Go?" --description "What makes Go a good fit for web services?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")

		ask := command.AskQuestion{Title: title, Description: description}
		if err := command.Validate(ask); err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/questions", ask)
		if err != nil {
			return err
		}

		var q qa.Question
		if err := decodeJSON(resp, &q); err != nil {
			return err
		}

		printSuccess("Created question %d", q.ID)
		return nil
	},
}

func init() {
	questionsAskCmd.Flags().String("title", "", "question title")
	questionsAskCmd.Flags().String("description", "", "question description")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsShowCmd)
	questionsCmd.AddCommand(questionsAskCmd)
}

// --- answer ---

var answerCmd = &cobra.Command{
	Use:   "answer <questionId>",
	Short: "Answer a question",
	Long: `Answer a question.

Example:
  qaboard answer 1 --body "Goroutines and a strong standard library."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := command.ParseID(args[0])
		if err != nil {
			return err
		}
		body, _ := cmd.Flags().GetString("body")

		ans := command.AnswerQuestion{Body: body, QuestionID: id}
		if err := command.Validate(ans); err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/answers", ans)
		if err != nil {
			return err
		}

		var a qa.Answer
		if err := decodeJSON(resp, &a); err != nil {
			return err
		}

		printSuccess("Created answer %d for question %d", a.ID, a.QuestionID)
		return nil
	},
}

func init() {
	answerCmd.Flags().String("body", "", "answer text")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(stdout, "  %s = %s  (%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		}
		printStatus("Config file", "%s", config.ConfigFilePath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value in the config file.\n\nValid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}

		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
