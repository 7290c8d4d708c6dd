package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/qaboard/internal/qa"
)

const recentLimit = 10

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Questions qa.QuestionStore
	Answers   qa.AnswerStore
	Version   string
}

// NewMCPServer creates an MCP server with all qaboard tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		"qaboard",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("qaboard is a question and answer board. List and read questions, ask new ones and post answers."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("list_questions",
			mcp.WithDescription("List every question on the board, newest first."),
		),
		mcpListQuestions(deps),
	)

	s.AddTool(
		mcp.NewTool("get_question",
			mcp.WithDescription("Fetch one question together with all of its answers."),
			mcp.WithNumber("id", mcp.Description("Question id"), mcp.Required()),
		),
		mcpGetQuestion(deps),
	)

	s.AddTool(
		mcp.NewTool("ask_question",
			mcp.WithDescription("Post a new question."),
			mcp.WithString("title", mcp.Description("Short title of the question"), mcp.Required()),
			mcp.WithString("description", mcp.Description("Full text of the question"), mcp.Required()),
		),
		mcpAskQuestion(deps),
	)

	s.AddTool(
		mcp.NewTool("answer_question",
			mcp.WithDescription("Post an answer to an existing question."),
			mcp.WithNumber("question_id", mcp.Description("Id of the question being answered"), mcp.Required()),
			mcp.WithString("body", mcp.Description("Text of the answer"), mcp.Required()),
		),
		mcpAnswerQuestion(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"qaboard://questions/recent",
			"Recent Questions",
			mcp.WithResourceDescription(fmt.Sprintf("Last %d questions (descriptions truncated)", recentLimit)),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpListQuestions(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := deps.Questions.ListQuestions(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list questions: %v", err)), nil
		}
		return mcpJSON(list)
	}
}

func mcpGetQuestion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(req, "id")
		if !ok {
			return mcpError("id is required and must be a positive integer"), nil
		}

		q, err := deps.Questions.GetQuestion(ctx, id)
		if errors.Is(err, qa.ErrNotFound) {
			return mcpError(fmt.Sprintf("question %d not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get question: %v", err)), nil
		}

		answers, err := deps.Answers.ListAnswersForQuestion(ctx, q.ID)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list answers: %v", err)), nil
		}

		return mcpJSON(QuestionDetail{Question: q, Answers: answers})
	}
}

func mcpAskQuestion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		description, err := req.RequireString("description")
		if err != nil {
			return mcpError("description is required"), nil
		}

		q, err := deps.Questions.CreateQuestion(ctx, title, description)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to ask question: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Created question %d", q.ID)), nil
	}
}

func mcpAnswerQuestion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(req, "question_id")
		if !ok {
			return mcpError("question_id is required and must be a positive integer"), nil
		}
		body, err := req.RequireString("body")
		if err != nil {
			return mcpError("body is required"), nil
		}

		if _, err := deps.Questions.GetQuestion(ctx, id); err != nil {
			if errors.Is(err, qa.ErrNotFound) {
				return mcpError(fmt.Sprintf("question %d not found", id)), nil
			}
			return mcpError(fmt.Sprintf("failed to get question: %v", err)), nil
		}

		a, err := deps.Answers.CreateAnswer(ctx, body, id)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to answer question: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Created answer %d for question %d", a.ID, a.QuestionID)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := deps.Questions.ListQuestions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		if len(list) > recentLimit {
			list = list[:recentLimit]
		}

		type questionSummary struct {
			ID          int64  `json:"id"`
			Title       string `json:"title"`
			Description string `json:"description"`
			CreatedAt   string `json:"created_at"`
		}

		summaries := make([]questionSummary, len(list))
		for i, q := range list {
			desc := q.Description
			if utf8.RuneCountInString(desc) > 200 {
				runes := []rune(desc)
				desc = string(runes[:200]) + "..."
			}
			summaries[i] = questionSummary{
				ID:          q.ID,
				Title:       q.Title,
				Description: desc,
				CreatedAt:   q.CreatedAt.Format(time.RFC3339),
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal questions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// requireID reads a positive whole-number id argument. JSON numbers arrive as
// float64, so fractional values are rejected rather than truncated.
func requireID(req mcp.CallToolRequest, key string) (int64, bool) {
	f, err := req.RequireFloat(key)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
