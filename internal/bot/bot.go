// Package bot implements the chat surface: commands, notes, tasks and
// free-text questions answered from the stored collections.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/services/tasks"
)

// Replies sent to chats
const (
	GreetingReply     = "Hello! I'm your secretary bot. How can I help you today?"
	UnauthorizedReply = "Sorry, you're not authorized to use this bot."
	FailureReply      = "Sorry, I encountered an error processing your request."
	EmptyNoteReply    = "Please provide some text after /note"
	EmptyTaskReply    = "Please provide task details after /task"
)

// Message is an inbound chat message. Command is empty for plain text.
type Message struct {
	ChatID  int64
	Text    string
	Command string
	Args    string
}

// Sender delivers a reply to a chat
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Bot dispatches messages to the matching handler
type Bot struct {
	sender            Sender
	analyzer          interfaces.AnalyzerService
	parser            interfaces.TaskParser
	entries           interfaces.EntryService
	sessions          interfaces.SessionStore
	allowed           map[int64]bool
	defaultCollection string
	logger            arbor.ILogger
}

// Dependencies groups the services a Bot uses
type Dependencies struct {
	Sender   Sender
	Analyzer interfaces.AnalyzerService
	Parser   interfaces.TaskParser
	Entries  interfaces.EntryService
	Sessions interfaces.SessionStore
}

// New creates a bot. An empty allowedChatIDs list lets every chat in.
func New(deps Dependencies, allowedChatIDs []int64, defaultCollection string, logger arbor.ILogger) *Bot {
	allowed := make(map[int64]bool, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		allowed[id] = true
	}
	if defaultCollection == "" {
		defaultCollection = "data"
	}

	return &Bot{
		sender:            deps.Sender,
		analyzer:          deps.Analyzer,
		parser:            deps.Parser,
		entries:           deps.Entries,
		sessions:          deps.Sessions,
		allowed:           allowed,
		defaultCollection: defaultCollection,
		logger:            logger,
	}
}

// Allowed reports whether chatID passes the allow-list
func (b *Bot) Allowed(chatID int64) bool {
	return len(b.allowed) == 0 || b.allowed[chatID]
}

// Handle processes one message. Messages of one chat must not be handled
// concurrently; the poller serializes them per chat.
func (b *Bot) Handle(ctx context.Context, msg Message) {
	if msg.Command == "mychatid" {
		b.logger.Info().Int64("chat_id", msg.ChatID).Msg("Chat ID request")
		b.reply(ctx, msg.ChatID, fmt.Sprintf("Your chat ID is: %d", msg.ChatID))
		return
	}

	if !b.Allowed(msg.ChatID) {
		b.logger.Warn().
			Int64("chat_id", msg.ChatID).
			Str("command", msg.Command).
			Msg("Unauthorized access attempt")
		b.reply(ctx, msg.ChatID, UnauthorizedReply)
		return
	}

	switch msg.Command {
	case "start":
		b.reply(ctx, msg.ChatID, GreetingReply)
	case "note":
		b.handleNote(ctx, msg)
	case "task":
		b.handleTask(ctx, msg)
	case "":
		b.handleQuestion(ctx, msg)
	default:
		b.logger.Debug().
			Int64("chat_id", msg.ChatID).
			Str("command", msg.Command).
			Msg("Ignoring unknown command")
	}
}

func (b *Bot) handleNote(ctx context.Context, msg Message) {
	text := strings.TrimSpace(msg.Args)
	if text == "" {
		b.reply(ctx, msg.ChatID, EmptyNoteReply)
		return
	}

	if _, err := b.entries.SaveNote(ctx, text); err != nil {
		b.fail(ctx, msg.ChatID, "note", err)
		return
	}

	b.logger.Info().Int64("chat_id", msg.ChatID).Str("note", text).Msg("Note saved")
	b.reply(ctx, msg.ChatID, "Note saved: "+text)
}

func (b *Bot) handleTask(ctx context.Context, msg Message) {
	text := strings.TrimSpace(msg.Args)
	if text == "" {
		b.reply(ctx, msg.ChatID, EmptyTaskReply)
		return
	}

	task, err := b.parser.Parse(ctx, text)
	if errors.Is(err, tasks.ErrUnparseableTask) {
		b.reply(ctx, msg.ChatID, tasks.UserMessage)
		return
	}
	if err != nil {
		b.fail(ctx, msg.ChatID, "task", err)
		return
	}

	if _, err := b.entries.SaveTask(ctx, task); err != nil {
		b.fail(ctx, msg.ChatID, "task", err)
		return
	}

	b.logger.Info().
		Int64("chat_id", msg.ChatID).
		Str("task", text).
		Str("time", task.Time).
		Msg("Task saved")
	b.reply(ctx, msg.ChatID, fmt.Sprintf("Task saved: %s at %s", task.Description, task.Time))
}

// handleQuestion answers free text with the chat's recent conversation,
// the question itself included, as context.
func (b *Bot) handleQuestion(ctx context.Context, msg Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	b.sessions.Append(msg.ChatID, "User: "+text)
	conversation := b.sessions.Context(msg.ChatID)

	collection := b.analyzer.Route(ctx, text, b.defaultCollection)
	answer := b.analyzer.Analyze(ctx, collection, text, conversation)

	b.sessions.Append(msg.ChatID, "Assistant: "+answer)

	b.logger.Info().
		Int64("chat_id", msg.ChatID).
		Str("collection", collection).
		Str("question", text).
		Str("answer", answer).
		Msg("Question answered")
	b.reply(ctx, msg.ChatID, answer)
}

func (b *Bot) fail(ctx context.Context, chatID int64, handler string, err error) {
	b.logger.Error().
		Int64("chat_id", chatID).
		Str("handler", handler).
		Err(err).
		Msg("Failed to handle message")
	b.reply(ctx, chatID, FailureReply)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.sender.Send(ctx, chatID, text); err != nil {
		b.logger.Error().
			Int64("chat_id", chatID).
			Err(err).
			Msg("Failed to send reply")
	}
}
