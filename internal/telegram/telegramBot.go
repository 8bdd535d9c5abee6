package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"StaffRankService/internal/config"
	"StaffRankService/internal/models/domain"
	"StaffRankService/internal/scoring"
	"StaffRankService/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Pipeline is the report engine the bot pulls digests from.
type Pipeline interface {
	Run(ctx context.Context, req scoring.Request) (*domain.Report, error)
}

// Bot answers admin report commands with performance digests.
type Bot struct {
	b        *bot.Bot
	cfg      *config.Config
	pipeline Pipeline
	ctx      context.Context
	cancel   context.CancelFunc
	log      *slog.Logger
}

// New creates a new Bot instance.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	pipeline Pipeline,
) *Bot {
	op := "telegram.New()"
	log := logger.With(slog.String("op", op))

	ctx, cancel := context.WithCancel(context.Background())

	digestBot := &Bot{
		cfg:      cfg,
		pipeline: pipeline,
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}

	b, err := bot.New(cfg.BotConfig.TgbotApiToken,
		bot.WithDefaultHandler(digestBot.defaultHandler),
	)
	if err != nil {
		log.Error("error auth telegram bot", sl.Err(err))
		cancel()
		return nil
	}

	digestBot.b = b

	log.Info("telegram bot created")
	return digestBot
}

// defaultHandler is the single entry point for all updates from go-telegram/bot.
func (digestBot *Bot) defaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	op := "telegram.defaultHandler()"
	log := digestBot.log.With(slog.String("op", op))

	if update.Message == nil {
		return
	}

	log.Info("input message",
		slog.String("user_id", strconv.FormatInt(update.Message.From.ID, 10)),
		slog.String("user_name", update.Message.From.Username),
		slog.String("text", update.Message.Text),
	)

	if !isCommand(update.Message) {
		return
	}

	if err := digestBot.commandHandler(ctx, update); err != nil {
		log.Error("command handler error", sl.Err(err))
	}
}

// commandHandler dispatches /start, /help, and /report.
func (digestBot *Bot) commandHandler(ctx context.Context, update *models.Update) error {
	msg := update.Message
	chatID := msg.Chat.ID

	switch commandText(msg) {
	case "start", "help":
		return digestBot.sendReply(ctx, chatID, helpText)
	case "report":
		if !digestBot.isAdmin(msg) {
			return digestBot.sendReply(ctx, chatID, "This command is restricted to administrators.")
		}
		period := strings.TrimSpace(commandArguments(msg))
		if period == "" {
			period = digestBot.cfg.Report.DigestPeriod
		}
		return digestBot.sendDigest(ctx, chatID, period)
	default:
		return digestBot.sendReply(ctx, chatID, "Unknown command. Try /help.")
	}
}

const helpText = `Staff performance digest bot.

/report [daily|weekly|monthly|quarterly|yearly] - top performers for the period (admins only)`

// isCommand reports whether msg is a bot command.
func isCommand(msg *models.Message) bool {
	if msg == nil || len(msg.Entities) == 0 {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}

// commandText extracts /command from a message (without @botname suffix).
func commandText(msg *models.Message) string {
	if msg == nil || len(msg.Entities) == 0 {
		return ""
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			raw := []rune(msg.Text)[e.Offset : e.Offset+e.Length]
			cmd := string(raw)
			if len(cmd) > 0 && cmd[0] == '/' {
				cmd = cmd[1:]
			}
			for i, c := range cmd {
				if c == '@' {
					cmd = cmd[:i]
					break
				}
			}
			return cmd
		}
	}
	return ""
}

// commandArguments returns the text that follows the first /command entity.
func commandArguments(msg *models.Message) string {
	if msg == nil || len(msg.Entities) == 0 {
		return ""
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			end := e.Offset + e.Length
			runes := []rune(msg.Text)
			if end >= len(runes) {
				return ""
			}
			rest := string(runes[end:])
			if len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			return rest
		}
	}
	return ""
}

// Start begins polling for Telegram updates.
func (digestBot *Bot) Start() {
	digestBot.log.Info("starting telegram bot polling")
	digestBot.b.Start(digestBot.ctx)
	digestBot.log.Info("telegram bot polling stopped")
}

// Shutdown stops polling.
func (digestBot *Bot) Shutdown(_ context.Context) error {
	digestBot.cancel()
	return nil
}

// sendReply sends a plain-text reply to the given chat.
func (digestBot *Bot) sendReply(ctx context.Context, chatID int64, text string) error {
	_, err := digestBot.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("sendReply: %w", err)
	}
	return nil
}

// sendMarkdown sends a Markdown-formatted reply to the given chat.
func (digestBot *Bot) sendMarkdown(ctx context.Context, chatID int64, text string) error {
	_, err := digestBot.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("sendMarkdown: %w", err)
	}
	return nil
}
