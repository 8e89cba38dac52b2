// Package bot connects the Telegram transport to the session state
// machine and renders each stage.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"historybot/internal/content"
	"historybot/internal/metrics"
	"historybot/internal/session"
	"historybot/internal/telegram"
)

// Transport is the messaging surface the bot drives. Implemented by
// telegram.Client; tests plug in a recorder.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboard) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboard) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
}

// Bot owns the update loop and the daily job.
type Bot struct {
	tg      Transport
	machine *session.Machine

	// history selector reused by the scheduled send
	history func(ctx context.Context) (*content.Item, error)

	dailyChatID int64 // 0 disables the scheduled send
}

func New(tg Transport, machine *session.Machine, history func(ctx context.Context) (*content.Item, error), dailyChatID int64) *Bot {
	return &Bot{tg: tg, machine: machine, history: history, dailyChatID: dailyChatID}
}

// Run long-polls for updates until ctx ends.
func (b *Bot) Run(ctx context.Context) {
	var offset int64
	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := b.tg.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("getUpdates failed", "error", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(chatID, 10)

	switch msg.Text {
	case "/start":
		firstName := ""
		if msg.From != nil {
			firstName = msg.From.FirstName
		}
		slog.Info("session started", "user", userID)
		if _, err := b.tg.SendMessage(ctx, chatID, welcomeText(firstName), nil); err != nil {
			slog.Error("failed to send welcome", "error", err)
			return
		}

		step, err := b.machine.Advance(ctx, userID, session.TriggerStart)
		b.deliverStep(ctx, chatID, 0, step, err)

	case "/cancel":
		step, err := b.machine.Advance(ctx, userID, session.TriggerCancel)
		if err != nil || step == nil {
			return
		}
		if _, err := b.tg.SendMessage(ctx, chatID, cancelledText, nil); err != nil {
			slog.Error("failed to send cancel notice", "error", err)
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := b.tg.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		slog.Warn("failed to answer callback", "error", err)
	}
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := strconv.FormatInt(chatID, 10)
	trigger := session.Trigger(cb.Data)

	if text, ok := loadingTexts[trigger]; ok && b.machine.Expects(userID, trigger) {
		if err := b.tg.EditMessageText(ctx, chatID, messageID, text, nil); err != nil {
			slog.Warn("failed to show loading text", "error", err)
		}
	}

	step, err := b.machine.Advance(ctx, userID, trigger)
	if step == nil && err == nil {
		// Trigger arrived out of turn; nothing to do.
		return
	}
	b.deliverStep(ctx, chatID, messageID, step, err)
}

// deliverStep renders a machine step into the chat. messageID > 0
// edits an existing message, otherwise a new one is sent.
func (b *Bot) deliverStep(ctx context.Context, chatID, messageID int64, step *session.Step, err error) {
	if err != nil {
		slog.Error("stage advance failed", "error", err)
		metrics.Global.SetError(err.Error())
		b.surface(ctx, chatID, messageID, unavailableText, nil)
		return
	}
	if step == nil {
		return
	}

	text, keyboard := Render(step)
	b.surface(ctx, chatID, messageID, text, keyboard)
	metrics.Global.SetLastRun()
}

func (b *Bot) surface(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboard) {
	var err error
	if messageID > 0 {
		err = b.tg.EditMessageText(ctx, chatID, messageID, text, keyboard)
	} else {
		_, err = b.tg.SendMessage(ctx, chatID, text, keyboard)
	}
	if err != nil {
		slog.Error("failed to deliver message", "error", err)
	}
}

// RunDaily is the scheduled morning send: the history stage only,
// addressed to the configured recipient, with the next-stage button
// so the recipient can continue the sequence.
func (b *Bot) RunDaily(ctx context.Context) {
	if b.dailyChatID == 0 {
		slog.Info("no daily recipient configured, skipping scheduled send")
		return
	}

	metrics.Global.IncrementScheduledRuns()
	slog.Info("scheduled history send", "chat", b.dailyChatID)

	item, err := b.history(ctx)
	if err != nil {
		slog.Warn("scheduled send has no content", "error", err)
		if _, sendErr := b.tg.SendMessage(ctx, b.dailyChatID, dailyDegradedText, nil); sendErr != nil {
			slog.Error("failed to send degraded notice", "error", sendErr)
		}
		return
	}

	text := fmt.Sprintf("%s\n\n%s", dailyHeader, itemBody(item))
	keyboard := telegram.SingleButton(worldButtonLabel, string(session.TriggerWorld))
	if _, err := b.tg.SendMessage(ctx, b.dailyChatID, text, keyboard); err != nil {
		slog.Error("failed to send scheduled message", "error", err)
		return
	}

	// Let the recipient continue from the button.
	b.machine.Resume(strconv.FormatInt(b.dailyChatID, 10), session.StageHistorySent, item.OriginalTitle)
	metrics.Global.SetLastRun()
}
