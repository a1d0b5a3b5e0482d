package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// telegramMaxTickets limita los jogos por mensaje (Telegram corta en 4096 caracteres).
const telegramMaxTickets = 50

// Telegram implementa ports.Reporter enviando los jogos a un chat.
type Telegram struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewTelegram crea el reporter. endpoint vacío usa la API pública.
func NewTelegram(botToken, chatID, endpoint string, maxRetries int, retryDelayBase time.Duration) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(botToken, endpoint)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: create bot: %w", err)
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: invalid chat id: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Telegram{
		bot:            bot,
		chatID:         id,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// ReportTickets envía el resumen y hasta 50 jogos.
func (t *Telegram) ReportTickets(ctx context.Context, s domain.GenerationSummary, tickets []domain.Ticket) error {
	msg := tgbotapi.NewMessage(t.chatID, formatTickets(s, tickets))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < t.maxRetries; i++ {
		_, err := t.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		select {
		case <-time.After(t.retryDelayBase * time.Duration(i+1)):
		case <-ctx.Done():
			return fmt.Errorf("notify.Telegram: %w", ctx.Err())
		}
	}
	return fmt.Errorf("notify.Telegram: send failed after %d retries: %w", t.maxRetries, lastErr)
}

// formatTickets arma el mensaje en MarkdownV2.
func formatTickets(s domain.GenerationSummary, tickets []domain.Ticket) string {
	var sb strings.Builder
	sb.WriteString("*Lotofácil — jogos gerados*\n\n")
	if s.Previous.Contest > 0 {
		fmt.Fprintf(&sb, "Base: concurso %d\n", s.Previous.Contest)
	}
	fmt.Fprintf(&sb, "Universo: %s\n", escapeMarkdownV2(s.Universe.Format()))
	fmt.Fprintf(&sb, "Avaliados: %d \\| Selecionados: %d\n\n", s.Considered, s.Kept)

	shown := tickets
	if len(shown) > telegramMaxTickets {
		shown = shown[:telegramMaxTickets]
	}
	for i, tk := range shown {
		fmt.Fprintf(&sb, "%d\\. `%s`\n", i+1, tk.Format())
	}
	if len(shown) < len(tickets) {
		fmt.Fprintf(&sb, "\\.\\.\\. \\+%d\n", len(tickets)-len(shown))
	}
	return sb.String()
}

// escapeMarkdownV2 escapa los caracteres reservados de MarkdownV2.
func escapeMarkdownV2(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch r {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
