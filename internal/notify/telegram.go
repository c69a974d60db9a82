// Package notify announces newly indexed articles on Telegram.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/frijal/ArtikelHub/internal/article"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SendInterval paces messages below Telegram's per-chat limit.
const SendInterval = time.Second

var ErrNotConfigured = errors.New("notify: telegram token or chat id missing")

// Sender is the part of tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Announcer struct {
	bot     Sender
	chatID  int64
	siteURL string
	limiter *rate.Limiter
	log     *zap.Logger
}

// New connects to the Bot API. endpoint may be empty for the public API.
func New(token, endpoint string, chatID int64, siteURL string, log *zap.Logger) (*Announcer, error) {
	if token == "" || chatID == 0 {
		return nil, ErrNotConfigured
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return NewWithSender(bot, chatID, siteURL, log), nil
}

func NewWithSender(bot Sender, chatID int64, siteURL string, log *zap.Logger) *Announcer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Announcer{
		bot:     bot,
		chatID:  chatID,
		siteURL: strings.TrimRight(siteURL, "/"),
		limiter: rate.NewLimiter(rate.Every(SendInterval), 1),
		log:     log,
	}
}

// Message is the HTML text announcing a.
func Message(a article.Article, siteURL string) string {
	link := a.URL()
	if strings.HasPrefix(link, "/") {
		link = siteURL + link
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📝 <b>%s</b>\n", html.EscapeString(a.Title))
	if a.Category != "" {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(a.Category))
	}
	if a.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(article.Truncate(a.Description, article.HeroExcerptLen)))
	}
	fmt.Fprintf(&b, "\n%s", link)
	return b.String()
}

// Announce sends one message per article in order. A failed message is
// logged and skipped; the count of delivered messages is returned.
func (n *Announcer) Announce(ctx context.Context, articles []article.Article) (int, error) {
	sent := 0
	for _, a := range articles {
		if err := n.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		msg := tgbotapi.NewMessage(n.chatID, Message(a, n.siteURL))
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Warn("telegram send failed", zap.String("slug", a.Slug), zap.Error(err))
			continue
		}
		sent++
	}
	n.log.Info("telegram announce done", zap.Int("sent", sent), zap.Int("total", len(articles)))
	return sent, nil
}
