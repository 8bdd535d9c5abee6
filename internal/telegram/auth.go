package telegram

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// isAdmin checks if the message sender is in the admins list.
func (digestBot *Bot) isAdmin(msg *models.Message) bool {
	if msg == nil || msg.From == nil {
		return false
	}
	for _, admin := range digestBot.cfg.BotConfig.Admins {
		if strings.EqualFold(msg.From.Username, admin) {
			return true
		}
	}
	return false
}
