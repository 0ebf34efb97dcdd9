package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Menu button labels. The handlers match incoming text against these, so
// they are the contract between the keyboard and the router.
const (
	menuWeek     = "📅 Расписание"
	menuNextWeek = "📅 Расписание на следующую неделю"
)

// startMenu is the reply keyboard shown once a chat is bound to a student.
var startMenu = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(menuWeek),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(menuNextWeek),
	),
)
