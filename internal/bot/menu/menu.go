package menu

import (
	"fmt"

	"github.com/Spok95/telegram-course-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func Main() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Profile")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Homework")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("My points")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Top List")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Contact Admin")),
	)
}

func MenuOnly() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("/menu")),
	)
}

func Back() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")),
	)
}

func BackOrMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("/menu")),
	)
}

func Phone() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("Share Phone Number")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")),
	)
}

func Regions() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(models.Regions))
	for _, r := range models.Regions {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(r)))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func StudyModes() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(string(models.StudyActive))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(string(models.StudyPassive))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")),
	)
}

func HWFrequencies() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(models.HWFrequencies)+1)
	for _, f := range models.HWFrequencies {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(f)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func Referrals() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(models.ReferralSources)+1)
	for _, r := range models.ReferralSources {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(r)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func EditFields() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Edit Full Name")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Edit Phone Number")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Edit Additional Phone Number")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Edit Date of Birth")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Edit Region")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Edit HW Frequency")),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")),
	)
}

func HomeworkList(nums []int) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(nums)+1)
	for _, n := range nums {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(fmt.Sprintf("#%d", n))))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Back")))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func Options(opts []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(o)))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}
