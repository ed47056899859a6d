package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/bot/menu"
	"github.com/Spok95/telegram-course-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/models"
	"github.com/Spok95/telegram-course-bot/internal/sheets"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	editStepField = iota
	editStepInput
	editStepCustomRegion
)

type EditState struct {
	Step  int
	Field string // имя колонки ростера
}

var editStates = fsmutil.NewStore[*EditState]()

// Кнопка меню -> колонка ростера.
var editFields = map[string]string{
	"Edit Full Name":               sheets.ColFullName,
	"Edit Phone Number":            sheets.ColPhone,
	"Edit Additional Phone Number": sheets.ColAdditionalPhone,
	"Edit Date of Birth":           sheets.ColDateOfBirth,
	"Edit Region":                  sheets.ColRegion,
	"Edit HW Frequency":            sheets.ColHWFrequency,
}

const editMenuPrompt = "What information would you like to edit?"

// StartEdit — /edit. Только для зарегистрированных.
func StartEdit(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ResetAll(chatID)

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	registered, err := env.Roster.IsRegistered(sctx, msg.From.ID)
	cancel()
	if err != nil {
		failStore(env, chatID, err)
		return
	}
	if !registered {
		send(env, chatID, "You are not registered yet. Use /start to register.")
		return
	}
	editStates.Set(chatID, &EditState{Step: editStepField})
	reply(env, chatID, editMenuPrompt, menu.EditFields())
}

func HandleEdit(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, ok := editStates.Get(chatID)
	if !ok {
		return
	}

	switch st.Step {
	case editStepField:
		editChooseField(ctx, env, msg, st)
	case editStepInput:
		editApplyInput(ctx, env, msg, st)
	case editStepCustomRegion:
		if fsmutil.IsBackText(msg.Text) {
			st.Step = editStepInput
			reply(env, chatID, "Please select your new Region:", menu.Regions())
			return
		}
		editCommit(ctx, env, msg, st, msg.Text)
	}
}

func editChooseField(ctx context.Context, env *Env, msg *tgbotapi.Message, st *EditState) {
	chatID := msg.Chat.ID
	if fsmutil.IsBackText(msg.Text) {
		editStates.Delete(chatID)
		reply(env, chatID, "Returning to the main menu.", menu.Main())
		return
	}

	field, ok := editFields[msg.Text]
	if !ok {
		send(env, chatID, "Invalid option. Please select a valid button.")
		return
	}

	if field == sheets.ColHWFrequency {
		sctx, cancel := ctxutil.WithStoreTimeout(ctx)
		profile, _, err := env.Roster.FindByTelegramID(sctx, msg.From.ID)
		cancel()
		if err != nil {
			if errors.Is(err, sheets.ErrNotFound) {
				editStates.Delete(chatID)
				send(env, chatID, "Profile not found. Please register using /start.")
				return
			}
			failStore(env, chatID, err)
			return
		}
		if profile.StudyMode != models.StudyActive {
			send(env, chatID, "HW Frequency can only be edited for Active study mode.")
			return
		}
		st.Field = field
		st.Step = editStepInput
		reply(env, chatID, "Please select the new HW Frequency:", menu.HWFrequencies())
		return
	}

	st.Field = field
	st.Step = editStepInput
	switch field {
	case sheets.ColDateOfBirth:
		reply(env, chatID, "Please provide your new Date of Birth in the format DD/MM/YYYY:", menu.Back())
	case sheets.ColRegion:
		reply(env, chatID, "Please select your new Region:", menu.Regions())
	case sheets.ColPhone:
		reply(env, chatID, "Please provide your new telephone number:", menu.Phone())
	default:
		reply(env, chatID, "Please provide your new "+strings.ToLower(field)+":", menu.Back())
	}
}

func editApplyInput(ctx context.Context, env *Env, msg *tgbotapi.Message, st *EditState) {
	chatID := msg.Chat.ID
	if fsmutil.IsBackText(msg.Text) && msg.Contact == nil {
		st.Field = ""
		st.Step = editStepField
		reply(env, chatID, editMenuPrompt, menu.EditFields())
		return
	}

	switch st.Field {
	case sheets.ColPhone:
		value := msg.Text
		if msg.Contact != nil {
			value = msg.Contact.PhoneNumber
		} else if !ValidatePhoneText(value) {
			reply(env, chatID, "Invalid phone number. Please use the 'Share Phone Number' button.", menu.Phone())
			return
		}
		editCommit(ctx, env, msg, st, value)

	case sheets.ColDateOfBirth:
		age, err := ValidateDOB(msg.Text, Now())
		if err != nil {
			send(env, chatID, "Invalid date. Please use DD/MM/YYYY format.")
			return
		}
		// Возрастная корзина выводится из даты; правим обе колонки.
		sctx, cancel := ctxutil.WithStoreTimeout(ctx)
		err = env.Roster.UpdateField(sctx, msg.From.ID, sheets.ColAgeCategory, age)
		cancel()
		if err != nil {
			failStore(env, chatID, err)
			return
		}
		editCommit(ctx, env, msg, st, strings.TrimSpace(msg.Text))

	case sheets.ColFullName:
		if !ValidateFullName(msg.Text) {
			send(env, chatID, invalidNameText)
			return
		}
		editCommit(ctx, env, msg, st, msg.Text)

	case sheets.ColHWFrequency:
		if !models.IsHWFrequency(msg.Text) {
			send(env, chatID, "Invalid choice. Please select a valid HW Frequency.")
			return
		}
		editCommit(ctx, env, msg, st, msg.Text)

	case sheets.ColRegion:
		if msg.Text == models.RegionOther {
			st.Step = editStepCustomRegion
			send(env, chatID, "Please type the name of your region:")
			return
		}
		if !models.IsRegion(msg.Text) {
			reply(env, chatID, "Invalid selection. Please select your region from the buttons below:", menu.Regions())
			return
		}
		editCommit(ctx, env, msg, st, msg.Text)

	default:
		editCommit(ctx, env, msg, st, msg.Text)
	}
}

func editCommit(ctx context.Context, env *Env, msg *tgbotapi.Message, st *EditState, value string) {
	chatID := msg.Chat.ID

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	err := env.Roster.UpdateField(sctx, msg.From.ID, st.Field, value)
	cancel()
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			editStates.Delete(chatID)
			send(env, chatID, "Profile not found. Please register using /start.")
			return
		}
		failStore(env, chatID, err)
		return
	}

	env.Log.Infow("profile updated", "telegram_id", msg.From.ID, "field", st.Field)
	send(env, chatID, "Your "+strings.ToLower(st.Field)+" has been updated successfully.")
	editStates.Delete(chatID)
	reply(env, chatID, "Returning to the main menu.", menu.Main())
}

func EditActive(chatID int64) bool {
	_, ok := editStates.Get(chatID)
	return ok
}
