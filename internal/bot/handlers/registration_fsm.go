package handlers

import (
	"context"
	"strings"

	"github.com/Spok95/telegram-course-bot/internal/bot/menu"
	"github.com/Spok95/telegram-course-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-course-bot/internal/ctxutil"
	"github.com/Spok95/telegram-course-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Шаги регистрации. CustomRegion — отдельный шаг внутри стадии региона,
// чтобы подрежим свободного ввода не жил неявным флагом.
const (
	regStepName = iota
	regStepPhone
	regStepAdditionalPhone
	regStepDOB
	regStepRegion
	regStepCustomRegion
	regStepStudyMode
	regStepHWFrequency
	regStepReferral
)

type RegState struct {
	Step            int
	Name            string
	Phone           string
	AdditionalPhone string
	DOB             string
	AgeCategory     string
	Region          string
	StudyMode       models.StudyMode
	HWFrequency     string
	Referral        string
}

var regStates = fsmutil.NewStore[*RegState]()

const (
	promptName      = "Welcome! Please provide your full name (e.g., John Doe):"
	promptPhone     = "Please share your phone number:"
	promptAddPhone  = "Would you like to provide an additional phone number? If yes, please share it. If not, reply with 'No'."
	promptDOB       = "Please provide your date of birth (DD/MM/YYYY):"
	promptRegion    = "Please select your region:"
	promptReferral  = "How did you hear about us?"
	promptMainMenu  = "Welcome to the main menu! Please choose an option below:"
	invalidNameText = "Invalid name. Please provide your full name (e.g., John Doe). Ensure it contains at least two words and only letters or the ' symbol."

	promptStudyMode = `Which mode of studying do you want to choose?

✨ *ACTIVE*
_What do you get?_
• Live lectures & HW materials _forever_
• 🎮 Playing games in group
• 🏆 Prizes, like 'IELTS free sit', or 'Free courses for a friend'
• 📊 Monitoring of your HW submission

⚠️ _Important:_ If you do not send your HW 5 times, you will be expelled from the course!

💰 *PASSIVE*
_What do you get?_
• Live lectures & HW materials _forever_
• 🚫 No prizes
• 🚫 No games
• ❌ HW submission will not be monitored
• 👍 You will never be expelled from the course`

	promptHWFrequency = `🎉 *Hurrah!* You chose the *ACTIVE* mode!!!

📅 *How many times a week do you want to do HW?*
We understand that everyone has a different lifestyle, so please choose a plan that suits you best 😉`
)

// StartRegistration — /start. Уже зарегистрированных не пускаем по второму кругу.
func StartRegistration(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ResetAll(chatID)

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	registered, err := env.Roster.IsRegistered(sctx, msg.From.ID)
	cancel()
	if err != nil {
		failStore(env, chatID, err)
		return
	}
	if registered {
		send(env, chatID, "You have already registered. Use /menu to open the main page.")
		return
	}
	regStates.Set(chatID, &RegState{Step: regStepName})
	reply(env, chatID, promptName, menu.Back())
}

// HandleRegistration обрабатывает одно сообщение активной регистрации.
func HandleRegistration(ctx context.Context, env *Env, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, ok := regStates.Get(chatID)
	if !ok {
		return
	}

	if fsmutil.IsBackText(msg.Text) {
		regBack(env, chatID, st)
		return
	}

	switch st.Step {
	case regStepName:
		if !ValidateFullName(msg.Text) {
			reply(env, chatID, invalidNameText, menu.Back())
			return
		}
		st.Name = msg.Text
		st.Step = regStepPhone
		reply(env, chatID, promptPhone, menu.Phone())

	case regStepPhone:
		if msg.Contact == nil {
			reply(env, chatID, promptPhone, menu.Phone())
			return
		}
		st.Phone = msg.Contact.PhoneNumber
		st.Step = regStepAdditionalPhone
		reply(env, chatID, promptAddPhone, menu.Back())

	case regStepAdditionalPhone:
		if strings.EqualFold(strings.TrimSpace(msg.Text), "no") {
			st.AdditionalPhone = "Not Provided"
		} else {
			st.AdditionalPhone = msg.Text
		}
		st.Step = regStepDOB
		reply(env, chatID, promptDOB, menu.Back())

	case regStepDOB:
		age, err := ValidateDOB(msg.Text, Now())
		if err != nil {
			reply(env, chatID, "Invalid date. Please provide your date of birth in the format DD/MM/YYYY and ensure the year is valid.", menu.Back())
			return
		}
		st.DOB = strings.TrimSpace(msg.Text)
		st.AgeCategory = age
		st.Step = regStepRegion
		reply(env, chatID, promptRegion, menu.Regions())

	case regStepRegion:
		if !models.IsRegion(msg.Text) {
			reply(env, chatID, "Invalid selection. Please select your region from the buttons below:", menu.Regions())
			return
		}
		if msg.Text == models.RegionOther {
			st.Step = regStepCustomRegion
			send(env, chatID, "Please type the name of your region:")
			return
		}
		st.Region = msg.Text
		st.Step = regStepStudyMode
		replyMarkdown(env, chatID, promptStudyMode, menu.StudyModes())

	case regStepCustomRegion:
		st.Region = msg.Text
		st.Step = regStepStudyMode
		replyMarkdown(env, chatID, promptStudyMode, menu.StudyModes())

	case regStepStudyMode:
		switch msg.Text {
		case string(models.StudyActive):
			st.StudyMode = models.StudyActive
			st.Step = regStepHWFrequency
			replyMarkdown(env, chatID, promptHWFrequency, menu.HWFrequencies())
		case string(models.StudyPassive):
			st.StudyMode = models.StudyPassive
			st.Step = regStepReferral
			reply(env, chatID, "You chose the PASSIVE mode! Moving to the next step. How did you hear about us?", menu.Referrals())
		default:
			send(env, chatID, "Invalid choice. Please select either Active or Passive using the buttons.")
		}

	case regStepHWFrequency:
		if !models.IsHWFrequency(msg.Text) {
			send(env, chatID, "Invalid choice. Please select one of the HW Frequency options or press /start to restart.")
			return
		}
		st.HWFrequency = msg.Text
		st.Step = regStepReferral
		reply(env, chatID, promptReferral, menu.Referrals())

	case regStepReferral:
		if !models.IsReferralSource(msg.Text) {
			reply(env, chatID, promptReferral, menu.Referrals())
			return
		}
		st.Referral = msg.Text
		commitRegistration(ctx, env, msg, st)
	}
}

// regBack возвращает на предыдущий шаг и стирает поле покидаемого шага.
func regBack(env *Env, chatID int64, st *RegState) {
	switch st.Step {
	case regStepName:
		send(env, chatID, "You are at the start of the registration process.")
	case regStepPhone:
		st.Name = ""
		st.Step = regStepName
		reply(env, chatID, promptName, menu.Back())
	case regStepAdditionalPhone:
		st.Phone = ""
		st.Step = regStepPhone
		reply(env, chatID, promptPhone, menu.Phone())
	case regStepDOB:
		st.AdditionalPhone = ""
		st.Step = regStepAdditionalPhone
		reply(env, chatID, promptAddPhone, menu.Back())
	case regStepRegion, regStepCustomRegion:
		st.DOB, st.AgeCategory = "", ""
		st.Region = ""
		st.Step = regStepDOB
		reply(env, chatID, promptDOB, menu.Back())
	case regStepStudyMode:
		st.Region = ""
		st.Step = regStepRegion
		reply(env, chatID, promptRegion, menu.Regions())
	case regStepHWFrequency:
		st.StudyMode = ""
		st.Step = regStepStudyMode
		replyMarkdown(env, chatID, promptStudyMode, menu.StudyModes())
	case regStepReferral:
		// Откуда пришли — зависит от режима обучения.
		if st.StudyMode == models.StudyActive {
			st.HWFrequency = ""
			st.Step = regStepHWFrequency
			reply(env, chatID, "Please select your HW Frequency:", menu.HWFrequencies())
		} else {
			st.StudyMode = ""
			st.Step = regStepStudyMode
			replyMarkdown(env, chatID, promptStudyMode, menu.StudyModes())
		}
	}
}

// commitRegistration выдаёт Unique ID и дописывает строку в ростер.
func commitRegistration(ctx context.Context, env *Env, msg *tgbotapi.Message, st *RegState) {
	chatID := msg.Chat.ID

	sctx, cancel := ctxutil.WithStoreTimeout(ctx)
	defer cancel()

	uniqueID, err := env.Roster.AllocateUniqueID(sctx)
	if err != nil {
		failStore(env, chatID, err)
		return
	}

	username := msg.From.UserName
	if username == "" {
		username = "Not Provided"
	}
	hwFreq := st.HWFrequency
	if hwFreq == "" {
		hwFreq = "N/A"
	}
	profile := &models.StudentProfile{
		FullName:        st.Name,
		Phone:           st.Phone,
		AdditionalPhone: st.AdditionalPhone,
		Username:        username,
		DateOfBirth:     st.DOB,
		AgeCategory:     st.AgeCategory,
		Region:          st.Region,
		StudyMode:       st.StudyMode,
		HWFrequency:     hwFreq,
		ReferralSource:  st.Referral,
		UniqueID:        uniqueID,
		TelegramID:      msg.From.ID,
		RegisteredAt:    Now().In(env.Cfg.Location).Format("02/01/2006 15:04:05"),
	}

	send(env, chatID, "Thank you for registering! 🎉")
	if err := env.Roster.Append(sctx, profile); err != nil {
		failStore(env, chatID, err)
		return
	}

	env.Log.Infow("student registered", "unique_id", uniqueID, "telegram_id", msg.From.ID)
	replyMarkdown(env, chatID, "✨ *Your Unique ID:* "+uniqueID, nil)
	reply(env, chatID, promptMainMenu, menu.Main())
	regStates.Delete(chatID)
}

// регистрация «живой»? — нужно диспетчеру для маршрутизации.
func RegistrationActive(chatID int64) bool {
	_, ok := regStates.Get(chatID)
	return ok
}
