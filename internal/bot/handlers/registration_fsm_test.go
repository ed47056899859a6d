package handlers

import (
	"context"
	"strings"
	"testing"
	"time"
)

func regTestNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func runRegistration(t *testing.T, env *Env, chatID int64, inputs ...any) {
	t.Helper()
	ctx := context.Background()
	for _, in := range inputs {
		switch v := in.(type) {
		case string:
			HandleRegistration(ctx, env, textMsg(chatID, v))
		case []string:
			HandleRegistration(ctx, env, contactMsg(chatID, v[0]))
		default:
			t.Fatalf("неизвестный вход: %v", in)
		}
	}
}

func TestRegistrationHappyPath(t *testing.T) {
	oldNow := Now
	Now = regTestNow
	defer func() { Now = oldNow }()

	env, rec, fake := newTestEnv([][]string{rosterHeader})
	const chatID = int64(42)

	StartRegistration(context.Background(), env, textMsg(chatID, "/start"))
	if !RegistrationActive(chatID) {
		t.Fatal("после /start регистрация должна быть активна")
	}

	runRegistration(t, env, chatID,
		"John Doe",
		[]string{"+998901112233"},
		"no",
		"15/03/2000",
		"Navoi",
		"Active",
		"6 times per week",
		"YouTube Videos",
	)

	if RegistrationActive(chatID) {
		t.Fatal("после коммита состояние должно быть очищено")
	}
	if len(fake.sheets[""]) != 2 {
		t.Fatalf("ожидали одну добавленную строку, grid=%d строк", len(fake.sheets[""]))
	}

	row := fake.sheets[""][1]
	want := []string{
		"John Doe", "+998901112233", "Not Provided", "student",
		"15/03/2000", "20-29", "Navoi", "Active",
		"6 times per week", "YouTube Videos", "V3001", "42",
	}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("колонка %d: %q, ожидали %q", i, row[i], w)
		}
	}

	var gotID bool
	for _, txt := range rec.texts() {
		if strings.Contains(txt, "V3001") {
			gotID = true
		}
	}
	if !gotID {
		t.Error("студент не получил сообщение с Unique ID")
	}
}

func TestRegistrationCustomRegion(t *testing.T) {
	oldNow := Now
	Now = regTestNow
	defer func() { Now = oldNow }()

	env, _, fake := newTestEnv([][]string{rosterHeader})
	const chatID = int64(7)

	StartRegistration(context.Background(), env, textMsg(chatID, "/start"))
	runRegistration(t, env, chatID,
		"Jane Roe",
		[]string{"+998905556677"},
		"no",
		"01/01/1990",
		"Other",
		"Mars Colony",
		"Passive",
		"Previous courses",
	)

	if len(fake.sheets[""]) != 2 {
		t.Fatalf("ожидали одну добавленную строку, grid=%d строк", len(fake.sheets[""]))
	}
	row := fake.sheets[""][1]
	if row[6] != "Mars Colony" {
		t.Errorf("регион: %q, ожидали Mars Colony", row[6])
	}
	if row[8] != "N/A" {
		t.Errorf("HW Frequency для Passive: %q, ожидали N/A", row[8])
	}
}

// Back с каждого шага возвращает на предыдущий и стирает поле покидаемого шага.
func TestRegistrationBackNavigation(t *testing.T) {
	oldNow := Now
	Now = regTestNow
	defer func() { Now = oldNow }()

	env, _, _ := newTestEnv([][]string{rosterHeader})
	const chatID = int64(11)

	StartRegistration(context.Background(), env, textMsg(chatID, "/start"))
	runRegistration(t, env, chatID,
		"John Doe",
		[]string{"+998901112233"},
		"no",
		"15/03/2000",
		"Navoi",
		"Active",
	)

	st, ok := regStates.Get(chatID)
	if !ok || st.Step != regStepHWFrequency {
		t.Fatalf("ожидали шаг hw frequency, got %+v", st)
	}

	// hw frequency -> study mode
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepStudyMode || st.StudyMode != "" {
		t.Fatalf("Back не вернул на выбор режима или не стёр режим: %+v", st)
	}
	// study mode -> region
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepRegion || st.Region != "" {
		t.Fatalf("Back не вернул на регион или не стёр регион: %+v", st)
	}
	// region -> dob
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepDOB || st.DOB != "" || st.AgeCategory != "" {
		t.Fatalf("Back не вернул на дату рождения или не стёр её: %+v", st)
	}
	// dob -> additional phone
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepAdditionalPhone || st.AdditionalPhone != "" {
		t.Fatalf("Back не вернул на доп. телефон: %+v", st)
	}
	// additional phone -> phone
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepPhone || st.Phone != "" {
		t.Fatalf("Back не вернул на телефон или не стёр его: %+v", st)
	}
	// phone -> name
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepName || st.Name != "" {
		t.Fatalf("Back не вернул на имя или не стёр его: %+v", st)
	}
	// с первого шага уходить некуда
	runRegistration(t, env, chatID, "Back")
	if st.Step != regStepName {
		t.Fatalf("Back с первого шага не должен менять шаг: %+v", st)
	}
}

func TestRegistrationInvalidInputRePrompts(t *testing.T) {
	oldNow := Now
	Now = regTestNow
	defer func() { Now = oldNow }()

	env, rec, _ := newTestEnv([][]string{rosterHeader})
	const chatID = int64(13)

	StartRegistration(context.Background(), env, textMsg(chatID, "/start"))

	runRegistration(t, env, chatID, "John")
	st, _ := regStates.Get(chatID)
	if st.Step != regStepName {
		t.Fatalf("невалидное имя не должно продвигать шаг: %+v", st)
	}
	if !strings.Contains(rec.last(), "Invalid name") {
		t.Fatalf("нет переспроса: %q", rec.last())
	}

	runRegistration(t, env, chatID, "John Doe", []string{"+998901112233"}, "no", "31/31/2000")
	if st.Step != regStepDOB {
		t.Fatalf("невалидная дата не должна продвигать шаг: %+v", st)
	}
}

func TestStartRegistrationAlreadyRegistered(t *testing.T) {
	grid := [][]string{
		rosterHeader,
		{"Old Student", "+99890", "N/A", "old", "01/01/2000", "20-29", "Navoi", "Active",
			"6 times per week", "YouTube Videos", "V3001", "42", "01/01/2025 10:00:00", "1"},
	}
	env, rec, _ := newTestEnv(grid)

	StartRegistration(context.Background(), env, textMsg(42, "/start"))
	if RegistrationActive(42) {
		t.Fatal("для зарегистрированного регистрация не должна стартовать")
	}
	if !strings.Contains(rec.last(), "already registered") {
		t.Fatalf("нет сообщения о повторной регистрации: %q", rec.last())
	}
}
