package handlers

import (
	"context"
	"strings"
	"testing"
	"time"
)

func editRoster(mode string) [][]string {
	return [][]string{
		rosterHeader,
		{"John Doe", "+99890", "N/A", "student", "15/03/2000", "20-29", "Navoi", mode,
			"6 times per week", "YouTube Videos", "V3001", "42", "01/01/2025 10:00:00", "1"},
	}
}

func TestEditRegion(t *testing.T) {
	env, rec, fake := newTestEnv(editRoster("Active"))
	ctx := context.Background()
	const chatID = int64(42)

	StartEdit(ctx, env, textMsg(chatID, "/edit"))
	if !EditActive(chatID) {
		t.Fatal("после /edit сценарий должен быть активен")
	}

	HandleEdit(ctx, env, textMsg(chatID, "Edit Region"))
	HandleEdit(ctx, env, textMsg(chatID, "Samarkand"))

	if got := fake.sheets[""][1][6]; got != "Samarkand" {
		t.Fatalf("регион: %q, ожидали Samarkand", got)
	}
	if EditActive(chatID) {
		t.Fatal("после успешного апдейта сценарий должен завершиться")
	}
	joined := strings.Join(rec.texts(), "\n")
	if !strings.Contains(joined, "region has been updated successfully") {
		t.Fatalf("нет подтверждения: %q", joined)
	}
}

func TestEditCustomRegion(t *testing.T) {
	env, _, fake := newTestEnv(editRoster("Active"))
	ctx := context.Background()
	const chatID = int64(42)

	StartEdit(ctx, env, textMsg(chatID, "/edit"))
	HandleEdit(ctx, env, textMsg(chatID, "Edit Region"))
	HandleEdit(ctx, env, textMsg(chatID, "Other"))
	HandleEdit(ctx, env, textMsg(chatID, "Mars Colony"))

	if got := fake.sheets[""][1][6]; got != "Mars Colony" {
		t.Fatalf("регион: %q, ожидали Mars Colony", got)
	}
}

func TestEditDOBUpdatesAgeCategory(t *testing.T) {
	oldNow := Now
	Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { Now = oldNow }()

	env, _, fake := newTestEnv(editRoster("Active"))
	ctx := context.Background()
	const chatID = int64(42)

	StartEdit(ctx, env, textMsg(chatID, "/edit"))
	HandleEdit(ctx, env, textMsg(chatID, "Edit Date of Birth"))
	HandleEdit(ctx, env, textMsg(chatID, "10/10/1985"))

	row := fake.sheets[""][1]
	if row[4] != "10/10/1985" {
		t.Fatalf("дата рождения: %q", row[4])
	}
	if row[5] != "30-39" {
		t.Fatalf("возрастная корзина не пересчитана: %q", row[5])
	}
}

func TestEditHWFrequencyPassiveBlocked(t *testing.T) {
	env, rec, _ := newTestEnv(editRoster("Passive"))
	ctx := context.Background()
	const chatID = int64(42)

	StartEdit(ctx, env, textMsg(chatID, "/edit"))
	HandleEdit(ctx, env, textMsg(chatID, "Edit HW Frequency"))

	if !strings.Contains(rec.last(), "only be edited for Active") {
		t.Fatalf("пассивному не отказали: %q", rec.last())
	}
	st, _ := editStates.Get(chatID)
	if st.Step != editStepField {
		t.Fatalf("шаг должен остаться на меню полей: %+v", st)
	}
}

func TestEditBackFromInputReturnsToMenu(t *testing.T) {
	env, rec, _ := newTestEnv(editRoster("Active"))
	ctx := context.Background()
	const chatID = int64(42)

	StartEdit(ctx, env, textMsg(chatID, "/edit"))
	HandleEdit(ctx, env, textMsg(chatID, "Edit Full Name"))
	HandleEdit(ctx, env, textMsg(chatID, "Back"))

	st, ok := editStates.Get(chatID)
	if !ok || st.Step != editStepField || st.Field != "" {
		t.Fatalf("Back из ввода должен вернуть в меню полей: %+v", st)
	}
	if !strings.Contains(rec.last(), "What information would you like to edit?") {
		t.Fatalf("нет переспроса меню: %q", rec.last())
	}

	// Back из меню — выход в главное меню.
	HandleEdit(ctx, env, textMsg(chatID, "Back"))
	if EditActive(chatID) {
		t.Fatal("Back из меню полей должен завершить сценарий")
	}
}

func TestEditInvalidPhoneRePrompts(t *testing.T) {
	env, rec, _ := newTestEnv(editRoster("Active"))
	ctx := context.Background()
	const chatID = int64(42)

	StartEdit(ctx, env, textMsg(chatID, "/edit"))
	HandleEdit(ctx, env, textMsg(chatID, "Edit Phone Number"))
	HandleEdit(ctx, env, textMsg(chatID, "12-34"))

	if !strings.Contains(rec.last(), "Invalid phone number") {
		t.Fatalf("нет переспроса: %q", rec.last())
	}
	if !EditActive(chatID) {
		t.Fatal("сценарий должен остаться активным")
	}
}
