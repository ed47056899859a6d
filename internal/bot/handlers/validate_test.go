package handlers

import (
	"testing"
	"time"
)

func TestValidateFullName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"two_words", "John Doe", true},
		{"apostrophe", "D'Arcy O'Neil", true},
		{"three_words", "Anna Maria Lopez", true},
		{"single_word", "John", false},
		{"digits", "John Do3", false},
		{"punctuation", "John Doe!", false},
		{"only_apostrophes", "'' ''", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateFullName(tc.in); got != tc.ok {
				t.Fatalf("ValidateFullName(%q) = %v, ожидали %v", tc.in, got, tc.ok)
			}
		})
	}
}

func TestValidateDOB(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid_with_bucket", func(t *testing.T) {
		age, err := ValidateDOB("15/03/2000", now)
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		if age != "20-29" {
			t.Fatalf("возрастная корзина: %q, ожидали 20-29", age)
		}
	})

	t.Run("child_bucket", func(t *testing.T) {
		age, err := ValidateDOB("01/01/2020", now)
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		if age != "0-9" {
			t.Fatalf("возрастная корзина: %q, ожидали 0-9", age)
		}
	})

	t.Run("year_before_1950", func(t *testing.T) {
		if _, err := ValidateDOB("01/01/1949", now); err == nil {
			t.Fatal("ожидали ошибку для года < 1950")
		}
	})

	t.Run("future_date", func(t *testing.T) {
		if _, err := ValidateDOB("01/01/2030", now); err == nil {
			t.Fatal("ожидали ошибку для даты в будущем")
		}
	})

	t.Run("bad_format", func(t *testing.T) {
		if _, err := ValidateDOB("2000-03-15", now); err == nil {
			t.Fatal("ожидали ошибку формата")
		}
	})
}

func TestValidatePhoneText(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"998901234567", true},
		{"1234567890", true},
		{"123456789", false},
		{"+998901234567", false},
		{"12345abcde", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePhoneText(tc.in); got != tc.ok {
			t.Errorf("ValidatePhoneText(%q) = %v, ожидали %v", tc.in, got, tc.ok)
		}
	}
}
