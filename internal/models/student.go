package models

type StudyMode string

const (
	StudyActive  StudyMode = "Active"
	StudyPassive StudyMode = "Passive"
)

// StudentProfile — одна строка ростера. Даты храним строками в том виде,
// в каком они лежат в таблице (таблица — источник истины).
type StudentProfile struct {
	FullName        string
	Phone           string
	AdditionalPhone string
	Username        string
	DateOfBirth     string // DD/MM/YYYY
	AgeCategory     string // "20-29"
	Region          string
	StudyMode       StudyMode
	HWFrequency     string
	ReferralSource  string
	UniqueID        string
	TelegramID      int64
	RegisteredAt    string
	GroupNumber     string
}

const RegionOther = "Other"

// Regions — фиксированный список кнопок выбора региона (плюс Other).
var Regions = []string{
	"Andijan", "Bukhara", "Fergana", "Jizzakh", "Kashkadarya",
	"Karakalpakstan Republic", "Namangan", "Navoi", "Samarkand",
	"Sirdarya", "Surkhandarya", "Tashkent Region", "Tashkent City",
	"Khorezm", RegionOther,
}

var HWFrequencies = []string{"6 times per week"}

var ReferralSources = []string{
	"Previous courses",
	"Telegram Advertisement",
	"Recommended by friend",
	"Instagram Advertisement",
	"YouTube Videos",
}

func IsRegion(s string) bool {
	for _, r := range Regions {
		if r == s {
			return true
		}
	}
	return false
}

func IsReferralSource(s string) bool {
	for _, r := range ReferralSources {
		if r == s {
			return true
		}
	}
	return false
}

func IsHWFrequency(s string) bool {
	for _, f := range HWFrequencies {
		if f == s {
			return true
		}
	}
	return false
}
