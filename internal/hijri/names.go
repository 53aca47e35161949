package hijri

import "fmt"

// MonthNames are the transliterated Hijri month names.
var MonthNames = [12]string{
	"al-Muḥarram",
	"Ṣafar",
	"Rabīʿ al-ʾAwwal",
	"Rabīʿ ath-Thānī",
	"Jumādā al-ʾŪlā",
	"Jumādā ath-Thāniyah",
	"Rajab",
	"Shaʿbān",
	"Ramaḍān",
	"Shawwāl",
	"Dhū al-Qaʿdah",
	"Dhū al-Ḥijjah",
}

// MonthNamesArabic are the month names in Arabic script.
var MonthNamesArabic = [12]string{
	"مُحَرَّم",
	"صَفَر",
	"رَبِيع الأَوَّل",
	"رَبِيع الثَّانِي",
	"جُمَادَىٰ الأُولَىٰ",
	"جُمَادَىٰ الآخِرَة",
	"رَجَب",
	"شَعْبَان",
	"رَمَضَان",
	"شَوَّال",
	"ذُو القَعْدَة",
	"ذُو الحِجَّة",
}

// WeekdayNames start on Sunday (al-ʾAḥad).
var WeekdayNames = [7]string{
	"al-ʾAḥad",
	"al-ʾIthnayn",
	"ath-Thulāthāʾ",
	"al-ʾArbiʿāʾ",
	"al-Khamīs",
	"al-Jumuʿah",
	"as-Sabt",
}

// MonthName returns the transliterated month name, or "" if out of range.
func (d Date) MonthName() string {
	if d.Month < 0 || d.Month >= len(MonthNames) {
		return ""
	}
	return MonthNames[d.Month]
}

// MonthNameArabic returns the month name in Arabic script.
func (d Date) MonthNameArabic() string {
	if d.Month < 0 || d.Month >= len(MonthNamesArabic) {
		return ""
	}
	return MonthNamesArabic[d.Month]
}

// WeekdayName returns the transliterated weekday name.
func (d Date) WeekdayName() string {
	if d.Weekday < 0 || d.Weekday >= len(WeekdayNames) {
		return ""
	}
	return WeekdayNames[d.Weekday]
}

// Format returns the date as "2 Ramaḍān 1445 AH".
func (d Date) Format() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, d.MonthName(), d.Year)
}

// Numeric returns the date as "DD-MM-YYYY" with a one-based month.
func (d Date) Numeric() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, d.Month+1, d.Year)
}

func (d Date) String() string {
	return d.WeekdayName() + ", " + d.Format()
}
