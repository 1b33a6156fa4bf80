package analytics

import "time"

var (
	dayNames   = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	dayNamesTr = [7]string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}
)

// DayCount is one weekday bucket.
type DayCount struct {
	Day       int    `json:"day"`
	DayName   string `json:"dayName"`
	DayNameTr string `json:"dayNameTr"`
	Count     int    `json:"count"`
}

// Frequency is the writing distribution over weekdays, Sunday first.
type Frequency struct {
	Days       [7]DayCount
	MostActive int
}

func (f Frequency) MostActiveName() string   { return dayNames[f.MostActive] }
func (f Frequency) MostActiveNameTr() string { return dayNamesTr[f.MostActive] }

// WeekdayFrequency buckets distinct entry dates by weekday. Ties for the most
// active day go to the lowest weekday index.
func WeekdayFrequency(dates []time.Time) Frequency {
	var f Frequency
	for i := range f.Days {
		f.Days[i] = DayCount{Day: i, DayName: dayNames[i], DayNameTr: dayNamesTr[i]}
	}
	for _, d := range DistinctDescending(dates) {
		f.Days[int(d.Weekday())].Count++
	}
	for i := 1; i < len(f.Days); i++ {
		if f.Days[i].Count > f.Days[f.MostActive].Count {
			f.MostActive = i
		}
	}
	return f
}
