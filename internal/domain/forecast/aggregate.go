package forecast

import (
	"fmt"
	"strconv"
	"time"
)

var (
	weekdayLabels = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}
	monthLabels   = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

// Aggregate folds readings into one summary per calendar date, in the order
// dates are first seen, plus a chart series derived 1:1 from the summaries.
// Weather and Rain come from the first reading of a date; later readings only
// widen the temperature range.
func Aggregate(fc Forecast) ([]DailySummary, []ChartPoint) {
	summaries := make([]DailySummary, 0, len(fc.Days))
	index := make(map[string]int)

	for _, group := range fc.Days {
		for _, r := range group {
			key := r.Time.Format(time.DateOnly)
			pos, seen := index[key]
			if !seen {
				index[key] = len(summaries)
				summaries = append(summaries, DailySummary{
					Date:        key,
					DateLabel:   dateLabel(r.Time),
					Day:         weekdayLabels[r.Time.Weekday()],
					Weather:     r.Weather,
					MinTemp:     r.Temperature,
					MaxTemp:     r.Temperature,
					Temp:        tempRange(r.Temperature, r.Temperature),
					Rain:        r.Humidity,
					PlantAdvice: DefaultPlantAdvice,
				})
				continue
			}
			day := &summaries[pos]
			if r.Temperature < day.MinTemp {
				day.MinTemp = r.Temperature
			}
			if r.Temperature > day.MaxTemp {
				day.MaxTemp = r.Temperature
			}
			day.Temp = tempRange(day.MinTemp, day.MaxTemp)
		}
	}

	chart := make([]ChartPoint, 0, len(summaries))
	for _, day := range summaries {
		chart = append(chart, ChartPoint{Day: day.Day, Rainfall: day.Rain, Temp: day.MaxTemp})
	}
	return summaries, chart
}

func tempRange(minTemp, maxTemp float64) string {
	return fmt.Sprintf("%s-%s°C", formatNumber(minTemp), formatNumber(maxTemp))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dateLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), monthLabels[t.Month()-1])
}
