package engagement

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := NewDate(2025, 7, 31)
	d2 := NewDate(2025, 7, 31)

	if d1.time() != d2.time() {
		// time.Time values are usually not comparable (there is a pointer for the timezone),
		// this checks that the property remains true.
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2021-01-15", NewDate(2021, time.January, 15), false},
		{"2021-7-1", NewDate(2021, time.July, 1), false},
		{" 2021-02-03 ", NewDate(2021, time.February, 3), false},
		{"2021-11-18 00:00:00", NewDate(2021, time.November, 18), false},
		{"2021-11-18T16:30:00", NewDate(2021, time.November, 18), false},
		{"2021-11-18T23:30:00-05:00", NewDate(2021, time.November, 18), false},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
		{"18/11/2021", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_Periods(t *testing.T) {
	tests := []struct {
		name  string
		day   Date
		p     Period
		start Date
		end   Date
	}{
		{"Daily", NewDate(2021, 2, 14), Daily, NewDate(2021, 2, 14), NewDate(2021, 2, 14)},
		{"Monthly", NewDate(2021, 2, 14), Monthly, NewDate(2021, 2, 1), NewDate(2021, 2, 28)},
		{"Monthly leap year", NewDate(2024, 2, 14), Monthly, NewDate(2024, 2, 1), NewDate(2024, 2, 29)},
		{"Monthly december", NewDate(2022, 12, 31), Monthly, NewDate(2022, 12, 1), NewDate(2022, 12, 31)},
		{"Yearly", NewDate(2022, 6, 30), Yearly, NewDate(2022, 1, 1), NewDate(2022, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.day.StartOf(tt.p); got != tt.start {
				t.Errorf("%v.StartOf(%v) = %v, want %v", tt.day, tt.p, got, tt.start)
			}
			if got := tt.day.EndOf(tt.p); got != tt.end {
				t.Errorf("%v.EndOf(%v) = %v, want %v", tt.day, tt.p, got, tt.end)
			}
			r := tt.p.Range(tt.day)
			if !r.Contains(tt.day) || r.From != tt.start || r.To != tt.end {
				t.Errorf("%v.Range(%v) = %v", tt.p, tt.day, r)
			}
		})
	}
}

func TestDate_MonthEndPlusOne(t *testing.T) {
	// the selection key of a signal month is the first day of the next month.
	for m := time.January; m <= time.December; m++ {
		end := NewDate(2022, m, 10).EndOf(Monthly)
		next := end.Add(1)
		if next.Day() != 1 || next != NewDate(2022, m+1, 1) {
			t.Errorf("%v + 1 day = %v, want the 1st of the next month", end, next)
		}
	}
}

func TestRange_Identifier(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{Monthly.Range(NewDate(2021, 2, 10)), "2021-02"},
		{Yearly.Range(NewDate(2021, 2, 10)), "2021"},
		{NewRange(NewDate(2021, 2, 10), NewDate(2021, 2, 10)), "2021-02-10"},
		{NewRange(NewDate(2021, 3, 1), NewDate(2021, 2, 10)), "2021-02-10_2021-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.r.Identifier(); got != tt.want {
				t.Errorf("%v.Identifier() = %q, want %q", tt.r, got, tt.want)
			}
		})
	}
}

func TestDate_Time(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tz database: %v", err)
	}
	d := NewDate(2021, 1, 4)
	if got := DateOf(d.Time(ny)); got != d {
		t.Errorf("DateOf(%v.Time(ny)) = %v", d, got)
	}
	if got := d.Time(nil); got.Location() != time.UTC {
		t.Errorf("Time(nil) location = %v, want UTC", got.Location())
	}
}

func TestDate_Encoding(t *testing.T) {
	type doc struct {
		On Date `json:"on" yaml:"day"`
	}
	want := NewDate(2021, 3, 1)

	var j doc
	if err := json.Unmarshal([]byte(`{"on":"2021-03-01"}`), &j); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if j.On != want {
		t.Errorf("json date = %v, want %v", j.On, want)
	}
	out, err := json.Marshal(j)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(out) != `{"on":"2021-03-01"}` {
		t.Errorf("json.Marshal() = %s", out)
	}

	var y doc
	if err := yaml.Unmarshal([]byte("day: 2021-03-01\n"), &y); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if y.On != want {
		t.Errorf("yaml date = %v, want %v", y.On, want)
	}
}
