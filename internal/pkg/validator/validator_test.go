package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	valid := []int{1, 6, 12}
	invalid := []int{0, 13, -1}
	for _, m := range valid {
		if !IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = false, want true", m)
		}
	}
	for _, m := range invalid {
		if IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = true, want false", m)
		}
	}
}

func TestIsFourDigitYear(t *testing.T) {
	valid := []int{1000, 2024, 9999}
	invalid := []int{0, 999, 10000, -2024}
	for _, y := range valid {
		if !IsFourDigitYear(y) {
			t.Errorf("IsFourDigitYear(%d) = false, want true", y)
		}
	}
	for _, y := range invalid {
		if IsFourDigitYear(y) {
			t.Errorf("IsFourDigitYear(%d) = true, want false", y)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"all", "pending", "approved"}
	if !IsInSlice("pending", slice) {
		t.Errorf("IsInSlice(pending) = false, want true")
	}
	if IsInSlice("Pending", slice) {
		t.Errorf("IsInSlice(Pending) = true, want false")
	}
}

func TestAtoi(t *testing.T) {
	n, present, err := Atoi(" 7 ")
	if err != nil || !present || n != 7 {
		t.Errorf("Atoi(\" 7 \") = %d, %v, %v, want 7, true, nil", n, present, err)
	}

	n, present, err = Atoi("")
	if err != nil || present || n != 0 {
		t.Errorf("Atoi(\"\") = %d, %v, %v, want 0, false, nil", n, present, err)
	}

	if _, present, err = Atoi("abc"); err == nil || !present {
		t.Errorf("Atoi(\"abc\") should fail as a present value")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "month must be between 1 and 12"},
		{Field: "year", Message: "year must have four digits"},
	}
	if got := errs.Error(); got != "month: month must be between 1 and 12; year: year must have four digits" {
		t.Errorf("Error() = %q", got)
	}
	m := errs.ToMap()
	if m["year"] != "year must have four digits" {
		t.Errorf("ToMap()[year] = %q", m["year"])
	}
}
