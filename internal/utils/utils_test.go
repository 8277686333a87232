package utils

import "testing"

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"\t\n", ""},
		{"cat", "cat"},
		{"CAT", "cat"},
		{"  Cat  Pictures  ", "cat pictures"},
		{"how\tto\ntie a tie", "how to tie a tie"},
		{"c++ tutorial", "c++ tutorial"},
		{"naïve BAYES", "naïve bayes"},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tc := range cases {
		if got := FormatWithCommas(tc.in); got != tc.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidInput(t *testing.T) {
	valid := []string{"cat", "cat pictures", "c++ tutorial", "ab"}
	for _, s := range valid {
		if !IsValidInput(s) {
			t.Errorf("IsValidInput(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "12345", "aaaa", "wwww"}
	for _, s := range invalid {
		if IsValidInput(s) {
			t.Errorf("IsValidInput(%q) = true, want false", s)
		}
	}
}

func TestIsRepetitive(t *testing.T) {
	if IsRepetitive("aa") {
		t.Error("two characters should not count as repetitive")
	}
	if !IsRepetitive("aaa") {
		t.Error("aaa should count as repetitive")
	}
	if IsRepetitive("aab") {
		t.Error("aab is not repetitive")
	}
}
