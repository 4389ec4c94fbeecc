package domain

import "testing"

func TestIsHighIntent(t *testing.T) {
	cases := []struct {
		name   string
		size   CompanySize
		budget bool
		want   bool
	}{
		{"small company no budget", CompanySize1To10, false, false},
		{"mid company no budget", CompanySize11To50, false, false},
		{"unknown size no budget", CompanySizeUnknown, false, false},
		{"51-200 no budget", CompanySize51To200, false, true},
		{"200+ no budget", CompanySize200Plus, false, true},
		{"small company with budget", CompanySize1To10, true, true},
		{"unknown size with budget", CompanySizeUnknown, true, true},
		{"200+ with budget", CompanySize200Plus, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsHighIntent(tc.size, tc.budget)
			if got != tc.want {
				t.Fatalf("IsHighIntent(%q, %v) = %v, want %v", tc.size, tc.budget, got, tc.want)
			}
		})
	}
}

func TestNormalizeCompanySize(t *testing.T) {
	cases := []struct {
		input string
		want  CompanySize
	}{
		{"1-10", CompanySize1To10},
		{"11-50", CompanySize11To50},
		{"51-200", CompanySize51To200},
		{"200+", CompanySize200Plus},
		{"unknown", CompanySizeUnknown},
		{"", CompanySizeUnknown},
		{"enterprise", CompanySizeUnknown},
		{"10-50", CompanySizeUnknown},
	}

	for _, tc := range cases {
		got := NormalizeCompanySize(tc.input)
		if got != tc.want {
			t.Fatalf("NormalizeCompanySize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestValidLeadType(t *testing.T) {
	if !ValidLeadType("business_upgrade") || !ValidLeadType("venture_studio") {
		t.Fatal("expected known lead types to be valid")
	}
	if ValidLeadType("") || ValidLeadType("enterprise") {
		t.Fatal("expected unknown lead types to be invalid")
	}
}
