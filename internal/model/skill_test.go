package model

import "testing"

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Tech", true},
		{"Arts", true},
		{"Academic", true},
		{"Life Skills", true},
		{"tech", false},
		{"Cooking", false},
		{"", false},
		{"All", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseCategory(%q) unexpected error: %v", tc.in, err)
		}
		if tc.ok && string(got) != tc.in {
			t.Errorf("ParseCategory(%q) = %q", tc.in, got)
		}
		if !tc.ok && err != ErrInvalidEnum {
			t.Errorf("ParseCategory(%q) expected ErrInvalidEnum, got %v", tc.in, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"Offering", "Seeking"} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"offering", "Both", "", "All"} {
		if _, err := ParseKind(invalid); err != ErrInvalidEnum {
			t.Errorf("ParseKind(%q) expected ErrInvalidEnum, got %v", invalid, err)
		}
	}
}

func TestParseSkillStatus(t *testing.T) {
	for _, valid := range []string{"active", "withdrawn"} {
		if _, err := ParseSkillStatus(valid); err != nil {
			t.Errorf("ParseSkillStatus(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"Active", "deleted", ""} {
		if _, err := ParseSkillStatus(invalid); err != ErrInvalidEnum {
			t.Errorf("ParseSkillStatus(%q) expected ErrInvalidEnum, got %v", invalid, err)
		}
	}
}

func TestUserPublicDropsEmail(t *testing.T) {
	u := User{ID: 7, Name: "Maya", Email: "maya@example.edu", University: "State", Location: "Berlin"}
	p := u.Public()
	if p.ID != 7 || p.Name != "Maya" || p.University != "State" || p.Location != "Berlin" {
		t.Fatalf("Public() lost fields: %+v", p)
	}
}
