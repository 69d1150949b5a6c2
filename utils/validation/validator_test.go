package validation

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"98765 43210", "9876543210"},
		{"98765-43210", "9876543210"},
		{"(98765) 43210", "9876543210"},
		{"  +919876543210  ", "+919876543210"},
		{"9 8-7(6)5 4 3 2 1 0", "9876543210"},
	}

	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "12345678901234567890"}
	for _, phone := range valid {
		if ok, msg := ValidatePhone(phone); !ok {
			t.Errorf("ValidatePhone(%q) rejected: %s", phone, msg)
		}
	}

	invalid := []string{"", "12345", "987654321", "98765abcde", "123456789012345678901"}
	for _, phone := range invalid {
		if ok, _ := ValidatePhone(phone); ok {
			t.Errorf("ValidatePhone(%q) accepted, want rejection", phone)
		}
	}
}

func TestValidateSchoolCode(t *testing.T) {
	valid := []string{"DPS", "dps-01", "SCHOOL_2024", "a"}
	for _, code := range valid {
		if ok, msg := ValidateSchoolCode(code); !ok {
			t.Errorf("ValidateSchoolCode(%q) rejected: %s", code, msg)
		}
	}

	long := make([]byte, SchoolCodeMaxLength+1)
	for i := range long {
		long[i] = 'A'
	}
	invalid := []string{"", "DPS 01", "DPS#1", string(long)}
	for _, code := range invalid {
		if ok, _ := ValidateSchoolCode(code); ok {
			t.Errorf("ValidateSchoolCode(%q) accepted, want rejection", code)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"admin@school.edu", "a.b+c@example.co.in"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{"", "no-at-sign", "@example.com", "user@", "user@host"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePinCode(t *testing.T) {
	if !ValidatePinCode("462001") {
		t.Error("ValidatePinCode rejected a valid 6-digit pin")
	}
	for _, pin := range []string{"", "1234", "12345678901", "46200a"} {
		if ValidatePinCode(pin) {
			t.Errorf("ValidatePinCode(%q) = true, want false", pin)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("secret"); !ok {
		t.Error("ValidatePassword rejected a 6-character password")
	}
	if ok, _ := ValidatePassword("12345"); ok {
		t.Error("ValidatePassword accepted a 5-character password")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeString = %q, want %q", got, "helloworld")
	}
}
