package validate

import "testing"

func TestNationalID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"123456789", false},
		{"123456782", true},
		{"000000018", true},
		{"000000000", true},
		{"12345678", false},
		{"1234567890", false},
		{"12345678a", false},
		{" 123456782 ", true},
		{"", false},
	}

	for _, tc := range cases {
		if got := NationalID(tc.in); got != tc.want {
			t.Errorf("NationalID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNationalIDMatchesChecksumForAllSingleDigitChanges(t *testing.T) {
	// Changing a single digit of a valid ID always breaks the checksum.
	valid := []byte("123456782")
	for i := range valid {
		for d := byte('0'); d <= '9'; d++ {
			if d == valid[i] {
				continue
			}
			mutated := append([]byte(nil), valid...)
			mutated[i] = d
			if NationalID(string(mutated)) {
				t.Fatalf("NationalID(%q) unexpectedly valid", mutated)
			}
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0501234567", true},
		{"0541234567", true},
		{"501234567", false},
		{"0401234567", false},
		{"05012345678", false},
		{"050-1234567", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := Phone(tc.in); got != tc.want {
			t.Errorf("Phone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Dana", true},
		{"דנה", true},
		{"Ben David", true},
		{"א", false},
		{"J", false},
		{"  J  ", false},
		{"R2D2", false},
		{"O'Neil", false},
		{"", false},
		{"יוסי כהן", true},
		{"mixed שם", true},
	}

	for _, tc := range cases {
		if got := Name(tc.in); got != tc.want {
			t.Errorf("Name(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"buyer@example.com", true},
		{"a@b.co", true},
		{"buyer@example", false},
		{"buyer example.com", false},
		{"@example.com", false},
	}

	for _, tc := range cases {
		if got := Email(tc.in); got != tc.want {
			t.Errorf("Email(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAddress(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Herzl 12", true},
		{"רחוב הרצל 12", true},
		{"Herzl", false},
		{"   ", false},
	}

	for _, tc := range cases {
		if got := Address(tc.in); got != tc.want {
			t.Errorf("Address(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompanyID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"514123456", true},
		{"51412345", false},
		{"5141234567", false},
		{"51412345x", false},
	}

	for _, tc := range cases {
		if got := CompanyID(tc.in); got != tc.want {
			t.Errorf("CompanyID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
