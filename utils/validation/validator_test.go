package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.example.co",
		"a@b.io",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("longenough1"); !ok {
		t.Errorf("valid password rejected")
	}
	if ok, errs := ValidatePassword("short"); ok || len(errs) == 0 {
		t.Errorf("short password accepted")
	}
	if ok, errs := ValidatePassword("12345678"); ok || len(errs) == 0 {
		t.Errorf("all-digit password accepted")
	}
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Age   int    `validate:"gte=18"`
	}

	v := NewValidator()
	if err := v.ValidateStruct(form{Email: "user@example.com", Age: 21}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	err := v.ValidateStruct(form{Email: "nope", Age: 12})
	if err == nil {
		t.Fatalf("invalid struct accepted")
	}
	formatted := FormatValidationErrors(err)
	if formatted["email"] == "" || formatted["age"] == "" {
		t.Fatalf("formatted errors missing fields: %v", formatted)
	}
}
