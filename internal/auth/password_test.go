package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/educast/studio/internal/apperror"
)

// Cost 4 is the bcrypt minimum — fast enough for tests.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

// =========================================================================
// HASH / VERIFY TESTS
// =========================================================================

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("Secret@123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "Secret@123" {
		t.Fatal("Hash() must not return the plaintext")
	}

	if err := ps.Verify(hash, "Secret@123"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := ps.Verify(hash, "WrongPass@1"); err == nil {
		t.Error("Verify() with wrong password should fail")
	}
}

func TestHash_DifferentSalts(t *testing.T) {
	ps := newTestPasswordService()

	a, _ := ps.Hash("Secret@123")
	b, _ := ps.Hash("Secret@123")
	if a == b {
		t.Error("two hashes of the same password should differ (random salts)")
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

// =========================================================================
// POLICY TESTS
// =========================================================================

func TestCheckPolicy_Valid(t *testing.T) {
	for _, pw := range []string{"Admin@123", "User@123", "Str0ng!Passw0rd"} {
		if err := CheckPolicy(pw); err != nil {
			t.Errorf("CheckPolicy(%q) = %v, want nil", pw, err)
		}
	}
}

func TestCheckPolicy_WeakEnumeratesMissingClasses(t *testing.T) {
	err := CheckPolicy("abc")
	if err == nil {
		t.Fatal("CheckPolicy(\"abc\") should fail")
	}
	if !errors.Is(err, apperror.ErrUnprocessable) {
		t.Error("policy violations should map to ErrUnprocessable (422)")
	}

	msg := err.Error()
	for _, want := range []string{
		"at least 8 characters",
		"an uppercase letter",
		"a number",
		"a special character",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message should mention %q, got %q", want, msg)
		}
	}
	if strings.Contains(msg, "a lowercase letter") {
		t.Errorf("message should not flag lowercase (present in input): %q", msg)
	}
}

func TestCheckPolicy_SingleMissingClass(t *testing.T) {
	err := CheckPolicy("Password1") // no special character
	if err == nil {
		t.Fatal("expected a policy error")
	}
	if !strings.Contains(err.Error(), "a special character") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if strings.Contains(err.Error(), "uppercase") {
		t.Errorf("should only flag the missing class: %q", err.Error())
	}
}
