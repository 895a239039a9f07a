package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("encoded = %q, want PHC argon2id format", encoded)
	}

	ok, err := VerifyPassword("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("matching password rejected")
	}

	ok, err = VerifyPassword("wrong password", encoded)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password must differ by salt")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("pw", encoded); err == nil {
			t.Errorf("malformed hash %q accepted", encoded)
		}
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	ok, err := VerifyPassword("", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA")
	if err != nil || ok {
		t.Errorf("empty password: ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("pw", "")
	if err != nil || ok {
		t.Errorf("empty hash: ok=%v err=%v", ok, err)
	}
}

func TestConfigureArgon2Validation(t *testing.T) {
	saved := argonParams
	defer func() { argonParams = saved }()

	if err := ConfigureArgon2(Argon2Config{SaltLength: 4}); err == nil {
		t.Error("salt length below 8 must be rejected")
	}
	if err := ConfigureArgon2(Argon2Config{KeyLength: 8}); err == nil {
		t.Error("key length below 16 must be rejected")
	}

	if err := ConfigureArgon2(Argon2Config{Memory: 32 * 1024, Iterations: 2}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if argonParams.Memory != 32*1024 || argonParams.Iterations != 2 {
		t.Errorf("overrides not applied: %+v", argonParams)
	}
	if argonParams.Parallelism != saved.Parallelism {
		t.Errorf("zero field must keep its default")
	}

	encoded, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.Contains(encoded, "m=32768,t=2,") {
		t.Errorf("configured parameters not encoded: %q", encoded)
	}
}
