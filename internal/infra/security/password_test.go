package security

import "testing"

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		inputs   []string
		wantErr  bool
	}{
		{name: "too short", password: "Ab1!", wantErr: true},
		{name: "common word", password: "password", wantErr: true},
		{name: "derived from email", password: "juan@example.com1", inputs: []string{"Juan Dela Cruz", "juan@example.com"}, wantErr: true},
		{name: "strong passphrase", password: "kalayaan-bayanihan-1898", wantErr: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password, tc.inputs...)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, wantErr %v", tc.password, err, tc.wantErr)
			}
		})
	}
}
