package credentials

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestDatabasePasswordRoundTrip(t *testing.T) {
	keyring.MockInit()

	if err := SetDatabasePassword("hunter2-but-longer"); err != nil {
		t.Fatalf("SetDatabasePassword: %v", err)
	}

	got, err := DatabasePassword()
	if err != nil {
		t.Fatalf("DatabasePassword: %v", err)
	}
	if got != "hunter2-but-longer" {
		t.Errorf("DatabasePassword() = %q", got)
	}

	if err := DeleteDatabasePassword(); err != nil {
		t.Fatalf("DeleteDatabasePassword: %v", err)
	}

	_, err = DatabasePassword()
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials after delete, got %v", err)
	}
}

func TestDatabasePasswordEnvOverride(t *testing.T) {
	keyring.MockInit()
	t.Setenv("SITEBOOK_DB_PASSWORD", "from-env")

	if err := SetDatabasePassword("from-keyring"); err != nil {
		t.Fatalf("SetDatabasePassword: %v", err)
	}

	got, err := DatabasePassword()
	if err != nil {
		t.Fatalf("DatabasePassword: %v", err)
	}
	if got != "from-env" {
		t.Errorf("DatabasePassword() = %q, want env value", got)
	}
}

func TestDeleteDatabasePasswordWhenMissing(t *testing.T) {
	keyring.MockInit()

	if err := DeleteDatabasePassword(); err != nil {
		t.Errorf("deleting a missing password should not error: %v", err)
	}
}

func TestMaskCredential(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"12345678", "********"},
		{"supersecretvalue", "supe********alue"},
	}

	for _, tt := range tests {
		if got := MaskCredential(tt.in); got != tt.want {
			t.Errorf("MaskCredential(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
