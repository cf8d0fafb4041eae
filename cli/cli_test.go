package cli

import (
	"bytes"
	"strings"
	"testing"

	"cayo/config"

	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	out, err := run(t, "hash-password", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	digest := strings.TrimSpace(out)
	if bcrypt.CompareHashAndPassword([]byte(digest), []byte("hunter22")) != nil {
		t.Fatalf("digest %q does not match", digest)
	}
}

func TestAccountCreateGeneratesPassword(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")

	out, err := run(t, "account", "create", "--username", "agent7", "--rate", "0.05")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "created agent agent7") || !strings.Contains(out, "password: ") {
		t.Fatalf("output = %q", out)
	}

	if _, err := run(t, "account", "create", "--username", "x", "--role", "owner"); err == nil {
		t.Fatal("unknown role accepted")
	}
	if _, err := run(t, "account", "create", "--username", "y", "--rate", "2"); err == nil {
		t.Fatal("rate above 1 accepted")
	}
}

func TestServeRefusesDefaultSecretOutsideLocal(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", config.DefaultJWTSecret)
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	_, err := run(t, "serve")
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("err = %v", err)
	}
}
