package config

import (
	"testing"
	"time"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(lookup(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Addr != ":3000" || c.DBDriver != "sqlite3" || c.JWTSecret != DevSecret {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.TokenTTL != 14*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 14 days", c.TokenTTL)
	}
	if c.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", c.RequestTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(lookup(map[string]string{
		"DB_DRIVER":        "pgx",
		"DATABASE_URL":     "postgres://localhost/conduit",
		"JWT_EXPIRES_DAYS": "0",
		"DIAG_ADDR":        "-",
		"LOG_FORMAT":       "console",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.TokenTTL != 0 {
		t.Errorf("TokenTTL = %v, want 0 (non-expiring)", c.TokenTTL)
	}
	if c.DiagAddr != "" {
		t.Errorf("DiagAddr = %q, want disabled", c.DiagAddr)
	}
	if c.DBDriver != "pgx" || c.DatabaseURL != "postgres://localhost/conduit" {
		t.Errorf("db settings not applied: %+v", c)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"days":    {"JWT_EXPIRES_DAYS": "two"},
		"neg":     {"JWT_EXPIRES_DAYS": "-1"},
		"timeout": {"REQUEST_TIMEOUT": "soon"},
		"driver":  {"DB_DRIVER": "mysql"},
		"format":  {"LOG_FORMAT": "xml"},
	}
	for name, env := range cases {
		if _, err := FromEnv(lookup(env)); err == nil {
			t.Errorf("%s: expected error for %v", name, env)
		}
	}
}
