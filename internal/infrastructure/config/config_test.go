package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != DriverMongo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.Redis.TTL != time.Hour {
		t.Fatalf("unexpected durations: token=%v summary=%v", cfg.TokenTTL, cfg.Redis.TTL)
	}
	if !cfg.Redis.Enabled || cfg.Rollup.Workers != 4 {
		t.Fatalf("unexpected redis/rollup defaults: %+v %+v", cfg.Redis, cfg.Rollup)
	}
	wd, err := cfg.Weekday()
	if err != nil || wd != time.Sunday {
		t.Fatalf("expected sunday, got %v (%v)", wd, err)
	}
	roles := cfg.Roles().Roles()
	want := []string{domain.RoleEmployee, domain.RolePartTime, domain.RoleTemporary}
	if len(roles) != len(want) {
		t.Fatalf("expected %v, got %v", want, roles)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, roles)
		}
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"WEEK_START":     "Mon",
		"ROLE_ORDER":     "temporary, employee",
		"STORE_DRIVER":   "postgres",
		"REDIS_ENABLED":  "false",
		"ROLLUP_WORKERS": "2",
		"ENV":            "Production",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if wd, _ := cfg.Weekday(); wd != time.Monday {
		t.Fatalf("expected monday, got %v", wd)
	}
	if cfg.Roles().Compare(domain.RoleTemporary, domain.RoleEmployee) != -1 {
		t.Fatalf("expected temporary first, got %v", cfg.Roles().Roles())
	}
	if cfg.StoreDriver != DriverPostgres || cfg.Redis.Enabled || cfg.Rollup.Workers != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "s", "STORE_DRIVER": "sqlite"},
		"bad weekday":    {"JWT_SECRET": "s", "WEEK_START": "someday"},
		"empty roles":    {"JWT_SECRET": "s", "ROLE_ORDER": " , "},
		"no workers":     {"JWT_SECRET": "s", "ROLLUP_WORKERS": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
