package config

import (
	"testing"
	"time"

	kit "aardsync/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	forge := New().Prefix("CORE_").Prefix("FORGE_")
	if got := forge.key("TOKEN"); got != "CORE_FORGE_TOKEN" {
		t.Fatalf("key() = %q, want %q", got, "CORE_FORGE_TOKEN")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  aardsync ")
	if got := c.MustString("NAME"); got != "aardsync" {
		t.Fatalf("MustString = %q, want %q", got, "aardsync")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("P_")
	t.Setenv("P_PORT", "4000")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q, want %q", got, ":4000")
	}
	t.Setenv("P_COLON", ":8080")
	if got := c.MustPort("COLON"); got != ":8080" {
		t.Fatalf("MustPort with colon = %q", got)
	}
	t.Setenv("P_BAD", "abc")
	kit.MustPanic(t, func() { _ = c.MustPort("BAD") })
	t.Setenv("P_OOB", "70000")
	kit.MustPanic(t, func() { _ = c.MustPort("OOB") })
}

func TestMayValues(t *testing.T) {
	c := New().Prefix("M_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}

	t.Setenv("M_CHUNK", " 25 ")
	if got := c.MayInt("CHUNK", 50); got != 25 {
		t.Fatalf("MayInt = %d, want 25", got)
	}
	t.Setenv("M_BADINT", "x")
	if got := c.MayInt("BADINT", 50); got != 50 {
		t.Fatalf("MayInt bad -> default = %d", got)
	}

	t.Setenv("M_ON", "true")
	if !c.MayBool("ON", false) {
		t.Fatalf("MayBool true expected")
	}
	t.Setenv("M_BADBOOL", "nope")
	if c.MayBool("BADBOOL", false) {
		t.Fatalf("MayBool bad -> default false expected")
	}

	t.Setenv("M_TIMEOUT", "150ms")
	if got := c.MayDuration("TIMEOUT", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	t.Setenv("M_BADDUR", "soon")
	if got := c.MayDuration("BADDUR", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default expected")
	}
}

func TestMayURL(t *testing.T) {
	c := New().Prefix("U_")
	const def = "https://api.github.com"
	if got := c.MayURL("MISSING", def); got != def {
		t.Fatalf("MayURL default = %q", got)
	}
	t.Setenv("U_BASE", "https://ghe.example.com/api/v3/")
	if got := c.MayURL("BASE", def); got != "https://ghe.example.com/api/v3" {
		t.Fatalf("MayURL trimmed = %q", got)
	}
	t.Setenv("U_REL", "/relative")
	if got := c.MayURL("REL", def); got != def {
		t.Fatalf("MayURL relative -> default = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	t.Setenv("CSV_ORIGINS", " http://a, http://b , ,")
	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("MayCSV = %#v", got)
	}
	t.Setenv("CSV_EMPTY", " , ,")
	if got := c.MayCSV("EMPTY", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV all-empty -> default = %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "scan", "scan", "import"); got != "scan" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_MODE", "IMPORT")
	if got := c.MayEnum("MODE", "scan", "scan", "import"); got != "import" {
		t.Fatalf("MayEnum normalized = %q", got)
	}
	t.Setenv("E_BAD", "xml")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "scan", "scan", "import") })
}
