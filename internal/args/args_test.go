package args

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ko10ok/doq/internal/config"
)

func TestParseFlagsAppearAnywhere(t *testing.T) {
	argv := []string{"-i", "hello", "--llm=openai", "world", "--dry-run"}

	a, err := Parse(argv, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !a.Interactive || !a.DryRun {
		t.Errorf("flags = %+v", a)
	}
	if a.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", a.Provider)
	}
	if !reflect.DeepEqual(a.Query, []string{"hello", "world"}) {
		t.Errorf("Query = %v", a.Query)
	}
	if !reflect.DeepEqual(a.Raw, argv) {
		t.Errorf("Raw = %v, want verbatim argv", a.Raw)
	}
}

func TestParseDefaultProviderFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "deepseek"

	a, err := Parse([]string{"hello"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Provider != "deepseek" {
		t.Errorf("Provider = %q, want deepseek", a.Provider)
	}
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"--help"}, config.Default())
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("err = %v, want ErrHelp", err)
	}
}

func TestParseNoArguments(t *testing.T) {
	_, err := Parse(nil, config.Default())
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("err = %v, want ErrUsage", err)
	}
}

func TestParseUnrecognizedFlagBecomesQueryText(t *testing.T) {
	a, err := Parse([]string{"--frobnicate", "hello", "-x"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Query, []string{"--frobnicate", "hello", "-x"}) {
		t.Errorf("Query = %v, want unrecognized tokens kept verbatim", a.Query)
	}
}
