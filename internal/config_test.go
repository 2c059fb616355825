package internal_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zephyrtronium/sbx"
)

func TestParseConfig(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want sbx.Config
		err  bool
	}{
		"Empty": {"", sbx.DefaultConfig(), false},
		"Partial": {
			"dump_depth: 3\nlog_level: debug\n",
			sbx.Config{Locale: "en", DumpDepth: 3, DateFormat: "%Y-%m-%d %H:%M:%S", LogLevel: "debug"},
			false,
		},
		"Full": {
			"locale: de\ndump_depth: 20\ndate_format: '%d.%m.%Y'\nlog_level: error\n",
			sbx.Config{Locale: "de", DumpDepth: 20, DateFormat: "%d.%m.%Y", LogLevel: "error"},
			false,
		},
		"Unknown":  {"color: blue\n", sbx.Config{}, true},
		"BadValue": {"dump_depth: deep\n", sbx.Config{}, true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := sbx.ParseConfig(strings.NewReader(c.doc))
			if (err != nil) != c.err {
				t.Fatalf("wrong error: wanted error %t, got %v", c.err, err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("wrong config (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	sbx.Names()
	t.Cleanup(func() { sbx.Configure(sbx.DefaultConfig()) })
	cases := map[string]struct {
		edit func(*sbx.Config)
		err  bool
	}{
		"Default":    {func(c *sbx.Config) {}, false},
		"Depth":      {func(c *sbx.Config) { c.DumpDepth = 0 }, true},
		"Level":      {func(c *sbx.Config) { c.LogLevel = "loud" }, true},
		"Locale":     {func(c *sbx.Config) { c.Locale = "not a tag!" }, true},
		"OtherNames": {func(c *sbx.Config) { c.Locale = "de" }, true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := sbx.DefaultConfig()
			c.edit(&cfg)
			err := sbx.Configure(cfg)
			if (err != nil) != c.err {
				t.Errorf("wrong error: wanted error %t, got %v", c.err, err)
			}
		})
	}
}
