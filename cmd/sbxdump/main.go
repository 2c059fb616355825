// Command sbxdump prints the contents of files holding stored sbx records.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zephyrtronium/sbx"
	// import for side effects
	_ "github.com/zephyrtronium/sbx/coreext"
)

func main() {
	var config string
	var depth int
	var fill bool
	flag.StringVar(&config, "config", "", "YAML file with runtime settings")
	flag.IntVar(&depth, "depth", 0, "maximum object nesting to print (overrides the config)")
	flag.BoolVar(&fill, "fill", false, "print property values")
	flag.Parse()
	if flag.NArg() == 0 {
		fail("usage: sbxdump [flags] file...")
	}

	c := sbx.DefaultConfig()
	if config != "" {
		f, err := os.Open(config)
		if err != nil {
			fail("error opening config:", err)
		}
		c, err = sbx.ParseConfig(f)
		f.Close()
		if err != nil {
			fail(err)
		}
	}
	if depth > 0 {
		c.DumpDepth = depth
	}
	if err := sbx.Configure(c); err != nil {
		fail(err)
	}

	status := 0
	for _, name := range flag.Args() {
		if err := dump(name, fill); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			status = 1
		}
	}
	os.Exit(status)
}

// dump loads each record in a file and prints it.
func dump(name string, fill bool) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	s := sbx.NewStream(f)
	for s.Tell() < info.Size() {
		v, err := sbx.Load(s)
		if err != nil {
			return err
		}
		if o := sbx.AsObject(v); o != nil {
			err = o.Dump(os.Stdout, fill)
		} else {
			b := sbx.Base(v)
			_, err = fmt.Printf("%s = %v\n", b.ShortName(), b.Peek())
		}
		sbx.Base(v).Release()
		if err != nil {
			return err
		}
	}
	return s.Err()
}

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}
