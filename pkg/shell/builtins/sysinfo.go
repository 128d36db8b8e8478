package builtins

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
	"github.com/praetorian-inc/conch/version"
)

const mib = 1024 * 1024

// SysInfo reports on the process running the shell.
type SysInfo struct {
	base
}

func NewSysInfo() *SysInfo {
	opts := option.NewOptions().MustAddGroup(option.NewGroup(
		option.Long("props", "Show system properties."),
		option.Long("mem", "Show memory usage."),
		option.Long("go", "Show Go runtime information."),
	))
	return &SysInfo{base{
		descriptor: registry.Descriptor{
			Namespace:   Namespace,
			Name:        "sysinfo",
			Description: "Display system information.",
		},
		options: opts,
	}}
}

func (s *SysInfo) Execute(_ context.Context, c *console.Console, parsed *option.ParsedOptions) error {
	all := !parsed.HasOptions()
	if all || parsed.HasOption("props") {
		s.props(c)
	}
	if all || parsed.HasOption("mem") {
		s.mem(c)
	}
	if all || parsed.HasOption("go") {
		s.goRuntime(c)
	}
	return nil
}

func (s *SysInfo) props(c *console.Console) {
	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	printProperties(c, "System properties", [][2]string{
		{"os", runtime.GOOS},
		{"arch", runtime.GOARCH},
		{"hostname", hostname},
		{"pid", itoa(uint64(os.Getpid()))},
		{"home", home},
		{"working dir", c.WorkingDir()},
		{"encoding", valueOr(c.Encoding(), "UTF-8")},
		{"version", version.AbbreviatedVersion()},
	})
}

func (s *SysInfo) mem(c *console.Console) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	printProperties(c, "Memory", [][2]string{
		{"heap alloc", itoa(m.HeapAlloc/mib) + " MiB"},
		{"total alloc", itoa(m.TotalAlloc/mib) + " MiB"},
		{"sys", itoa(m.Sys/mib) + " MiB"},
		{"gc cycles", itoa(uint64(m.NumGC))},
	})
}

func (s *SysInfo) goRuntime(c *console.Console) {
	printProperties(c, "Go runtime", [][2]string{
		{"version", runtime.Version()},
		{"cpus", itoa(uint64(runtime.NumCPU()))},
		{"gomaxprocs", itoa(uint64(runtime.GOMAXPROCS(0)))},
		{"goroutines", itoa(uint64(runtime.NumGoroutine()))},
	})
}

func printProperties(c *console.Console, title string, props [][2]string) {
	c.Println(title + ":")
	width := 0
	for _, p := range props {
		width = max(width, len(p[0]))
	}
	for _, p := range props {
		c.Printf("  %-*s  %s\n", width, p[0], p[1])
	}
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
