package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/leveladj/internal/autolevel"
	"github.com/linuxmatters/leveladj/internal/cli"
	"github.com/linuxmatters/leveladj/internal/cxadc"
	"github.com/linuxmatters/leveladj/internal/logging"
	"github.com/linuxmatters/leveladj/internal/mains"
	"github.com/linuxmatters/leveladj/internal/ui"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	TenBit   bool          `short:"b" name:"tenbit" env:"LEVELADJ_TENBIT" help:"Sample in 16-bit mode (10-bit data)"`
	Tenxfsc  int           `short:"x" name:"tenxfsc" env:"LEVELADJ_TENXFSC" placeholder:"n" help:"Sample rate selector, see below"`
	Graph    bool          `short:"g" env:"LEVELADJ_GRAPH" help:"Plot the level search and keep monitoring"`
	Version  bool          `short:"v" help:"Show version information"`
	Device   string        `default:"/dev/cxadc0" env:"LEVELADJ_DEVICE" placeholder:"path" help:"Sample device"`
	Sysfs    string        `default:"/sys/module/cxadc/parameters" env:"LEVELADJ_SYSFS" placeholder:"dir" help:"Driver parameter directory"`
	Samples  int           `default:"2097152" env:"LEVELADJ_SAMPLES" placeholder:"bytes" help:"Bytes read per tested level"`
	Start    int           `default:"20" env:"LEVELADJ_START" placeholder:"level" help:"Level the search starts from"`
	Pace     time.Duration `default:"100ms" env:"LEVELADJ_PACE" placeholder:"duration" help:"Delay between plotted points in graphical mode"`
	DebugLog string        `type:"path" env:"LEVELADJ_DEBUG_LOG" placeholder:"file" help:"Append a debug log to this file"`
	Level    *int          `arg:"" optional:"" help:"Set this level (0-31) and exit without sampling"`
}

// Validate checks option ranges that kong cannot express with tags
func (c *CLI) Validate() error {
	if c.Tenxfsc < 0 || c.Tenxfsc > 2 {
		return errors.Errorf("tenxfsc must be 0, 1 or 2, got %d", c.Tenxfsc)
	}
	if c.Level != nil {
		if err := autolevel.CheckLevel(*c.Level); err != nil {
			return err
		}
	}
	return c.searchConfig().Validate()
}

func (c *CLI) depth() autolevel.BitDepth {
	if c.TenBit {
		return autolevel.TenBit
	}
	return autolevel.EightBit
}

func (c *CLI) searchConfig() autolevel.Config {
	return autolevel.Config{
		Depth:  c.depth(),
		Budget: c.Samples,
		Start:  c.Start,
	}
}

// inheritParams takes tenbit and tenxfsc from the driver's current settings
func (c *CLI) inheritParams(p cxadc.Params) error {
	tenbit, err := p.ReadParam(autolevel.ParamTenBit)
	if err != nil {
		return err
	}
	tenxfsc, err := p.ReadParam(autolevel.ParamTenxfsc)
	if err != nil {
		return err
	}
	c.TenBit = tenbit != 0
	c.Tenxfsc = tenxfsc
	return nil
}

func newParser(cliArgs *CLI, extra ...kong.Option) (*kong.Kong, error) {
	options := []kong.Option{
		kong.Name("leveladj"),
		kong.Description("Automatic gain level search for cxadc capture cards"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "/etc/leveladj.json", "~/.config/leveladj.json"),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	}
	return kong.New(cliArgs, append(options, extra...)...)
}

func main() {
	cliArgs := &CLI{}
	parser, err := newParser(cliArgs)
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(os.Stdout, version)
		os.Exit(0)
	}

	device := cxadc.Device{Path: cliArgs.Device}
	params := cxadc.Params{Dir: cliArgs.Sysfs}

	if err := device.Probe(); err != nil {
		fail(err)
	}

	// A bare invocation keeps the capture mode the driver is already in
	if len(os.Args) == 1 {
		if err := cliArgs.inheritParams(params); err != nil {
			fail(err)
		}
	}

	if cliArgs.Graph && cliArgs.Level == nil {
		if err := ui.CheckTerminal(int(os.Stdout.Fd())); err != nil {
			fail(err)
		}
	}

	logger, closeLog, err := logging.NewLogger(cliArgs.DebugLog)
	if err != nil {
		fail(errors.Wrap(err, "open debug log"))
	}
	defer closeLog()

	if err := autolevel.Configure(params, cliArgs.depth(), cliArgs.Tenxfsc); err != nil {
		fail(err)
	}

	if cliArgs.Level != nil {
		if err := autolevel.ApplyLevel(params, *cliArgs.Level); err != nil {
			fail(err)
		}
		logger.Info("level set", "level", *cliArgs.Level)
		cli.PrintSuccess(os.Stdout, fmt.Sprintf("level set to %d", *cliArgs.Level))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	region := mains.Local().String()
	if cliArgs.Graph {
		err = runGraph(ctx, cliArgs, device, params, region, logger)
	} else {
		err = runText(ctx, cliArgs, device, params, region, logger)
	}
	if err != nil {
		closeLog()
		fail(err)
	}
}

// runText prints one line per tested level and a summary at the end
func runText(ctx context.Context, c *CLI, device cxadc.Device, params cxadc.Params, region string, logger *slog.Logger) error {
	console := logging.NewConsole(os.Stdout, c.depth(), c.Samples)
	start := time.Now()

	res, err := autolevel.Run(ctx, c.searchConfig(), params, device, autolevel.Options{
		OnEvent: console.Observe,
		Logger:  logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	console.WriteSummary(logging.Summary{
		Device:  device.Path,
		Tenxfsc: c.Tenxfsc,
		Region:  region,
		Result:  res,
		Elapsed: time.Since(start),
	})
	return err
}

type searchOutcome struct {
	result autolevel.Result
	err    error
}

// runGraph plots the search and keeps monitoring until the user quits
func runGraph(ctx context.Context, c *CLI, device cxadc.Device, params cxadc.Params, region string, logger *slog.Logger) error {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewGraphModel(device.Path, c.depth(), region, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan searchOutcome, 1)
	go func() {
		res, err := autolevel.Run(searchCtx, c.searchConfig(), params, device, autolevel.Options{
			Monitor: true,
			Pace:    c.Pace,
			OnEvent: func(e autolevel.Event) {
				p.Send(ui.SampleMsg{Event: e})
			},
			Logger: logger,
		})
		done <- searchOutcome{result: res, err: err}
		p.Send(ui.SearchDoneMsg{Result: res, Error: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return errors.Wrap(err, "UI error")
	}

	// The program also ends when the user quits, so stop sampling and
	// wait for the device handle to be released.
	cancel()
	out := <-done

	// Quitting is how graphical mode normally ends
	if out.err != nil && !errors.Is(out.err, context.Canceled) {
		return out.err
	}

	cli.PrintResult(os.Stdout, device.Path, out.result)
	return nil
}

func fail(err error) {
	cli.PrintError(err.Error())
	os.Exit(1)
}
