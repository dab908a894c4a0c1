package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rgupta/uaftctl/adb"
	"github.com/rgupta/uaftctl/cmdfile"
	"github.com/rgupta/uaftctl/config"
	"github.com/rgupta/uaftctl/insights"
	"github.com/rgupta/uaftctl/uaft"
	"github.com/rgupta/uaftctl/utils"
)

// Options holds all the configuration values from command line arguments.
type Options struct {
	UAFTPath     string `json:"uaft_path"`
	InsightsPath string `json:"insights_path"`
	Serial       string `json:"serial"`
	IP           string `json:"ip"`
	Port         string `json:"port"`
	Package      string `json:"package"`
	Token        string `json:"token"`
	PullDir      string `json:"pull_dir"`
	TraceArgs    string `json:"trace_args"`
	TraceHost    string `json:"trace_host"`

	ListDevices  bool   `json:"list_devices"`
	ListPackages bool   `json:"list_packages"`
	Push         bool   `json:"push"`
	ListTraces   bool   `json:"list_traces"`
	Pull         string `json:"pull"`
	Open         string `json:"open"`
	OpenAfter    bool   `json:"open_after_pull"`

	JSON  bool `json:"json"`
	Debug bool `json:"debug"`
}

var rootCmd = &cobra.Command{
	Use:   "uaftctl",
	Short: "uaftctl - drive UnrealAndroidFileTool for on-device tracing",
	Long: `uaftctl drives UnrealAndroidFileTool (UAFT) to configure Unreal Insights
tracing on a connected Android device and to pull the resulting
.trace/.utrace files back to this machine. The packaged build must include
Android File Server (AFS) and be installed on the device.`,
	Example: `  # List devices UAFT can see
  uaftctl --uaft /path/to/UnrealAndroidFileTool --list-devices

  # List packages exposing the AFS receiver on a device
  uaftctl --list-packages -s R58M12ABCDE

  # Generate UECommandLine.txt from the default template and push it
  uaftctl --push -s R58M12ABCDE -p com.company.game -k mytoken

  # List traces under ^saved/Traces
  uaftctl --list-traces -s R58M12ABCDE -p com.company.game

  # Pull one trace and open it in Unreal Insights
  uaftctl --pull Profiling_001.utrace -s R58M12ABCDE -p com.company.game \
    --open-after-pull --insights /path/to/UnrealInsights

  # No action flag: enter interactive mode
  uaftctl -s R58M12ABCDE -p com.company.game`,
	Run: func(cmd *cobra.Command, args []string) {},
}

var opts = &Options{}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func init() {
	// Tool paths
	rootCmd.PersistentFlags().StringVar(&opts.UAFTPath, "uaft",
		getEnv("UAFTCTL_UAFT", ""),
		"Path to the UnrealAndroidFileTool executable")

	rootCmd.PersistentFlags().StringVar(&opts.InsightsPath, "insights",
		getEnv("UAFTCTL_INSIGHTS", ""),
		"Path to the UnrealInsights executable (optional)")

	// Connection options
	rootCmd.PersistentFlags().StringVarP(&opts.Serial, "serial", "s",
		getEnv("UAFTCTL_SERIAL", ""),
		"Device serial (takes precedence over --ip)")

	rootCmd.PersistentFlags().StringVar(&opts.IP, "ip", "",
		"Device IP address (ignored when --serial is set)")

	rootCmd.PersistentFlags().StringVarP(&opts.Port, "port", "t", "",
		"AFS receiver port (default 57099)")

	rootCmd.PersistentFlags().StringVarP(&opts.Package, "package", "p",
		getEnv("UAFTCTL_PACKAGE", ""),
		"Target package, e.g. com.company.game")

	rootCmd.PersistentFlags().StringVarP(&opts.Token, "token", "k",
		getEnv("UAFTCTL_TOKEN", ""),
		"AFS security token")

	// Trace options
	rootCmd.PersistentFlags().StringVar(&opts.PullDir, "pull-dir", "",
		"Destination directory for pulled traces (default ~/UnrealTraces)")

	rootCmd.PersistentFlags().StringVar(&opts.TraceArgs, "trace-args", "",
		"Trace arguments template for UECommandLine.txt ({{host}} expands to --trace-host)")

	rootCmd.PersistentFlags().StringVar(&opts.TraceHost, "trace-host",
		getEnv("UAFTCTL_TRACE_HOST", "127.0.0.1"),
		"Host the instrumented app streams trace events to")

	// Actions
	rootCmd.PersistentFlags().BoolVar(&opts.ListDevices, "list-devices", false,
		"List devices UAFT can see and exit")

	rootCmd.PersistentFlags().BoolVar(&opts.ListPackages, "list-packages", false,
		"List packages with the AFS receiver and exit")

	rootCmd.PersistentFlags().BoolVar(&opts.Push, "push", false,
		"Generate UECommandLine.txt and push it to ^commandfile")

	rootCmd.PersistentFlags().BoolVar(&opts.ListTraces, "list-traces", false,
		"List traces under ^saved/Traces and exit")

	rootCmd.PersistentFlags().StringVar(&opts.Pull, "pull", "",
		"Pull the named remote trace into --pull-dir")

	rootCmd.PersistentFlags().StringVar(&opts.Open, "open", "",
		"Open a local trace file in Unreal Insights and exit")

	rootCmd.PersistentFlags().BoolVar(&opts.OpenAfter, "open-after-pull", false,
		"Open the trace in Unreal Insights after a successful pull")

	// Other options
	rootCmd.PersistentFlags().BoolVar(&opts.JSON, "json", false,
		"Print listings as JSON instead of log lines")

	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false,
		"Enable debug mode (default: false)")
}

func main() {
	parseArgs()

	// Configure zerolog
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := context.Background()

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Error().Err(err).Msg("loading config failed")
		return
	}
	applyConfig(cfg)

	log.Debug().RawJSON("options", []byte(utils.JsonString(opts))).Msg("resolved options")

	// --open needs no tool at all
	if opts.Open != "" {
		if err := insights.Open(opts.InsightsPath, opts.Open); err != nil {
			log.Error().Err(err).Msg("open trace failed")
		}
		return
	}

	tool, ok := checkTool(opts.UAFTPath)
	if !ok {
		return
	}

	if hitCmd := handleToolCommands(ctx, tool); hitCmd {
		return
	}

	interactive(ctx, tool)
}

func parseArgs() *Options {
	rootCmd.PersistentPreRunE = validateArgs
	cobra.CheckErr(rootCmd.Execute())
	return opts
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if opts.Package != "" && !uaft.ValidPackage(opts.Package) {
		return fmt.Errorf("package %q looks invalid. Use Android package format like 'com.company.game' (no ':' or spaces)", opts.Package)
	}
	return nil
}

// applyConfig fills options the flags and environment left empty from the
// config file (flag > env > file > default).
func applyConfig(cfg config.Config) {
	if opts.UAFTPath == "" {
		opts.UAFTPath = cfg.UAFTPath
	}
	if opts.InsightsPath == "" {
		opts.InsightsPath = cfg.InsightsPath
	}
	if opts.IP == "" {
		opts.IP = cfg.IP
	}
	if opts.Port == "" {
		opts.Port = cfg.Port
	}
	if opts.Package == "" {
		opts.Package = cfg.Package
	}
	if opts.Token == "" {
		opts.Token = cfg.Token
	}
	if opts.PullDir == "" {
		opts.PullDir = cfg.PullDir
	}
	if opts.TraceArgs == "" {
		opts.TraceArgs = cfg.TraceArgs
	}
}

// connParams assembles a fresh parameter set from the current options.
// Serial wins over IP, mirroring the tool's own precedence.
func connParams() uaft.ConnParams {
	p := uaft.ConnParams{
		Serial:  opts.Serial,
		Port:    opts.Port,
		Package: opts.Package,
		Token:   opts.Token,
	}
	if p.Serial == "" {
		p.IP = opts.IP
	}
	return p
}

func checkTool(path string) (*uaft.Tool, bool) {
	log.Info().Msg("Checking UnrealAndroidFileTool...")
	if path == "" {
		log.Error().Msg("no UAFT path configured")
		log.Info().Msg("   Set --uaft, UAFTCTL_UAFT, or uaft_path in the config file.")
		log.Info().Msg("   UAFT ships with Unreal Engine under Engine/Binaries/DotNET/Android/<platform>/.")
		return nil, false
	}

	tool, err := uaft.New(path, uaft.ExecRunner{})
	if err != nil {
		log.Error().Err(err).Msg("UAFT check failed")
		log.Info().Msg("   Solution:")
		log.Info().Msg("     1. Point --uaft at the UnrealAndroidFileTool executable, not its folder")
		log.Info().Msg("     2. On Windows pick UnrealAndroidFileTool.exe and make sure it is unblocked")
		return nil, false
	}
	log.Info().Msgf("OK (%s)", tool.Path())
	return tool, true
}

// handleToolCommands dispatches the action flags. It returns true when an
// action was requested, whether or not it succeeded.
func handleToolCommands(ctx context.Context, tool *uaft.Tool) bool {
	if opts.ListDevices {
		listDevices(ctx, tool)
		return true
	}
	if opts.ListPackages {
		listPackages(ctx, tool)
		return true
	}
	if opts.Push {
		pushCommandFile(ctx, tool)
		return true
	}
	if opts.ListTraces {
		listTraces(ctx, tool)
		return true
	}
	if opts.Pull != "" {
		pullTrace(ctx, tool, opts.Pull)
		return true
	}
	return false
}

func listDevices(ctx context.Context, tool *uaft.Tool) {
	serials, err := tool.Devices(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list devices failed")
		return
	}
	if len(serials) == 0 {
		log.Info().Msg("No devices found.")
		return
	}

	infos := lo.Map(serials, func(serial string, _ int) adb.DeviceInfo {
		return adb.Info(ctx, uaft.ExecRunner{}, serial)
	})
	if opts.JSON {
		fmt.Println(utils.JsonIndent(infos))
		return
	}
	log.Info().Msgf("Found %d device(s):", len(infos))
	for _, d := range infos {
		log.Info().Msgf("  %-20s %s %s", d.Serial, d.Make, d.Model)
	}
}

func listPackages(ctx context.Context, tool *uaft.Tool) {
	pkgs, err := tool.Packages(ctx, opts.Serial)
	if err != nil {
		log.Error().Err(err).Msg("list packages failed")
		return
	}
	if opts.JSON {
		fmt.Println(utils.JsonIndent(pkgs))
		return
	}
	log.Info().Msgf("Found %d package(s) with AFS:", len(pkgs))
	for _, p := range pkgs {
		log.Info().Msgf("  %s", p)
	}
}

func pushCommandFile(ctx context.Context, tool *uaft.Tool) {
	if opts.Package == "" {
		log.Error().Msg("package is required for push, set --package")
		return
	}

	content := cmdfile.Render(opts.TraceArgs, opts.TraceHost)
	local, err := cmdfile.DefaultPath()
	if err != nil {
		log.Error().Err(err).Msg("resolve command file path failed")
		return
	}
	if err := cmdfile.Write(local, content); err != nil {
		log.Error().Err(err).Msg("write command file failed")
		return
	}
	log.Debug().Str("path", local).Str("content", content).Msg("wrote command file")

	out, err := tool.PushCommandFile(ctx, connParams(), local)
	if err != nil {
		log.Error().Err(err).Msg("push command file failed")
		return
	}
	log.Info().Msgf("Pushed %s to ^commandfile", local)
	if strings.TrimSpace(out) != "" {
		log.Info().Msg(strings.TrimSpace(out))
	}
}

func listTraces(ctx context.Context, tool *uaft.Tool) {
	traces, err := tool.ListTraces(ctx, connParams())
	if err != nil {
		log.Error().Err(err).Msg("list traces failed")
		return
	}
	if opts.JSON {
		fmt.Println(utils.JsonIndent(traces))
		return
	}
	log.Info().Msgf("Found %d trace(s) under ^saved/Traces:", len(traces))
	for _, f := range traces {
		log.Info().Msgf("  %s", f)
	}
}

func pullTrace(ctx context.Context, tool *uaft.Tool, remote string) {
	local, err := tool.PullTrace(ctx, connParams(), remote, opts.PullDir)
	if err != nil {
		log.Error().Err(err).Msg("pull trace failed")
		return
	}
	log.Info().Msgf("Pulled %s -> %s", remote, local)

	if opts.OpenAfter {
		if err := insights.Open(opts.InsightsPath, local); err != nil {
			log.Error().Err(err).Msg("open trace failed")
		}
	}
}

// interactive runs the prompt loop when no action flag was given.
func interactive(ctx context.Context, tool *uaft.Tool) {
	log.Info().Msg("Entering interactive mode. Type 'help' for commands, 'quit' to exit.")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("uaftctl> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit", "q":
			log.Info().Msg("Goodbye!")
			return
		case "help":
			fmt.Println("  devices              list devices")
			fmt.Println("  packages             list packages with AFS")
			fmt.Println("  use <serial>         select a device")
			fmt.Println("  app <package>        select a package")
			fmt.Println("  push                 generate and push UECommandLine.txt")
			fmt.Println("  traces               list traces under ^saved/Traces")
			fmt.Println("  pull <remote>        pull a trace into the pull dir")
			fmt.Println("  open <local>         open a local trace in Unreal Insights")
			fmt.Println("  params               show the current connection parameters")
			fmt.Println("  quit                 exit")
		case "devices":
			listDevices(ctx, tool)
		case "packages":
			listPackages(ctx, tool)
		case "use":
			if len(fields) < 2 {
				log.Error().Msg("usage: use <serial>")
				continue
			}
			opts.Serial = fields[1]
			log.Info().Msgf("Using device %s", opts.Serial)
		case "app":
			if len(fields) < 2 {
				log.Error().Msg("usage: app <package>")
				continue
			}
			if !uaft.ValidPackage(fields[1]) {
				log.Error().Msgf("package %q looks invalid. Use Android package format like 'com.company.game' (no ':' or spaces)", fields[1])
				continue
			}
			opts.Package = fields[1]
			log.Info().Msgf("Using package %s", opts.Package)
		case "push":
			pushCommandFile(ctx, tool)
		case "traces":
			listTraces(ctx, tool)
		case "pull":
			if len(fields) < 2 {
				log.Error().Msg("usage: pull <remote trace>")
				continue
			}
			pullTrace(ctx, tool, fields[1])
		case "open":
			if len(fields) < 2 {
				log.Error().Msg("usage: open <local trace>")
				continue
			}
			if err := insights.Open(opts.InsightsPath, fields[1]); err != nil {
				log.Error().Err(err).Msg("open trace failed")
			}
		case "params":
			fmt.Println(utils.JsonIndent(connParams()))
		default:
			log.Error().Msgf("unknown command %q, type 'help'", fields[0])
		}
	}
}
